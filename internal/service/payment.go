package service

import (
	"context"
	"errors"
	"fmt"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	GetByOrder(ctx context.Context, orderID uint) (*dto.PaymentSummary, error)
	GetByID(ctx context.Context, paymentID uint) (*dto.PaymentSummary, error)
	// List is the admin view over every recorded payment, newest first.
	List(ctx context.Context) ([]*dto.PaymentSummary, error)
	// Process records a payment against an unpaid order and marks it
	// PAID. The amount must match the order total exactly; an order can
	// carry at most one payment.
	Process(ctx context.Context, orderID uint, amount decimal.Decimal) (*dto.PaymentSummary, error)
	// Refund removes the payment and marks the order REFUNDED.
	Refund(ctx context.Context, paymentID uint) error
}

type paymentServiceImpl struct {
	db          *gorm.DB
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
}

func NewPaymentService(db *gorm.DB, paymentRepo repository.PaymentRepository, orderRepo repository.OrderRepository) PaymentService {
	return &paymentServiceImpl{
		db:          db,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
	}
}

func (s *paymentServiceImpl) GetByOrder(ctx context.Context, orderID uint) (*dto.PaymentSummary, error) {
	payment, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment not found for order %d", orderID)
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}

	return paymentToSummary(payment), nil
}

func (s *paymentServiceImpl) GetByID(ctx context.Context, paymentID uint) (*dto.PaymentSummary, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment %d not found", paymentID)
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}

	return paymentToSummary(payment), nil
}

func (s *paymentServiceImpl) List(ctx context.Context) ([]*dto.PaymentSummary, error) {
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	summaries := make([]*dto.PaymentSummary, len(payments))
	for i, payment := range payments {
		summaries[i] = paymentToSummary(payment)
	}

	return summaries, nil
}

func (s *paymentServiceImpl) Process(ctx context.Context, orderID uint, amount decimal.Decimal) (*dto.PaymentSummary, error) {
	var payment *model.Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order %d not found", orderID)
			}
			return fmt.Errorf("find order: %w", err)
		}

		if !order.TotalPrice.Equal(amount) {
			return apperr.Validation("payment amount does not match order total")
		}

		exists, err := s.paymentRepo.ExistsForOrder(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("check existing payment: %w", err)
		}
		if exists {
			return apperr.Conflict("payment already exists for order %d", orderID)
		}

		payment = &model.Payment{
			OrderID: orderID,
			Amount:  amount,
		}
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("store payment: %w", err)
		}

		return s.orderRepo.UpdateStatus(ctx, tx, orderID, model.OrderStatusPaid)
	})
	if err != nil {
		return nil, err
	}

	return paymentToSummary(payment), nil
}

func (s *paymentServiceImpl) Refund(ctx context.Context, paymentID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.FindByID(ctx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment %d not found", paymentID)
			}
			return fmt.Errorf("find payment: %w", err)
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, payment.OrderID, model.OrderStatusRefunded); err != nil {
			return fmt.Errorf("mark order refunded: %w", err)
		}

		if err := s.paymentRepo.Delete(ctx, tx, paymentID); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}

		return nil
	})
}

func paymentToSummary(payment *model.Payment) *dto.PaymentSummary {
	return &dto.PaymentSummary{
		PaymentID: payment.PaymentID,
		Amount:    payment.Amount,
		CardLast4: payment.CardLast4,
		CardBrand: payment.CardBrand,
		CreatedAt: payment.CreatedAt,
	}
}
