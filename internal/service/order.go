package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"gorm.io/gorm"
)

type OrderService interface {
	ListByUser(ctx context.Context, userID uint) ([]*dto.OrderView, error)
	// ListAll is the admin sales history; nil bounds leave that side
	// open.
	ListAll(ctx context.Context, from, to *time.Time) ([]*dto.OrderView, error)
	GetByID(ctx context.Context, orderID uint) (*dto.OrderView, error)
	// CreateFromCart materializes an unpaid PENDING order from the
	// user's cart and empties the cart. No stock or payment side
	// effects; the legacy path kept for phone/invoice orders.
	CreateFromCart(ctx context.Context, userID uint) (*dto.OrderView, error)
	UpdateStatus(ctx context.Context, orderID uint, status string) (*dto.OrderView, error)
	// Cancel deletes an order outright; only PENDING orders qualify.
	Cancel(ctx context.Context, orderID uint) error
}

type orderServiceImpl struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	cartRepo  repository.CartRepository
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, userRepo repository.UserRepository, cartRepo repository.CartRepository) OrderService {
	return &orderServiceImpl{
		db:        db,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		cartRepo:  cartRepo,
	}
}

func (s *orderServiceImpl) ListByUser(ctx context.Context, userID uint) ([]*dto.OrderView, error) {
	if _, err := s.userRepo.FindByID(ctx, s.db, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	views := make([]*dto.OrderView, len(orders))
	for i, order := range orders {
		views[i] = orderToView(order)
	}

	return views, nil
}

func (s *orderServiceImpl) ListAll(ctx context.Context, from, to *time.Time) ([]*dto.OrderView, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperr.Validation("end of date range precedes its start")
	}

	orders, err := s.orderRepo.ListAll(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	views := make([]*dto.OrderView, len(orders))
	for i, order := range orders {
		views[i] = orderToView(order)
	}

	return views, nil
}

func (s *orderServiceImpl) GetByID(ctx context.Context, orderID uint) (*dto.OrderView, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d not found", orderID)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	return orderToView(order), nil
}

func (s *orderServiceImpl) CreateFromCart(ctx context.Context, userID uint) (*dto.OrderView, error) {
	var view *dto.OrderView

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("user %d not found", userID)
			}
			return fmt.Errorf("find user: %w", err)
		}

		cart, err := s.cartRepo.FindByUserID(ctx, tx, user.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("cart not found for user %d", user.UserID)
			}
			return fmt.Errorf("find cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return apperr.Validation("cannot create order from empty cart")
		}

		order := AssembleOrder(user.UserID, cart.Items, model.ShippingSnapshot{})
		order.Status = model.OrderStatusPending

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		items := make([]*model.OrderItem, len(order.Items))
		for i := range order.Items {
			order.Items[i].OrderID = order.OrderID
			items[i] = &order.Items[i]
		}
		if err := s.orderRepo.CreateItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		if err := s.cartRepo.Clear(ctx, tx, cart.CartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		for i := range order.Items {
			order.Items[i].Book = cart.Items[i].Book
		}
		view = orderToView(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uint, status string) (*dto.OrderView, error) {
	switch status {
	case model.OrderStatusPending, model.OrderStatusPendingPayment,
		model.OrderStatusPaid, model.OrderStatusCancelled, model.OrderStatusRefunded:
	default:
		return nil, apperr.Validation("unknown order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, s.db, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %d not found", orderID)
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	return s.GetByID(ctx, orderID)
}

func (s *orderServiceImpl) Cancel(ctx context.Context, orderID uint) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("order %d not found", orderID)
		}
		return fmt.Errorf("find order: %w", err)
	}

	if order.Status != model.OrderStatusPending {
		return apperr.Validation("only pending orders can be cancelled")
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	return nil
}

func orderToView(order *model.Order) *dto.OrderView {
	view := &dto.OrderView{
		OrderID:    order.OrderID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		Shipping: dto.AddressPayload{
			Street:     order.Shipping.Street,
			City:       order.Shipping.City,
			Province:   order.Shipping.Province,
			PostalCode: order.Shipping.PostalCode,
			Country:    order.Shipping.Country,
		},
		Items:     make([]dto.OrderLineView, len(order.Items)),
		CreatedAt: order.CreatedAt,
	}

	for i, item := range order.Items {
		view.Items[i] = dto.OrderLineView{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Book:        bookToView(&item.Book),
		}
	}

	if order.Payment != nil {
		view.Payment = &dto.PaymentSummary{
			PaymentID: order.Payment.PaymentID,
			Amount:    order.Payment.Amount,
			CardLast4: order.Payment.CardLast4,
			CardBrand: order.Payment.CardBrand,
			CreatedAt: order.Payment.CreatedAt,
		}
	}

	return view
}
