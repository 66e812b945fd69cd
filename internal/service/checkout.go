package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/metrics"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutService converts a cart into a paid order as one atomic unit
// of work: resolve the shipping destination, validate stock, assemble
// the order with price snapshots, authorize payment, decrement stock
// and empty the cart. Any failure along the way rolls the whole
// transaction back, so a declined or invalid checkout leaves no state
// behind.
type CheckoutService interface {
	Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.OrderView, error)
}

type checkoutServiceImpl struct {
	db                *gorm.DB
	userRepo          repository.UserRepository
	cartRepo          repository.CartRepository
	orderRepo         repository.OrderRepository
	paymentRepo       repository.PaymentRepository
	paymentMethodRepo repository.PaymentMethodRepository
	addressService    AddressService
	vault             PaymentMethodService
	ledger            InventoryLedger
	authorizer        PaymentAuthorizer
	checkoutMetrics   *metrics.CheckoutMetrics
}

func NewCheckoutService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	paymentMethodRepo repository.PaymentMethodRepository,
	addressService AddressService,
	vault PaymentMethodService,
	ledger InventoryLedger,
	authorizer PaymentAuthorizer,
	checkoutMetrics *metrics.CheckoutMetrics,
) CheckoutService {
	return &checkoutServiceImpl{
		db:                db,
		userRepo:          userRepo,
		cartRepo:          cartRepo,
		orderRepo:         orderRepo,
		paymentRepo:       paymentRepo,
		paymentMethodRepo: paymentMethodRepo,
		addressService:    addressService,
		vault:             vault,
		ledger:            ledger,
		authorizer:        authorizer,
		checkoutMetrics:   checkoutMetrics,
	}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.OrderView, error) {
	started := time.Now()

	view, err := s.checkout(ctx, req)
	s.checkoutMetrics.Observe(outcomeFor(err), started)

	return view, err
}

func (s *checkoutServiceImpl) checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.OrderView, error) {
	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	var view *dto.OrderView

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByID(ctx, tx, req.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("user %d not found", req.UserID)
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
			return apperr.Validation("cannot checkout with empty cart")
		}

		shipping, err := s.addressService.ResolveShipping(ctx, tx, user.UserID, req.AddressID, req.TemporaryAddress, req.SaveAddress)
		if err != nil {
			return err
		}

		if err := s.ledger.CheckAvailability(cart.Items); err != nil {
			return err
		}

		order := AssembleOrder(user.UserID, cart.Items, shipping)

		payment, err := s.authorizePayment(ctx, tx, user.UserID, req, order)
		if err != nil {
			return err
		}

		// authorization accepted: commit everything together
		order.Status = model.OrderStatusPaid

		if err := s.ledger.Decrement(ctx, tx, cart.Items); err != nil {
			return err
		}

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

		payment.OrderID = order.OrderID
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("store payment: %w", err)
		}
		order.Payment = payment

		if err := s.cartRepo.Clear(ctx, tx, cart.CartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		// attach book views from the cart lines loaded in this tx
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

// authorizePayment runs the saved-method or inline-card path and
// returns the unsaved payment record on acceptance. A decline aborts
// the surrounding transaction, which also rolls back a vaulted method.
func (s *checkoutServiceImpl) authorizePayment(ctx context.Context, tx *gorm.DB, userID uint, req *dto.CheckoutRequest, order *model.Order) (*model.Payment, error) {
	payment := &model.Payment{
		Amount: order.TotalPrice,
	}

	if req.PaymentMethodID != nil {
		method, err := s.paymentMethodRepo.FindByIDAndUser(ctx, tx, *req.PaymentMethodID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("payment method %d not found for user %d", *req.PaymentMethodID, userID)
			}
			return nil, fmt.Errorf("find payment method: %w", err)
		}

		if !s.authorizer.AuthorizeToken(method.PaymentToken, order.TotalPrice) {
			return nil, apperr.PaymentDeclined("credit card authorization failed")
		}

		payment.PaymentMethodID = &method.PaymentMethodID
		payment.CardLast4 = method.CardLast4
		payment.CardBrand = method.CardBrand
		payment.PaymentToken = method.PaymentToken
		return payment, nil
	}

	card := req.TemporaryPayment
	if !s.authorizer.AuthorizeCard(card, order.TotalPrice) {
		return nil, apperr.PaymentDeclined("credit card authorization failed")
	}

	payment.CardLast4 = cardLast4(card.CardNumber)
	payment.CardBrand = card.CardBrand
	payment.PaymentToken = "tmp_" + uuid.NewString()

	if req.SavePaymentMethod {
		method, err := s.vault.SaveFromCard(ctx, tx, userID, card, payment.PaymentToken)
		if err != nil {
			return nil, err
		}
		payment.PaymentMethodID = &method.PaymentMethodID
	}

	return payment, nil
}

func validateCheckoutRequest(req *dto.CheckoutRequest) error {
	if req.AddressID == nil && req.TemporaryAddress == nil {
		return apperr.Validation("no address information provided")
	}
	if req.AddressID != nil && req.TemporaryAddress != nil {
		return apperr.Validation("provide either a saved address or a temporary address, not both")
	}
	if req.PaymentMethodID == nil && req.TemporaryPayment == nil {
		return apperr.Validation("no payment information provided")
	}
	if req.PaymentMethodID != nil && req.TemporaryPayment != nil {
		return apperr.Validation("provide either a saved payment method or temporary payment info, not both")
	}

	return nil
}

func outcomeFor(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindUnknown:
		if err != nil {
			return metrics.OutcomeError
		}
		return metrics.OutcomeAccepted
	case apperr.KindPaymentDeclined:
		return metrics.OutcomeDeclined
	case apperr.KindInsufficientStock:
		return metrics.OutcomeInsufficientStock
	default:
		return metrics.OutcomeRejected
	}
}
