package service

import (
	"context"
	"errors"
	"fmt"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentMethodService manages a user's saved payment methods and the
// at-most-one-default invariant.
type PaymentMethodService interface {
	ListByUser(ctx context.Context, userID uint) ([]*dto.PaymentMethodView, error)
	Add(ctx context.Context, userID uint, payload *dto.PaymentMethodPayload) (*dto.PaymentMethodView, error)
	GetDefault(ctx context.Context, userID uint) (*dto.PaymentMethodView, error)
	SetDefault(ctx context.Context, userID, methodID uint) (*dto.PaymentMethodView, error)
	Delete(ctx context.Context, userID, methodID uint) error

	// SaveFromCard vaults an inline checkout card within the caller's
	// transaction. The method becomes default iff the user had none.
	SaveFromCard(ctx context.Context, tx *gorm.DB, userID uint, card *dto.CardPayload, token string) (*model.PaymentMethod, error)
}

type paymentMethodServiceImpl struct {
	db                *gorm.DB
	paymentMethodRepo repository.PaymentMethodRepository
	userRepo          repository.UserRepository
}

func NewPaymentMethodService(db *gorm.DB, paymentMethodRepo repository.PaymentMethodRepository, userRepo repository.UserRepository) PaymentMethodService {
	return &paymentMethodServiceImpl{
		db:                db,
		paymentMethodRepo: paymentMethodRepo,
		userRepo:          userRepo,
	}
}

func (s *paymentMethodServiceImpl) ListByUser(ctx context.Context, userID uint) ([]*dto.PaymentMethodView, error) {
	methods, err := s.paymentMethodRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}

	views := make([]*dto.PaymentMethodView, len(methods))
	for i, method := range methods {
		views[i] = paymentMethodToView(method)
	}

	return views, nil
}

func (s *paymentMethodServiceImpl) Add(ctx context.Context, userID uint, payload *dto.PaymentMethodPayload) (*dto.PaymentMethodView, error) {
	if _, err := s.userRepo.FindByID(ctx, s.db, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	method := &model.PaymentMethod{
		UserID:       userID,
		CardLast4:    payload.CardLast4,
		CardBrand:    payload.CardBrand,
		ExpiryMonth:  payload.ExpiryMonth,
		ExpiryYear:   payload.ExpiryYear,
		PaymentToken: mintPaymentToken(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.paymentMethodRepo.CountByUser(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("count payment methods: %w", err)
		}
		method.IsDefault = count == 0

		return s.paymentMethodRepo.Create(ctx, tx, method)
	})
	if err != nil {
		return nil, fmt.Errorf("add payment method: %w", err)
	}

	return paymentMethodToView(method), nil
}

func (s *paymentMethodServiceImpl) GetDefault(ctx context.Context, userID uint) (*dto.PaymentMethodView, error) {
	method, err := s.paymentMethodRepo.FindDefault(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no default payment method for user %d", userID)
		}
		return nil, fmt.Errorf("find default payment method: %w", err)
	}

	return paymentMethodToView(method), nil
}

func (s *paymentMethodServiceImpl) SetDefault(ctx context.Context, userID, methodID uint) (*dto.PaymentMethodView, error) {
	var method *model.PaymentMethod

	// unset and set must happen together so the invariant is never
	// observably violated
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.paymentMethodRepo.FindByIDAndUser(ctx, tx, methodID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment method %d not found for user %d", methodID, userID)
			}
			return fmt.Errorf("find payment method: %w", err)
		}

		if err := s.paymentMethodRepo.ClearDefault(ctx, tx, userID); err != nil {
			return fmt.Errorf("clear default: %w", err)
		}
		if err := s.paymentMethodRepo.MarkDefault(ctx, tx, methodID); err != nil {
			return fmt.Errorf("mark default: %w", err)
		}

		found.IsDefault = true
		method = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paymentMethodToView(method), nil
}

func (s *paymentMethodServiceImpl) Delete(ctx context.Context, userID, methodID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		method, err := s.paymentMethodRepo.FindByIDAndUser(ctx, tx, methodID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment method %d not found for user %d", methodID, userID)
			}
			return fmt.Errorf("find payment method: %w", err)
		}

		if err := s.paymentMethodRepo.Delete(ctx, tx, methodID); err != nil {
			return fmt.Errorf("delete payment method: %w", err)
		}

		// promote the oldest remaining method when the default is removed
		if method.IsDefault {
			remaining, err := s.paymentMethodRepo.ListByUser(ctx, tx, userID)
			if err != nil {
				return fmt.Errorf("list remaining methods: %w", err)
			}
			if len(remaining) > 0 {
				if err := s.paymentMethodRepo.MarkDefault(ctx, tx, remaining[0].PaymentMethodID); err != nil {
					return fmt.Errorf("promote default: %w", err)
				}
			}
		}

		return nil
	})
}

func (s *paymentMethodServiceImpl) SaveFromCard(ctx context.Context, tx *gorm.DB, userID uint, card *dto.CardPayload, token string) (*model.PaymentMethod, error) {
	count, err := s.paymentMethodRepo.CountByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("count payment methods: %w", err)
	}

	method := &model.PaymentMethod{
		UserID:       userID,
		CardLast4:    cardLast4(card.CardNumber),
		CardBrand:    card.CardBrand,
		ExpiryMonth:  card.ExpiryMonth,
		ExpiryYear:   card.ExpiryYear,
		PaymentToken: token,
		IsDefault:    count == 0,
	}

	if err := s.paymentMethodRepo.Create(ctx, tx, method); err != nil {
		return nil, fmt.Errorf("save payment method: %w", err)
	}

	return method, nil
}

func mintPaymentToken() string {
	return "pm_" + uuid.NewString()
}

func cardLast4(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}

func paymentMethodToView(method *model.PaymentMethod) *dto.PaymentMethodView {
	return &dto.PaymentMethodView{
		PaymentMethodID: method.PaymentMethodID,
		CardLast4:       method.CardLast4,
		CardBrand:       method.CardBrand,
		ExpiryMonth:     method.ExpiryMonth,
		ExpiryYear:      method.ExpiryYear,
		IsDefault:       method.IsDefault,
		CreatedAt:       method.CreatedAt,
	}
}
