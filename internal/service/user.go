package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/config"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserView, error)
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	GetByID(ctx context.Context, userID uint) (*dto.UserView, error)
	// UpdatePassword requires the current password to match before the
	// new one is stored.
	UpdatePassword(ctx context.Context, userID uint, current, updated string) error
}

type userServiceImpl struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	vault       repository.PaymentMethodRepository
	jwtConfig   config.JWT
}

func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	vault repository.PaymentMethodRepository,
	jwtConfig config.JWT,
) UserService {
	return &userServiceImpl{
		db:          db,
		userRepo:    userRepo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		vault:       vault,
		jwtConfig:   jwtConfig,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserView, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email %s is already registered", req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user := &model.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		// every user starts with an empty cart
		if err := s.cartRepo.Create(ctx, tx, &model.Cart{UserID: user.UserID}); err != nil {
			return fmt.Errorf("create cart: %w", err)
		}

		if req.Address != nil {
			address := &model.Address{
				UserID:     user.UserID,
				Street:     req.Address.Street,
				City:       req.Address.City,
				Province:   req.Address.Province,
				PostalCode: req.Address.PostalCode,
				Country:    req.Address.Country,
			}
			if err := s.addressRepo.Create(ctx, tx, address); err != nil {
				return fmt.Errorf("create address: %w", err)
			}
		}

		if req.PaymentMethod != nil {
			method := &model.PaymentMethod{
				UserID:       user.UserID,
				CardLast4:    req.PaymentMethod.CardLast4,
				CardBrand:    req.PaymentMethod.CardBrand,
				ExpiryMonth:  req.PaymentMethod.ExpiryMonth,
				ExpiryYear:   req.PaymentMethod.ExpiryYear,
				PaymentToken: mintPaymentToken(),
				IsDefault:    true, // first method for a brand new user
			}
			if err := s.vault.Create(ctx, tx, method); err != nil {
				return fmt.Errorf("create payment method: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return userToView(user), nil
}

func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found: %s", email)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.Password != password {
		return nil, apperr.Forbidden("invalid password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &dto.LoginResponse{
		Token: token,
		User:  *userToView(user),
	}, nil
}

func (s *userServiceImpl) GetByID(ctx context.Context, userID uint) (*dto.UserView, error) {
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return userToView(user), nil
}

func (s *userServiceImpl) UpdatePassword(ctx context.Context, userID uint, current, updated string) error {
	if updated == "" {
		return apperr.Validation("new password must not be empty")
	}

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user %d not found", userID)
		}
		return fmt.Errorf("find user: %w", err)
	}

	if user.Password != current {
		return apperr.Forbidden("invalid password")
	}
	if updated == current {
		return apperr.Validation("new password must differ from the current one")
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, updated); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

func (s *userServiceImpl) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprint(user.UserID),
		"admin": user.IsAdmin,
		"iat":   now.Unix(),
		"exp":   now.Add(s.jwtConfig.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}

func userToView(user *model.User) *dto.UserView {
	return &dto.UserView{
		UserID:    user.UserID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
	}
}
