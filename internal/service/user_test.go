package service

import (
	"context"
	"testing"
	"time"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/config"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewUserService(
		db,
		repository.NewUserRepository(db),
		repository.NewCartRepository(db),
		repository.NewAddressRepository(db),
		repository.NewPaymentMethodRepository(db),
		config.JWT{Secret: "test-secret", TTL: time.Hour},
	)
	return svc, db
}

func TestRegisterCreatesCart(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:     "reader@example.com",
		FirstName: "Test",
		LastName:  "Reader",
		Password:  "secret",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.UserID)

	var cart model.Cart
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&cart).Error)
}

func TestRegisterWithAddressAndMethod(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "reader@example.com",
		Password: "secret",
		Address: &dto.AddressPayload{
			Street: "12 Main St", City: "Toronto", Country: "Canada",
		},
		PaymentMethod: &dto.PaymentMethodPayload{
			CardLast4: "4242", CardBrand: "VISA", ExpiryMonth: "12", ExpiryYear: "2030",
		},
	})
	require.NoError(t, err)

	var address model.Address
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&address).Error)
	assert.Equal(t, "Toronto", address.City)

	var method model.PaymentMethod
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&method).Error)
	assert.True(t, method.IsDefault)
	assert.NotEmpty(t, method.PaymentToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	req := &dto.RegisterRequest{Email: "reader@example.com", Password: "secret"}

	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestRegisterMissingCredentials(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "reader@example.com"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "reader@example.com", Password: "secret"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "reader@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", resp.User.Email)

	token, err := jwt.Parse(resp.Token, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "reader@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "reader@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestUpdatePassword(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Email: "reader@example.com", Password: "secret"})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.UserID, "wrong", "changed")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	err = svc.UpdatePassword(ctx, user.UserID, "secret", "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	require.NoError(t, svc.UpdatePassword(ctx, user.UserID, "secret", "changed"))

	_, err = svc.Login(ctx, "reader@example.com", "secret")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	resp, err := svc.Login(ctx, "reader@example.com", "changed")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Login(context.Background(), "ghost@example.com", "secret")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
