package service

import (
	"context"
	"testing"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type paymentFixture struct {
	db       *gorm.DB
	payments PaymentService
	orders   OrderService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	db := newTestDB(t)
	orderRepo := repository.NewOrderRepository(db)

	return &paymentFixture{
		db:       db,
		payments: NewPaymentService(db, repository.NewPaymentRepository(db), orderRepo),
		orders: NewOrderService(
			db,
			orderRepo,
			repository.NewUserRepository(db),
			repository.NewCartRepository(db),
		),
	}
}

func (f *paymentFixture) pendingOrder(t *testing.T) uint {
	t.Helper()
	ctx := context.Background()

	user := seedUser(t, f.db, "reader@example.com")
	book := seedBook(t, f.db, "Dune", "39.99", 5)
	addToCart(t, f.db, user, book, 2)

	order, err := f.orders.CreateFromCart(ctx, user.UserID)
	require.NoError(t, err)
	return order.OrderID
}

func TestProcessPaymentMarksOrderPaid(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	orderID := f.pendingOrder(t)

	summary, err := f.payments.Process(ctx, orderID, decimal.RequireFromString("79.98"))
	require.NoError(t, err)
	assert.True(t, summary.Amount.Equal(decimal.RequireFromString("79.98")))

	order, err := f.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, order.Status)

	got, err := f.payments.GetByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, summary.PaymentID, got.PaymentID)
}

func TestProcessPaymentAmountMismatch(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	orderID := f.pendingOrder(t)

	_, err := f.payments.Process(ctx, orderID, decimal.RequireFromString("80.00"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	order, err := f.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
}

func TestProcessPaymentTwiceConflicts(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	orderID := f.pendingOrder(t)
	amount := decimal.RequireFromString("79.98")

	_, err := f.payments.Process(ctx, orderID, amount)
	require.NoError(t, err)

	_, err = f.payments.Process(ctx, orderID, amount)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	assert.EqualValues(t, 1, count[model.Payment](t, f.db))
}

func TestRefundMarksOrderRefunded(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	orderID := f.pendingOrder(t)

	summary, err := f.payments.Process(ctx, orderID, decimal.RequireFromString("79.98"))
	require.NoError(t, err)

	require.NoError(t, f.payments.Refund(ctx, summary.PaymentID))

	order, err := f.orders.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRefunded, order.Status)

	_, err = f.payments.GetByOrder(ctx, orderID)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListAndGetPayments(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	orderID := f.pendingOrder(t)

	none, err := f.payments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, none)

	summary, err := f.payments.Process(ctx, orderID, decimal.RequireFromString("79.98"))
	require.NoError(t, err)

	all, err := f.payments.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, summary.PaymentID, all[0].PaymentID)

	got, err := f.payments.GetByID(ctx, summary.PaymentID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(summary.Amount))

	_, err = f.payments.GetByID(ctx, 999)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRefundUnknownPayment(t *testing.T) {
	f := newPaymentFixture(t)

	err := f.payments.Refund(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
