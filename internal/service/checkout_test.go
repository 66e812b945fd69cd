package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHappyPath(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	user := seedUser(t, f.db, "reader@example.com")
	book := seedBook(t, f.db, "Dune", "39.99", 5)
	addToCart(t, f.db, user, book, 2)

	view, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
		UserID:           user.UserID,
		TemporaryAddress: inlineAddress(),
		TemporaryPayment: validCard(),
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPaid, view.Status)
	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("79.98")),
		"expected exact total 79.98, got %s", view.TotalPrice)
	assert.Equal(t, "Toronto", view.Shipping.City)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Items[0].Price.Equal(book.Price))

	require.NotNil(t, view.Payment)
	assert.Equal(t, "1111", view.Payment.CardLast4)
	assert.True(t, view.Payment.Amount.Equal(view.TotalPrice))

	var stored model.Book
	require.NoError(t, f.db.First(&stored, book.BookID).Error)
	assert.Equal(t, 3, stored.Quantity)

	assert.Zero(t, count[model.CartItem](t, f.db), "cart should be emptied")
	assert.EqualValues(t, 1, count[model.Order](t, f.db))
	assert.EqualValues(t, 1, count[model.Payment](t, f.db))
}

func TestCheckoutEveryThirdAttemptDeclined(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	user := seedUser(t, f.db, "reader@example.com")
	book := seedBook(t, f.db, "Dune", "10.00", 10)

	for attempt := 1; attempt <= 3; attempt++ {
		addToCart(t, f.db, user, book, 1)

		_, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
			UserID:           user.UserID,
			TemporaryAddress: inlineAddress(),
			TemporaryPayment: validCard(),
		})

		if attempt == 3 {
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindPaymentDeclined))
		} else {
			require.NoError(t, err)
		}
	}

	assert.EqualValues(t, 3, f.authorizer.Attempts())

	var stored model.Book
	require.NoError(t, f.db.First(&stored, book.BookID).Error)
	assert.Equal(t, 8, stored.Quantity, "declined attempt must not touch stock")
	assert.EqualValues(t, 2, count[model.Order](t, f.db))
	assert.EqualValues(t, 1, count[model.CartItem](t, f.db), "declined checkout keeps the cart")
}

func TestCheckoutDeclineRollsBackEverything(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	user := seedUser(t, f.db, "reader@example.com")
	book := seedBook(t, f.db, "Dune", "39.99", 5)
	addToCart(t, f.db, user, book, 2)

	// burn two attempts so the checkout lands on the declined third
	one := decimal.NewFromInt(1)
	f.authorizer.AuthorizeToken("tok_warmup", one)
	f.authorizer.AuthorizeToken("tok_warmup", one)

	_, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
		UserID:            user.UserID,
		TemporaryAddress:  inlineAddress(),
		SaveAddress:       true,
		TemporaryPayment:  validCard(),
		SavePaymentMethod: true,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPaymentDeclined))

	var stored model.Book
	require.NoError(t, f.db.First(&stored, book.BookID).Error)
	assert.Equal(t, 5, stored.Quantity)

	assert.Zero(t, count[model.Order](t, f.db))
	assert.Zero(t, count[model.OrderItem](t, f.db))
	assert.Zero(t, count[model.Payment](t, f.db))
	assert.Zero(t, count[model.Address](t, f.db), "address save must roll back with the decline")
	assert.Zero(t, count[model.PaymentMethod](t, f.db))
	assert.EqualValues(t, 1, count[model.CartItem](t, f.db))
}

func TestCheckoutInsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	user := seedUser(t, f.db, "reader@example.com")
	book := seedBook(t, f.db, "Dune", "39.99", 1)
	addToCart(t, f.db, user, book, 2)

	_, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
		UserID:           user.UserID,
		TemporaryAddress: inlineAddress(),
		TemporaryPayment: validCard(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInsufficientStock))

	assert.Zero(t, f.authorizer.Attempts(), "payment must not be attempted without stock")
	assert.Zero(t, count[model.Order](t, f.db))

	var stored model.Book
	require.NoError(t, f.db.First(&stored, book.BookID).Error)
	assert.Equal(t, 1, stored.Quantity)
}

func TestCheckoutConcurrentOversellGuard(t *testing.T) {
	f := newCheckoutFixtureOn(t, newFileTestDB(t))
	ctx := context.Background()

	const initialStock = 3
	const buyers = 8

	book := seedBook(t, f.db, "Dune", "39.99", initialStock)

	users := make([]*model.User, buyers)
	for i := range users {
		users[i] = seedUser(t, f.db, fmt.Sprintf("reader%d@example.com", i))
		addToCart(t, f.db, users[i], book, 1)
	}

	var sold atomic.Int64
	var wg sync.WaitGroup
	for i := range users {
		wg.Add(1)
		go func(user *model.User) {
			defer wg.Done()
			_, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
				UserID:           user.UserID,
				TemporaryAddress: inlineAddress(),
				TemporaryPayment: validCard(),
			})
			if err == nil {
				sold.Add(1)
			}
		}(users[i])
	}
	wg.Wait()

	// declines and stock rejections both count as failed checkouts;
	// the guard only promises no copy is sold twice
	assert.LessOrEqual(t, sold.Load(), int64(initialStock))

	var stored model.Book
	require.NoError(t, f.db.First(&stored, book.BookID).Error)
	assert.GreaterOrEqual(t, stored.Quantity, 0)
	assert.EqualValues(t, initialStock-sold.Load(), stored.Quantity)

	assert.EqualValues(t, sold.Load(), count[model.Order](t, f.db))
	assert.EqualValues(t, sold.Load(), count[model.Payment](t, f.db))
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	user := seedUser(t, f.db, "reader@example.com")

	_, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
		UserID:           user.UserID,
		TemporaryAddress: inlineAddress(),
		TemporaryPayment: validCard(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCheckoutRequestValidation(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	user := seedUser(t, f.db, "reader@example.com")
	book := seedBook(t, f.db, "Dune", "39.99", 5)
	addToCart(t, f.db, user, book, 1)

	addressID := uint(1)
	methodID := uint(1)

	cases := []struct {
		name string
		req  dto.CheckoutRequest
	}{
		{
			name: "no address",
			req:  dto.CheckoutRequest{TemporaryPayment: validCard()},
		},
		{
			name: "both addresses",
			req: dto.CheckoutRequest{
				AddressID:        &addressID,
				TemporaryAddress: inlineAddress(),
				TemporaryPayment: validCard(),
			},
		},
		{
			name: "no payment",
			req:  dto.CheckoutRequest{TemporaryAddress: inlineAddress()},
		},
		{
			name: "both payments",
			req: dto.CheckoutRequest{
				TemporaryAddress: inlineAddress(),
				PaymentMethodID:  &methodID,
				TemporaryPayment: validCard(),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.UserID = user.UserID
			_, err := f.service.Checkout(ctx, &tc.req)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}

	assert.Zero(t, f.authorizer.Attempts())
}

func TestCheckoutRejectsForeignAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	owner := seedUser(t, f.db, "owner@example.com")
	intruder := seedUser(t, f.db, "intruder@example.com")
	book := seedBook(t, f.db, "Dune", "39.99", 5)
	addToCart(t, f.db, intruder, book, 1)

	address := &model.Address{UserID: owner.UserID, Street: "1 Private Way", City: "Ottawa", Country: "Canada"}
	require.NoError(t, f.db.Create(address).Error)

	_, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
		UserID:           intruder.UserID,
		AddressID:        &address.AddressID,
		TemporaryPayment: validCard(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	assert.Zero(t, count[model.Order](t, f.db))
}

func TestCheckoutWithSavedMethod(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	user := seedUser(t, f.db, "reader@example.com")
	book := seedBook(t, f.db, "Dune", "39.99", 5)
	addToCart(t, f.db, user, book, 1)

	method, err := f.methods.Add(ctx, user.UserID, &dto.PaymentMethodPayload{
		CardLast4:   "4242",
		CardBrand:   "VISA",
		ExpiryMonth: "12",
		ExpiryYear:  "2030",
	})
	require.NoError(t, err)

	view, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
		UserID:           user.UserID,
		TemporaryAddress: inlineAddress(),
		PaymentMethodID:  &method.PaymentMethodID,
	})
	require.NoError(t, err)

	require.NotNil(t, view.Payment)
	assert.Equal(t, "4242", view.Payment.CardLast4)

	var payment model.Payment
	require.NoError(t, f.db.First(&payment).Error)
	require.NotNil(t, payment.PaymentMethodID)
	assert.Equal(t, method.PaymentMethodID, *payment.PaymentMethodID)
}

func TestCheckoutVaultsInlineCard(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	user := seedUser(t, f.db, "reader@example.com")
	book := seedBook(t, f.db, "Dune", "39.99", 5)
	addToCart(t, f.db, user, book, 1)

	_, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
		UserID:            user.UserID,
		TemporaryAddress:  inlineAddress(),
		TemporaryPayment:  validCard(),
		SavePaymentMethod: true,
	})
	require.NoError(t, err)

	methods, err := f.methods.ListByUser(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "1111", methods[0].CardLast4)
	assert.True(t, methods[0].IsDefault, "first vaulted method becomes the default")

	var payment model.Payment
	require.NoError(t, f.db.First(&payment).Error)
	assert.NotNil(t, payment.PaymentMethodID)
}

func TestCheckoutUnknownUser(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	_, err := f.service.Checkout(ctx, &dto.CheckoutRequest{
		UserID:           999,
		TemporaryAddress: inlineAddress(),
		TemporaryPayment: validCard(),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
