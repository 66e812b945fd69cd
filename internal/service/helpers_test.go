package service

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"bookstore-backend/internal/client"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh named in-memory database. cache=shared plus a
// single pooled connection keeps every transaction on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, client.Migrate(db))
	return db
}

// newFileTestDB opens a file-backed database so multiple connections
// can contend for the write lock. _txlock=immediate takes the lock at
// BEGIN, which keeps concurrent transactions from deadlocking on a
// read-to-write upgrade.
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "store.db") +
		"?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, client.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "Reader",
		Password:  "secret",
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.Cart{UserID: user.UserID}).Error)
	return user
}

func seedBook(t *testing.T, db *gorm.DB, title, price string, quantity int) *model.Book {
	t.Helper()

	book := &model.Book{
		Title:    title,
		Author:   "A. Author",
		Price:    decimal.RequireFromString(price),
		ISBN:     "isbn-" + title,
		Quantity: quantity,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func addToCart(t *testing.T, db *gorm.DB, user *model.User, book *model.Book, quantity int) {
	t.Helper()

	var cart model.Cart
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&cart).Error)
	require.NoError(t, db.Create(&model.CartItem{
		CartID:   cart.CartID,
		BookID:   book.BookID,
		Quantity: quantity,
	}).Error)
}

func validCard() *dto.CardPayload {
	return &dto.CardPayload{
		CardNumber:     "4111111111111111",
		CardBrand:      "VISA",
		CVV:            "123",
		ExpiryMonth:    "12",
		ExpiryYear:     "2030",
		CardholderName: "Test Reader",
	}
}

func inlineAddress() *dto.AddressPayload {
	return &dto.AddressPayload{
		Street:     "12 Main St",
		City:       "Toronto",
		Province:   "ON",
		PostalCode: "M5V 1A1",
		Country:    "Canada",
	}
}

// checkoutFixture wires the checkout service against a real database
// with a fresh authorizer, so each test controls the attempt counter.
type checkoutFixture struct {
	db         *gorm.DB
	authorizer PaymentAuthorizer
	service    CheckoutService
	methods    PaymentMethodService
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	return newCheckoutFixtureOn(t, newTestDB(t))
}

func newCheckoutFixtureOn(t *testing.T, db *gorm.DB) *checkoutFixture {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	cartRepo := repository.NewCartRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)

	addressService := NewAddressService(db, addressRepo, userRepo)
	methodService := NewPaymentMethodService(db, methodRepo, userRepo)
	authorizer := NewMockAuthorizer()

	service := NewCheckoutService(
		db,
		userRepo,
		cartRepo,
		orderRepo,
		paymentRepo,
		methodRepo,
		addressService,
		methodService,
		NewInventoryLedger(bookRepo),
		authorizer,
		nil,
	)

	return &checkoutFixture{
		db:         db,
		authorizer: authorizer,
		service:    service,
		methods:    methodService,
	}
}

func count[T any](t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	var zero T
	require.NoError(t, db.Model(&zero).Count(&n).Error)
	return n
}
