package service

import (
	"context"
	"testing"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalogService(t *testing.T) (CatalogService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewCatalogService(repository.NewBookRepository(db)), db
}

func TestCatalogCreateAndGet(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.BookView{
		Title:    "Dune",
		Author:   "Frank Herbert",
		ISBN:     "978-0441172719",
		Price:    decimal.RequireFromString("39.99"),
		Quantity: 5,
		Year:     1965,
		Genres:   []string{"science fiction"},
	})
	require.NoError(t, err)
	require.NotZero(t, created.BookID)

	got, err := svc.GetByID(ctx, created.BookID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, []string{"science fiction"}, got.Genres)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("39.99")))
}

func TestCatalogCreateValidation(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.Create(context.Background(), &dto.BookView{Title: "Dune"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCatalogListFilters(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	seedBook(t, db, "Dune", "39.99", 5)
	seedBook(t, db, "Dune Messiah", "29.99", 5)
	seedBook(t, db, "Foundation", "24.50", 5)

	all, err := svc.List(ctx, repository.BookFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	dunes, err := svc.List(ctx, repository.BookFilter{Title: "dune"})
	require.NoError(t, err)
	assert.Len(t, dunes, 2)
}

func TestCatalogRestock(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	book := seedBook(t, db, "Dune", "39.99", 5)

	got, err := svc.Restock(ctx, book.BookID, 7)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Quantity)

	_, err = svc.Restock(ctx, book.BookID, 0)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Restock(ctx, 999, 1)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCatalogUpdateKeepsUnsetFields(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()

	book := seedBook(t, db, "Dune", "39.99", 5)

	got, err := svc.Update(ctx, book.BookID, &dto.BookView{Description: "classic"})
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "classic", got.Description)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("39.99")))
}

func TestCatalogDeleteUnknown(t *testing.T) {
	svc, _ := newCatalogService(t)

	err := svc.Delete(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
