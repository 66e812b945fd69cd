package service

import (
	"context"
	"fmt"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"gorm.io/gorm"
)

// InventoryLedger validates and applies stock movements for checkout.
// CheckAvailability and Decrement must run inside the same transaction;
// the decrement itself is guarded, so a concurrent checkout that won
// the race surfaces as InsufficientStock instead of negative stock.
type InventoryLedger interface {
	CheckAvailability(items []model.CartItem) error
	Decrement(ctx context.Context, tx *gorm.DB, items []model.CartItem) error
}

type inventoryLedgerImpl struct {
	bookRepo repository.BookRepository
}

func NewInventoryLedger(bookRepo repository.BookRepository) InventoryLedger {
	return &inventoryLedgerImpl{
		bookRepo: bookRepo,
	}
}

func (l *inventoryLedgerImpl) CheckAvailability(items []model.CartItem) error {
	for _, item := range items {
		if item.Book.Quantity < item.Quantity {
			return apperr.InsufficientStock("insufficient stock for book: %s", item.Book.Title)
		}
	}

	return nil
}

func (l *inventoryLedgerImpl) Decrement(ctx context.Context, tx *gorm.DB, items []model.CartItem) error {
	for _, item := range items {
		ok, err := l.bookRepo.DecrementStock(ctx, tx, item.BookID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock for book %d: %w", item.BookID, err)
		}
		if !ok {
			return apperr.InsufficientStock("insufficient stock for book: %s", item.Book.Title)
		}
	}

	return nil
}
