package service

import (
	"bookstore-backend/internal/model"

	"github.com/shopspring/decimal"
)

// AssembleOrder builds the unsaved order aggregate from validated cart
// lines. Each line snapshots the current catalog unit price, so later
// price changes never touch the order, and the total is summed with
// exact decimal arithmetic.
func AssembleOrder(userID uint, items []model.CartItem, shipping model.ShippingSnapshot) *model.Order {
	total := decimal.Zero
	lines := make([]model.OrderItem, len(items))

	for i, item := range items {
		lines[i] = model.OrderItem{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Book.Price,
		}

		lineTotal := item.Book.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
	}

	owner := userID
	return &model.Order{
		UserID:     &owner,
		Status:     model.OrderStatusPendingPayment,
		TotalPrice: total,
		Shipping:   shipping,
		Items:      lines,
	}
}
