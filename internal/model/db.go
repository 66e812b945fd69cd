package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderStatusPending        = "PENDING"
	OrderStatusPendingPayment = "PENDING_PAYMENT"
	OrderStatusPaid           = "PAID"
	OrderStatusCancelled      = "CANCELLED"
	OrderStatusRefunded       = "REFUNDED"
)

type User struct {
	UserID    uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Password  string `gorm:"size:255;not null"`
	IsAdmin   bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

type Book struct {
	BookID      uint            `gorm:"primaryKey"`
	Title       string          `gorm:"size:255;index;not null"`
	Author      string          `gorm:"size:255;index;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string          `gorm:"size:2000"`
	ISBN        string          `gorm:"size:32;uniqueIndex;not null"`
	ImageURL    string          `gorm:"size:512"`
	Quantity    int             `gorm:"not null"` // stock on hand, never negative
	Year        int             `gorm:"column:year_published"`
	Genres      []string        `gorm:"serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Cart struct {
	CartID    uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"uniqueIndex;not null"`
	Items     []CartItem `gorm:"foreignKey:CartID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	CartItemID uint `gorm:"primaryKey"`
	CartID     uint `gorm:"index;not null"`
	BookID     uint `gorm:"index;not null"`
	Quantity   int  `gorm:"not null"`
	Book       Book `gorm:"foreignKey:BookID;references:BookID"`
	CreatedAt  time.Time
}

type Address struct {
	AddressID  uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index;not null"`
	Street     string `gorm:"size:255"`
	City       string `gorm:"size:100"`
	Province   string `gorm:"size:100"`
	PostalCode string `gorm:"size:20"`
	Country    string `gorm:"size:100"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ShippingSnapshot is the immutable copy of the destination captured at
// order-creation time. The columns live on the orders table, so editing
// a saved address never changes where a historical order shipped.
type ShippingSnapshot struct {
	Street     string `gorm:"column:shipping_street;size:255"`
	City       string `gorm:"column:shipping_city;size:100"`
	Province   string `gorm:"column:shipping_province;size:100"`
	PostalCode string `gorm:"column:shipping_postal_code;size:20"`
	Country    string `gorm:"column:shipping_country;size:100"`
}

type Order struct {
	OrderID    uint   `gorm:"primaryKey"`
	UserID     *uint  `gorm:"index"` // nullable: the user reference may be cleared, the order survives for audit
	Status     string `gorm:"size:32;index;not null"`
	TotalPrice decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	Shipping   ShippingSnapshot `gorm:"embedded"`
	Items      []OrderItem      `gorm:"foreignKey:OrderID"`
	Payment    *Payment         `gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time
}

type OrderItem struct {
	OrderItemID uint `gorm:"primaryKey"`
	OrderID     uint `gorm:"index;not null"`
	BookID      uint `gorm:"index;not null"`
	Quantity    int  `gorm:"not null"`
	// unit price snapshot, decoupled from later catalog price changes
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Book      Book            `gorm:"foreignKey:BookID;references:BookID"`
	CreatedAt time.Time
}

// PaymentMethod stores only a masked tail and an opaque gateway token,
// never the raw card number or CVV. At most one default per user.
type PaymentMethod struct {
	PaymentMethodID uint   `gorm:"primaryKey"`
	UserID          uint   `gorm:"index;not null"`
	CardLast4       string `gorm:"size:4;not null"`
	CardBrand       string `gorm:"size:32"`
	ExpiryMonth     string `gorm:"size:2"`
	ExpiryYear      string `gorm:"size:4"`
	PaymentToken    string `gorm:"size:128;not null"`
	IsDefault       bool   `gorm:"not null;default:false"`
	CreatedAt       time.Time
}

type Payment struct {
	PaymentID       uint            `gorm:"primaryKey"`
	OrderID         uint            `gorm:"uniqueIndex;not null"`
	PaymentMethodID *uint           `gorm:"index"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CardLast4       string          `gorm:"size:4"`
	CardBrand       string          `gorm:"size:32"`
	PaymentToken    string          `gorm:"size:128"`
	CreatedAt       time.Time
}
