package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---- requests ----

type RegisterRequest struct {
	Email         string                `json:"email"`
	FirstName     string                `json:"first_name"`
	LastName      string                `json:"last_name"`
	Password      string                `json:"password"`
	Address       *AddressPayload       `json:"address,omitempty"`
	PaymentMethod *PaymentMethodPayload `json:"payment_method,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddressPayload struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CardPayload carries raw card fields for a one-off payment. The raw
// number and CVV are never persisted.
type CardPayload struct {
	CardNumber     string `json:"card_number"`
	CardBrand      string `json:"card_brand"`
	CVV            string `json:"cvv"`
	ExpiryMonth    string `json:"expiry_month"`
	ExpiryYear     string `json:"expiry_year"`
	CardholderName string `json:"cardholder_name"`
}

type PaymentMethodPayload struct {
	CardLast4   string `json:"card_last4"`
	CardBrand   string `json:"card_brand"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
}

type CheckoutRequest struct {
	UserID            uint            `json:"user_id"`
	AddressID         *uint           `json:"address_id,omitempty"`
	TemporaryAddress  *AddressPayload `json:"temporary_address,omitempty"`
	SaveAddress       bool            `json:"save_address"`
	PaymentMethodID   *uint           `json:"payment_method_id,omitempty"`
	TemporaryPayment  *CardPayload    `json:"temporary_payment,omitempty"`
	SavePaymentMethod bool            `json:"save_payment_method"`
}

type CartItemRequest struct {
	BookID   uint `json:"book_id"`
	Quantity int  `json:"quantity"`
}

type RestockRequest struct {
	Quantity int `json:"quantity"`
}

type PasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ---- views ----
//
// Views are one-directional projections built per response shape; they
// never reference live aggregates back and forth.

type UserView struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsAdmin   bool   `json:"is_admin"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type BookView struct {
	BookID      uint            `json:"book_id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ISBN        string          `json:"isbn"`
	ImageURL    string          `json:"image_url,omitempty"`
	Quantity    int             `json:"quantity"`
	Year        int             `json:"year"`
	Genres      []string        `json:"genres,omitempty"`
}

type AddressView struct {
	AddressID  uint   `json:"address_id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type CartItemView struct {
	CartItemID uint     `json:"cart_item_id"`
	Quantity   int      `json:"quantity"`
	Book       BookView `json:"book"`
}

type CartView struct {
	CartID uint           `json:"cart_id"`
	Items  []CartItemView `json:"items"`
}

type OrderLineView struct {
	OrderItemID uint            `json:"order_item_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Book        BookView        `json:"book"`
}

// PaymentSummary exposes the masked tail only; no token, no raw card data.
type PaymentSummary struct {
	PaymentID uint            `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	CardLast4 string          `json:"card_last4"`
	CardBrand string          `json:"card_brand"`
	CreatedAt time.Time       `json:"created_at"`
}

type OrderView struct {
	OrderID    uint            `json:"order_id"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Shipping   AddressPayload  `json:"shipping"`
	Items      []OrderLineView `json:"items"`
	Payment    *PaymentSummary `json:"payment,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CustomerAccountView is the admin-side projection of a customer and
// their order history.
type CustomerAccountView struct {
	User   UserView     `json:"user"`
	Orders []*OrderView `json:"orders"`
}

type PaymentMethodView struct {
	PaymentMethodID uint      `json:"payment_method_id"`
	CardLast4       string    `json:"card_last4"`
	CardBrand       string    `json:"card_brand"`
	ExpiryMonth     string    `json:"expiry_month"`
	ExpiryYear      string    `json:"expiry_year"`
	IsDefault       bool      `json:"is_default"`
	CreatedAt       time.Time `json:"created_at"`
}
