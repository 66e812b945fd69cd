package service

import (
	"strconv"
	"sync/atomic"

	"bookstore-backend/internal/dto"

	"github.com/shopspring/decimal"
)

const (
	minCardNumberLength = 13
	minExpiryYear       = 2025
)

// PaymentAuthorizer decides accept/decline for a tendered payment.
// A decline is an ordinary outcome, never an error.
type PaymentAuthorizer interface {
	AuthorizeCard(card *dto.CardPayload, amount decimal.Decimal) bool
	AuthorizeToken(token string, amount decimal.Decimal) bool
	Reset()
	Attempts() int64
}

// mockAuthorizer stands in for a real gateway. Every third attempt is
// declined regardless of the tendered payment, which simulates an
// intermittent gateway fault deterministically given call order. Each
// instance owns its counter, so tests can inject a fresh one per
// scenario; the increment is atomic because concurrent checkouts share
// the instance.
type mockAuthorizer struct {
	attempts atomic.Int64
}

func NewMockAuthorizer() PaymentAuthorizer {
	return &mockAuthorizer{}
}

func (a *mockAuthorizer) AuthorizeCard(card *dto.CardPayload, amount decimal.Decimal) bool {
	if a.attempts.Add(1)%3 == 0 {
		return false
	}

	if card == nil || len(card.CardNumber) < minCardNumberLength {
		return false
	}
	if amount.Sign() <= 0 {
		return false
	}

	expMonth, err := strconv.Atoi(card.ExpiryMonth)
	if err != nil {
		return false
	}
	expYear, err := strconv.Atoi(card.ExpiryYear)
	if err != nil {
		return false
	}
	if expMonth < 1 || expMonth > 12 {
		return false
	}
	if expYear < minExpiryYear {
		return false
	}

	return true
}

func (a *mockAuthorizer) AuthorizeToken(token string, amount decimal.Decimal) bool {
	if a.attempts.Add(1)%3 == 0 {
		return false
	}

	if token == "" {
		return false
	}
	if amount.Sign() <= 0 {
		return false
	}

	return true
}

func (a *mockAuthorizer) Reset() {
	a.attempts.Store(0)
}

func (a *mockAuthorizer) Attempts() int64 {
	return a.attempts.Load()
}
