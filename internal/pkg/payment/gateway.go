// Package payment talks to the hosted checkout gateway. It creates orders and
// verifies checkout callbacks; it never decides what a payment unlocks.
package payment

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPaymentFailed wraps every verification failure. Use errors.As with
	// *FailureError for the gateway's reason.
	ErrPaymentFailed = errors.New("payment failed")
	ErrNotConfigured = errors.New("payment gateway is not configured")
)

// FailureError carries the reason shown to the user.
type FailureError struct {
	Reason string
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

func (e *FailureError) Unwrap() error {
	return ErrPaymentFailed
}

func failed(format string, args ...interface{}) error {
	return &FailureError{Reason: fmt.Sprintf(format, args...)}
}

// OrderRequest opens a checkout. Amount is in the currency's minor unit.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Callback is what the checkout widget hands back on success.
type Callback struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// VerifiedPayment is a captured payment whose signature checked out.
type VerifiedPayment struct {
	PaymentID string
	OrderID   string
	Amount    int64
	Method    string
}

// Gateway is the boundary the access flow depends on.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifyPayment(ctx context.Context, cb Callback) (*VerifiedPayment, error)
	KeyID() string
}

// MinorUnits converts a whole-unit price to the gateway's minor unit.
func MinorUnits(price int64) int64 {
	return price * 100
}
