// Package gateway talks to the external card payment processor.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	// KindCard covers declined cards and rejected input. The payer can fix
	// the card details and submit again.
	KindCard       Kind = "card"
	KindUnexpected Kind = "unexpected"
	KindTimeout    Kind = "timeout"
)

// Error is returned by every Gateway method.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of a gateway failure. Errors that did not come
// from a Gateway are unexpected unless they are deadline errors.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	if isTimeout(err) {
		return KindTimeout
	}
	return KindUnexpected
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type Billing struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Line1      string `json:"line1,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// HasAddress reports whether any address field was supplied.
func (b Billing) HasAddress() bool {
	return b.Line1 != "" || b.City != "" || b.State != "" || b.PostalCode != "" || b.Country != ""
}

type IntentRequest struct {
	Amount  decimal.Decimal
	OrderID string
	UserID  string
	// AttemptID keys the gateway call so a retried attempt reuses its
	// intent while a new attempt for the same order gets a fresh one.
	AttemptID string
}

type Intent struct {
	ID           string
	ClientSecret string
}

type ConfirmRequest struct {
	IntentID        string
	PaymentMethodID string
	Billing         Billing
}

type Confirmation struct {
	TransactionID string
	Status        string
}

//go:generate mockgen -source=gateway.go -destination=mock/gateway_mock.go -package=mock
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
	ConfirmIntent(ctx context.Context, req ConfirmRequest) (Confirmation, error)
	// CancelIntent voids an unconfirmed intent. An intent that is already
	// cancelled is not an error.
	CancelIntent(ctx context.Context, intentID string) error
}
