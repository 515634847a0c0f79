package payments

import (
	"context"
	"errors"
)

// Method identifies a mobile-money wallet.
type Method string

const (
	// MethodEVC charges an EVC Plus wallet.
	MethodEVC Method = "evc"
	// MethodEdahab charges an eDahab wallet.
	MethodEdahab Method = "edahab"
	// MethodWaafi charges a Waafi wallet.
	MethodWaafi Method = "waafi"
)

var (
	// ErrMissingPhoneNumber is returned before any network call when the payer
	// number is empty.
	ErrMissingPhoneNumber = errors.New("payments: phone number is required")
	// ErrUnsupportedMethod is returned before any network call for a method no
	// provider serves.
	ErrUnsupportedMethod = errors.New("payments: unsupported payment method")
)

// ChargeParams describes a single charge against a payer's wallet.
type ChargeParams struct {
	PhoneNumber string
	Amount      float64
	Currency    string
	Description string
	// ReferenceID is generated fresh for every attempt; gateways treat each
	// attempt as a distinct transaction, so a user retry after a timeout can
	// double-charge upstream.
	ReferenceID string
	InvoiceID   string
}

// Result is the normalized outcome of a charge. Providers never propagate
// transport errors; they fold them into a failed Result instead.
type Result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ReferenceID string `json:"reference_id,omitempty"`
}

// Provider is implemented once per gateway vendor.
type Provider interface {
	Charge(ctx context.Context, params ChargeParams) Result
}

// Failure builds a failed result with a human-readable message.
func Failure(message string) Result {
	return Result{Success: false, Message: message}
}
