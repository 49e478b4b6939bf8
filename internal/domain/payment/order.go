package payment

import (
	"errors"
	"strings"
)

var ErrInvalidOrder = errors.New("invalid payment order")

// Order is one server-tracked attempt to collect payment for a booking.
type Order struct {
	BookingID  string
	OrderID    string
	Amount     int64 // minor units, exactly as the server issued them
	Currency   string
	RetryCount int
	KeyID      string
}

func (o Order) Validate() error {
	if o.BookingID == "" || o.OrderID == "" {
		return ErrInvalidOrder
	}
	if o.Amount <= 0 || len(strings.TrimSpace(o.Currency)) != 3 {
		return ErrInvalidOrder
	}
	return nil
}

type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// OrderDescriptor is what the external checkout collaborator is opened with.
type OrderDescriptor struct {
	OrderID  string  `json:"orderId"`
	Amount   int64   `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key,omitempty"`
	Prefill  Prefill `json:"prefill"`
}

func (o Order) Descriptor(prefill Prefill) OrderDescriptor {
	return OrderDescriptor{
		OrderID:  o.OrderID,
		Amount:   o.Amount,
		Currency: strings.ToUpper(o.Currency),
		KeyID:    o.KeyID,
		Prefill:  prefill,
	}
}
