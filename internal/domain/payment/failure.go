package payment

import (
	"fmt"
	"time"

	"venue-booking-gateway/internal/pkg/errs"
)

// Failure is the classified, user-presentable end of an unsuccessful payment.
// errors.Is matches it against ErrPaymentCancelled, ErrPaymentGatewayError or
// ErrVerificationFailed.
type Failure struct {
	BookingID   string
	OrderID     string
	Code        string
	Description string
	Source      string
	Step        string
	Reason      string
	kind        error
}

func NewFailure(bookingID, orderID string, outcome Outcome) *Failure {
	p, _ := outcome.Failure()
	kind := errs.ErrPaymentGatewayError
	if outcome.Kind() == OutcomeUserCancelled {
		kind = errs.ErrPaymentCancelled
	}
	return &Failure{
		BookingID:   bookingID,
		OrderID:     orderID,
		Code:        p.Code,
		Description: p.Description,
		Source:      p.Source,
		Step:        p.Step,
		Reason:      p.Reason,
		kind:        kind,
	}
}

func NewVerificationFailure(bookingID, orderID, description string) *Failure {
	return &Failure{
		BookingID:   bookingID,
		OrderID:     orderID,
		Code:        CodeVerificationFailed,
		Description: description,
		kind:        errs.ErrVerificationFailed,
	}
}

func (f *Failure) Error() string {
	return fmt.Sprintf("payment failed for booking %s: %s: %s", f.BookingID, f.Code, f.Description)
}

func (f *Failure) Unwrap() error {
	return f.kind
}

// HumanReason is what the UI shows next to the retry affordance.
func (f *Failure) HumanReason() string {
	switch f.kind {
	case errs.ErrPaymentCancelled:
		return "Payment was cancelled. You can try again."
	case errs.ErrVerificationFailed:
		return "We could not verify your payment. Any amount debited will be refunded."
	}
	if f.Description != "" {
		return f.Description
	}
	return "Payment failed. Please try again."
}

type Result struct {
	BookingID  string
	OrderID    string
	PaymentID  string
	VerifiedAt time.Time
}
