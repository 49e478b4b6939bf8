package response

import (
	"time"

	"venue-booking-gateway/internal/domain/payment"
)

type PrefillResponse struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// CheckoutResponse carries the descriptor the browser opens the checkout with.
type CheckoutResponse struct {
	BookingID string          `json:"bookingId"`
	OrderID   string          `json:"orderId"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	Key       string          `json:"key,omitempty"`
	Prefill   PrefillResponse `json:"prefill"`
}

type PaymentResultResponse struct {
	BookingID  string    `json:"bookingId"`
	OrderID    string    `json:"orderId"`
	PaymentID  string    `json:"paymentId"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

type PaymentFailureResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Reason      string `json:"reason,omitempty"`
	Message     string `json:"message"`
}

func FromAttempt(a *payment.Attempt) CheckoutResponse {
	d := a.Descriptor()
	return CheckoutResponse{
		BookingID: a.Order().BookingID,
		OrderID:   d.OrderID,
		Amount:    d.Amount,
		Currency:  d.Currency,
		Key:       d.KeyID,
		Prefill:   PrefillResponse(d.Prefill),
	}
}

func FromResult(r *payment.Result) PaymentResultResponse {
	return PaymentResultResponse{
		BookingID:  r.BookingID,
		OrderID:    r.OrderID,
		PaymentID:  r.PaymentID,
		VerifiedAt: r.VerifiedAt,
	}
}

func FromFailure(f *payment.Failure) PaymentFailureResponse {
	return PaymentFailureResponse{
		Code:        f.Code,
		Description: f.Description,
		Reason:      f.Reason,
		Message:     f.HumanReason(),
	}
}
