package upstream

import (
	"context"
	"net/http"

	"venue-booking-gateway/internal/domain/payment"
	"venue-booking-gateway/internal/pkg/errs"
)

type orderJSON struct {
	OrderID    string `json:"orderId"`
	BookingID  string `json:"bookingId"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	RetryCount int    `json:"retryCount"`
	KeyID      string `json:"key"`
}

func (o orderJSON) toDomain(bookingID string) (payment.Order, error) {
	order := payment.Order{
		BookingID:  bookingID,
		OrderID:    o.OrderID,
		Amount:     o.Amount,
		Currency:   o.Currency,
		RetryCount: o.RetryCount,
		KeyID:      o.KeyID,
	}
	if err := order.Validate(); err != nil {
		return payment.Order{}, errs.Mark(errs.Wrapf(err, "order for booking %s", bookingID), errs.ErrOrderCreationFailed)
	}
	return order, nil
}

type PaymentAPI struct {
	doer JSONDoer
}

func NewPaymentAPI(doer JSONDoer) *PaymentAPI {
	return &PaymentAPI{doer: doer}
}

func (a *PaymentAPI) CreateOrder(ctx context.Context, bookingID string) (payment.Order, error) {
	in := struct {
		BookingID string `json:"bookingId"`
	}{BookingID: bookingID}

	var out orderJSON
	if err := a.doer.DoJSON(ctx, http.MethodPost, "/payments/create-order", in, &out); err != nil {
		return payment.Order{}, errs.Mark(err, errs.ErrOrderCreationFailed)
	}
	return out.toDomain(bookingID)
}

// RetryOrder forwards retryCount exactly as given; the server owns the counter.
func (a *PaymentAPI) RetryOrder(ctx context.Context, bookingID string, retryCount int) (payment.Order, error) {
	in := struct {
		BookingID  string `json:"bookingId"`
		RetryCount int    `json:"retryCount"`
	}{BookingID: bookingID, RetryCount: retryCount}

	var out orderJSON
	if err := a.doer.DoJSON(ctx, http.MethodPost, "/payments/retry", in, &out); err != nil {
		return payment.Order{}, errs.Mark(err, errs.ErrOrderCreationFailed)
	}
	return out.toDomain(bookingID)
}

type verifyRequest struct {
	BookingID string `json:"bookingId"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

type verifyResponse struct {
	Verified  bool   `json:"verified"`
	PaymentID string `json:"paymentId"`
}

// Verify returns the verified payment id. An unverified answer is an error, and
// so is a payload naming an order other than order.
func (a *PaymentAPI) Verify(ctx context.Context, order payment.Order, p payment.SuccessPayload) (string, error) {
	if !p.BelongsTo(order.OrderID) {
		return "", errs.Newf("payment %s is for order %s, not %s", p.PaymentID, p.OrderID, order.OrderID)
	}
	in := verifyRequest{
		BookingID: order.BookingID,
		OrderID:   order.OrderID,
		PaymentID: p.PaymentID,
		Signature: p.Signature,
	}
	var out verifyResponse
	if err := a.doer.DoJSON(ctx, http.MethodPost, "/payments/verify", in, &out); err != nil {
		return "", err
	}
	if !out.Verified {
		return "", errs.New("server did not verify payment " + p.PaymentID)
	}
	if out.PaymentID == "" {
		return p.PaymentID, nil
	}
	return out.PaymentID, nil
}

type failureRequest struct {
	BookingID   string `json:"bookingId"`
	OrderID     string `json:"orderId"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
	Step        string `json:"step,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func (a *PaymentAPI) RecordFailure(ctx context.Context, order payment.Order, p payment.GatewayErrorPayload) error {
	in := failureRequest{
		BookingID:   order.BookingID,
		OrderID:     order.OrderID,
		Code:        p.Code,
		Description: p.Description,
		Source:      p.Source,
		Step:        p.Step,
		Reason:      p.Reason,
	}
	return a.doer.DoJSON(ctx, http.MethodPost, "/payments/failure", in, nil)
}
