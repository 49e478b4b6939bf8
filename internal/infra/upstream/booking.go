package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/pkg/errs"
)

type guestJSON struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type bookingJSON struct {
	ID            string    `json:"id"`
	VenueName     string    `json:"venueName"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	TotalAmount   float64   `json:"totalAmount"`
	Currency      string    `json:"currency"`
	RetryCount    int       `json:"retryCount"`
	Guest         guestJSON `json:"guest"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (b bookingJSON) toDomain() (*booking.Booking, error) {
	total, err := booking.MoneyFromMajor(b.TotalAmount, b.Currency)
	if err != nil {
		return nil, errs.Wrapf(err, "booking %s has an invalid total", b.ID)
	}
	return booking.Reconstruct(
		b.ID,
		b.VenueName,
		booking.Status(b.Status),
		booking.PaymentStatus(b.PaymentStatus),
		total,
		b.RetryCount,
		booking.Guest{Name: b.Guest.Name, Email: b.Guest.Email, Contact: b.Guest.Contact},
		b.UpdatedAt,
	)
}

type BookingAPI struct {
	doer JSONDoer
}

func NewBookingAPI(doer JSONDoer) *BookingAPI {
	return &BookingAPI{doer: doer}
}

func (a *BookingAPI) Get(ctx context.Context, id string) (*booking.Booking, error) {
	var out bookingJSON
	if err := a.doer.DoJSON(ctx, http.MethodGet, bookingPath(id), nil, &out); err != nil {
		return nil, markNotFound(err, errs.ErrBookingNotFound)
	}
	return out.toDomain()
}

type statusUpdate struct {
	Status string `json:"status"`
}

// UpdateStatus returns the status the server reports after the change.
func (a *BookingAPI) UpdateStatus(ctx context.Context, id string, status booking.Status) (booking.Status, error) {
	var out bookingJSON
	err := a.doer.DoJSON(ctx, http.MethodPatch, bookingPath(id)+"/status", statusUpdate{Status: status.String()}, &out)
	if err != nil {
		return "", markNotFound(err, errs.ErrBookingNotFound)
	}
	reported := booking.Status(out.Status)
	if !reported.IsValid() {
		return "", errs.Mark(errs.New("server reported unknown status "+out.Status), errs.ErrMalformedEnvelope)
	}
	return reported, nil
}

func bookingPath(id string) string {
	return "/bookings/" + url.PathEscape(id)
}
