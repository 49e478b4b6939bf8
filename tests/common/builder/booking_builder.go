//go:build unit || e2e

package builder

import (
	"time"

	"venue-booking-gateway/internal/domain/booking"
)

type BookingBuilder struct {
	ID            string
	VenueName     string
	Status        booking.Status
	PaymentStatus booking.PaymentStatus
	TotalAmount   float64
	Currency      string
	RetryCount    int
	Guest         booking.Guest
	UpdatedAt     time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:            "B1",
		VenueName:     "Lakeside Hall",
		Status:        booking.StatusPending,
		PaymentStatus: booking.PaymentPending,
		TotalAmount:   708,
		Currency:      "INR",
		RetryCount:    0,
		Guest: booking.Guest{
			Name:    "Asha Rao",
			Email:   "asha@example.com",
			Contact: "9000000000",
		},
		UpdatedAt: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithID(id string) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithPaymentStatus(status booking.PaymentStatus) *BookingBuilder {
	b.PaymentStatus = status
	return b
}

func (b *BookingBuilder) WithRetryCount(n int) *BookingBuilder {
	b.RetryCount = n
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	total, err := booking.MoneyFromMajor(b.TotalAmount, b.Currency)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(b.ID, b.VenueName, b.Status, b.PaymentStatus, total, b.RetryCount, b.Guest, b.UpdatedAt)
}

// BuildUpstreamJSON renders the booking the way the server of record returns it, inside the data envelope.
func (b *BookingBuilder) BuildUpstreamJSON() map[string]any {
	return map[string]any{
		"data": map[string]any{
			"id":            b.ID,
			"venueName":     b.VenueName,
			"status":        string(b.Status),
			"paymentStatus": string(b.PaymentStatus),
			"totalAmount":   b.TotalAmount,
			"currency":      b.Currency,
			"retryCount":    b.RetryCount,
			"guest": map[string]any{
				"name":    b.Guest.Name,
				"email":   b.Guest.Email,
				"contact": b.Guest.Contact,
			},
			"updatedAt": b.UpdatedAt.Format(time.RFC3339),
		},
	}
}
