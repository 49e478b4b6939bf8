package queries

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking_mock.go -package=queriesmock

import (
	"context"
	"time"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/pkg/errs"
)

type BookingView struct {
	ID              string
	VenueName       string
	Status          string
	PaymentStatus   string
	TotalMinor      int64
	Currency        string
	TotalFormatted  string
	RetryCount      int
	CanRetryPayment bool
	AllowedActions  []string
	GuestName       string
	GuestEmail      string
	UpdatedAt       time.Time
}

type BookingReader interface {
	Get(ctx context.Context, id string) (*booking.Booking, error)
}

type BookingQueries interface {
	// Load returns the domain booking, for callers that go on to change it.
	Load(ctx context.Context, id string) (*booking.Booking, error)
	GetView(ctx context.Context, id string) (*BookingView, error)
}

type bookingQueriesImpl struct {
	reader     BookingReader
	maxRetries int
}

func NewBookingQueries(reader BookingReader, maxRetries int) BookingQueries {
	return &bookingQueriesImpl{reader: reader, maxRetries: maxRetries}
}

func (q *bookingQueriesImpl) Load(ctx context.Context, id string) (*booking.Booking, error) {
	b, err := q.reader.Get(ctx, id)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to load booking %s", id)
	}
	return b, nil
}

func (q *bookingQueriesImpl) GetView(ctx context.Context, id string) (*BookingView, error) {
	b, err := q.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToBookingView(b, q.maxRetries), nil
}

func ToBookingView(b *booking.Booking, maxRetries int) *BookingView {
	actions := booking.AllowedActions(b.Status())
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.String())
	}
	return &BookingView{
		ID:              b.ID(),
		VenueName:       b.VenueName(),
		Status:          b.Status().String(),
		PaymentStatus:   b.PaymentStatus().String(),
		TotalMinor:      b.Total().Minor(),
		Currency:        b.Total().Currency(),
		TotalFormatted:  b.Total().Format(),
		RetryCount:      b.RetryCount(),
		CanRetryPayment: b.CanRetryPayment(maxRetries),
		AllowedActions:  names,
		GuestName:       b.Guest().Name,
		GuestEmail:      b.Guest().Email,
		UpdatedAt:       b.UpdatedAt(),
	}
}
