package sandbox

import (
	"sync"
	"time"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/pkg/password"

	"github.com/google/uuid"
)

type account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}

type bookingRecord struct {
	ID            string
	VenueName     string
	Status        booking.Status
	PaymentStatus booking.PaymentStatus
	TotalMinor    int64
	Currency      string
	RetryCount    int
	Guest         booking.Guest
	UpdatedAt     time.Time
}

type orderRecord struct {
	ID         string
	BookingID  string
	Amount     int64
	Currency   string
	RetryCount int
	Status     string // created, paid or failed
	PaymentID  string
	Failure    *failureRecord
	CreatedAt  time.Time
}

type failureRecord struct {
	Code        string
	Description string
	Source      string
	Step        string
	Reason      string
}

// state is the whole server of record. Every handler takes mu for the duration of its work.
type state struct {
	mu         sync.Mutex
	accounts   map[string]*account // by email
	bookings   map[string]*bookingRecord
	orders     map[string]*orderRecord
	revoked    map[string]struct{} // refresh token ids
	generation int
}

const (
	SeedEmail    = "asha@example.com"
	SeedPassword = "password123"
)

func newState(now time.Time) (*state, error) {
	hash, err := password.Hash(SeedPassword)
	if err != nil {
		return nil, err
	}
	guest := booking.Guest{Name: "Asha Rao", Email: SeedEmail, Contact: "9000000000"}
	s := &state{
		accounts: map[string]*account{
			SeedEmail: {ID: "U1", Email: SeedEmail, Name: "Asha Rao", PasswordHash: hash},
		},
		bookings: make(map[string]*bookingRecord),
		orders:   make(map[string]*orderRecord),
		revoked:  make(map[string]struct{}),
	}
	for _, b := range []*bookingRecord{
		{ID: "B1", VenueName: "Lakeside Hall", Status: booking.StatusPending, PaymentStatus: booking.PaymentPending, TotalMinor: 70800, Currency: "INR"},
		{ID: "B2", VenueName: "Rooftop Terrace", Status: booking.StatusConfirmed, PaymentStatus: booking.PaymentCompleted, TotalMinor: 125000, Currency: "INR"},
		{ID: "B3", VenueName: "Garden Pavilion", Status: booking.StatusPending, PaymentStatus: booking.PaymentFailed, TotalMinor: 45050, Currency: "INR", RetryCount: booking.MaxPaymentRetries},
	} {
		b.Guest = guest
		b.UpdatedAt = now
		s.bookings[b.ID] = b
	}
	return s, nil
}

func (s *state) newOrder(b *bookingRecord, now time.Time) *orderRecord {
	o := &orderRecord{
		ID:         "order_" + uuid.NewString()[:18],
		BookingID:  b.ID,
		Amount:     b.TotalMinor,
		Currency:   b.Currency,
		RetryCount: b.RetryCount,
		Status:     "created",
		CreatedAt:  now,
	}
	s.orders[o.ID] = o
	return o
}
