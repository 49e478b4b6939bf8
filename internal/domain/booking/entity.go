package booking

import (
	"time"

	"venue-booking-gateway/internal/pkg/errs"
)

// MaxPaymentRetries bounds the retry affordance shown to the user.
const MaxPaymentRetries = 3

// Booking mirrors the server-of-record booking for display and gating.
type Booking struct {
	id            string
	venueName     string
	status        Status
	paymentStatus PaymentStatus
	total         Money
	retryCount    int
	guest         Guest
	updatedAt     time.Time
}

func Reconstruct(
	id, venueName string,
	status Status,
	paymentStatus PaymentStatus,
	total Money,
	retryCount int,
	guest Guest,
	updatedAt time.Time,
) (*Booking, error) {
	if id == "" {
		return nil, errs.New("booking id is required")
	}
	if !status.IsValid() {
		return nil, errs.New("invalid booking status: " + status.String())
	}
	if !paymentStatus.IsValid() {
		return nil, errs.New("invalid payment status: " + paymentStatus.String())
	}
	if retryCount < 0 {
		retryCount = 0
	}
	return &Booking{
		id:            id,
		venueName:     venueName,
		status:        status,
		paymentStatus: paymentStatus,
		total:         total,
		retryCount:    retryCount,
		guest:         guest,
		updatedAt:     updatedAt,
	}, nil
}

// CanRetryPayment reports whether the retry affordance should be enabled.
// A non-positive limit falls back to MaxPaymentRetries.
func (b *Booking) CanRetryPayment(limit int) bool {
	if limit <= 0 {
		limit = MaxPaymentRetries
	}
	return b.paymentStatus != PaymentCompleted && b.retryCount < limit
}

func (b *Booking) IsPaidFor() bool {
	return b.paymentStatus == PaymentCompleted
}

// Apply moves the cached status along a legal transition.
func (b *Booking) Apply(action Action) (Status, error) {
	next, err := Transition(b.status, action)
	if err != nil {
		return b.status, err
	}
	b.status = next
	return next, nil
}

// Correct overwrites the cached status with what the server reported. It returns
// true when the optimistic value had to be changed.
func (b *Booking) Correct(serverStatus Status) bool {
	if !serverStatus.IsValid() || serverStatus == b.status {
		return false
	}
	b.status = serverStatus
	return true
}

func (b *Booking) ID() string                   { return b.id }
func (b *Booking) VenueName() string            { return b.venueName }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) Total() Money                 { return b.total }
func (b *Booking) RetryCount() int              { return b.retryCount }
func (b *Booking) Guest() Guest                 { return b.guest }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
