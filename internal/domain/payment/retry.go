package payment

import (
	"fmt"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/pkg/errs"
)

// CheckRetryAllowed is the display gate for the retry affordance. It belongs to the
// caller; the orchestrator forwards whatever count the booking carries.
func CheckRetryAllowed(b *booking.Booking, limit int) error {
	if b.CanRetryPayment(limit) {
		return nil
	}
	if b.IsPaidFor() {
		return errs.Mark(errs.New("booking "+b.ID()+" is already paid"), errs.ErrRetryLimitExceeded)
	}
	return errs.Mark(
		errs.New(fmt.Sprintf("booking %s used %d payment attempts", b.ID(), b.RetryCount())),
		errs.ErrRetryLimitExceeded,
	)
}
