package commands

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking_mock.go -package=commandsmock

import (
	"context"
	"log/slog"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/pkg/errs"
)

type StatusChange struct {
	BookingID string
	Requested booking.Status
	Reported  booking.Status
	// Corrected is set when the server answered with a status other than the requested one.
	Corrected bool
}

type BookingCommands interface {
	ChangeStatus(ctx context.Context, cached *booking.Booking, action booking.Action) (*StatusChange, error)
}

type bookingCommandsImpl struct {
	bookings BookingGateway
	logger   *slog.Logger
}

func NewBookingCommands(bookings BookingGateway, logger *slog.Logger) BookingCommands {
	return &bookingCommandsImpl{bookings: bookings, logger: logger}
}

// ChangeStatus rejects illegal transitions before any network call. On success the
// cached booking holds whatever status the server reported.
func (c *bookingCommandsImpl) ChangeStatus(ctx context.Context, cached *booking.Booking, action booking.Action) (*StatusChange, error) {
	next, err := booking.Transition(cached.Status(), action)
	if err != nil {
		return nil, errs.WithReason(err, "This booking cannot be "+pastTense(action)+" in its current state.")
	}

	reported, err := c.bookings.UpdateStatus(ctx, cached.ID(), next)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to %s booking %s", action, cached.ID())
	}

	if _, err := cached.Apply(action); err != nil {
		return nil, err
	}
	corrected := cached.Correct(reported)
	if corrected {
		c.logger.WarnContext(ctx, "server disagreed with requested status",
			"booking_id", cached.ID(),
			"requested", next.String(),
			"reported", reported.String(),
		)
	}

	return &StatusChange{
		BookingID: cached.ID(),
		Requested: next,
		Reported:  reported,
		Corrected: corrected,
	}, nil
}

func pastTense(a booking.Action) string {
	switch a {
	case booking.ActionAccept:
		return "accepted"
	case booking.ActionReject:
		return "rejected"
	case booking.ActionComplete:
		return "completed"
	default:
		return "changed"
	}
}
