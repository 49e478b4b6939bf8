package request

import (
	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/pkg/errs"
)

type ChangeStatusRequest struct {
	Action string `json:"action" binding:"required,oneof=accept reject complete"`
}

func (r *ChangeStatusRequest) ToDomain() (booking.Action, error) {
	a, ok := booking.ParseAction(r.Action)
	if !ok {
		return "", errs.New("unknown action " + r.Action)
	}
	return a, nil
}
