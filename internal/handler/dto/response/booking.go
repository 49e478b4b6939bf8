package response

import (
	"time"

	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/usecase/commands"
	"venue-booking-gateway/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID              string    `json:"id"`
	VenueName       string    `json:"venueName"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus"`
	TotalMinor      int64     `json:"totalMinor"`
	Currency        string    `json:"currency"`
	TotalFormatted  string    `json:"totalFormatted"`
	RetryCount      int       `json:"retryCount"`
	CanRetryPayment bool      `json:"canRetryPayment"`
	AllowedActions  []string  `json:"allowedActions"`
	GuestName       string    `json:"guestName"`
	GuestEmail      string    `json:"guestEmail"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type StatusChangeResponse struct {
	BookingID string `json:"bookingId"`
	Requested string `json:"requested"`
	Status    string `json:"status"`
	Corrected bool   `json:"corrected"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var resp BookingResponse
	if err := copier.Copy(&resp, v); err != nil {
		return nil, errs.Wrap(err, "failed to map booking view")
	}
	if resp.AllowedActions == nil {
		resp.AllowedActions = []string{}
	}
	return &resp, nil
}

func FromStatusChange(c *commands.StatusChange) StatusChangeResponse {
	return StatusChangeResponse{
		BookingID: c.BookingID,
		Requested: c.Requested.String(),
		Status:    c.Reported.String(),
		Corrected: c.Corrected,
	}
}
