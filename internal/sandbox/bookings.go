package sandbox

import (
	"net/http"
	"time"

	"venue-booking-gateway/internal/domain/booking"

	"github.com/gin-gonic/gin"
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

// totalAmount is sent in major units, the way the production API does.
func toBookingJSON(b *bookingRecord) bookingJSON {
	return bookingJSON{
		ID:            b.ID,
		VenueName:     b.VenueName,
		Status:        b.Status.String(),
		PaymentStatus: b.PaymentStatus.String(),
		TotalAmount:   float64(b.TotalMinor) / 100,
		Currency:      b.Currency,
		RetryCount:    b.RetryCount,
		Guest:         guestJSON(b.Guest),
		UpdatedAt:     b.UpdatedAt,
	}
}

func (s *Server) getBooking(c *gin.Context) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	b, found := s.state.bookings[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "Booking not found")
		return
	}
	ok(c, http.StatusOK, toBookingJSON(b))
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "status is required")
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	b, found := s.state.bookings[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "Booking not found")
		return
	}
	target := booking.Status(req.Status)
	if !reachable(b.Status, target) {
		fail(c, http.StatusConflict, "Booking cannot move from "+b.Status.String()+" to "+req.Status)
		return
	}
	b.Status = target
	b.UpdatedAt = s.clock.Now()
	ok(c, http.StatusOK, toBookingJSON(b))
}

func reachable(from, to booking.Status) bool {
	for _, a := range booking.AllowedActions(from) {
		if next, err := booking.Transition(from, a); err == nil && next == to {
			return true
		}
	}
	return false
}
