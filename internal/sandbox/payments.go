package sandbox

import (
	"net/http"

	"venue-booking-gateway/internal/domain/booking"

	"github.com/gin-gonic/gin"
)

type orderJSON struct {
	OrderID    string `json:"orderId"`
	BookingID  string `json:"bookingId"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	RetryCount int    `json:"retryCount"`
	KeyID      string `json:"key"`
}

func toOrderJSON(o *orderRecord) orderJSON {
	return orderJSON{
		OrderID:    o.ID,
		BookingID:  o.BookingID,
		Amount:     o.Amount,
		Currency:   o.Currency,
		RetryCount: o.RetryCount,
		KeyID:      checkoutID,
	}
}

type createOrderRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

func (s *Server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bookingId is required")
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	b, found := s.payableBooking(c, req.BookingID)
	if !found {
		return
	}
	o := s.state.newOrder(b, s.clock.Now())
	s.logger.InfoContext(c.Request.Context(), "order created", "booking_id", b.ID, "order_id", o.ID)
	ok(c, http.StatusCreated, toOrderJSON(o))
}

type retryRequest struct {
	BookingID  string `json:"bookingId" binding:"required"`
	RetryCount int    `json:"retryCount"`
}

// retryOrder counts retries itself; the count the client forwards is only logged.
func (s *Server) retryOrder(c *gin.Context) {
	var req retryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bookingId is required")
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	b, found := s.payableBooking(c, req.BookingID)
	if !found {
		return
	}
	if b.RetryCount >= booking.MaxPaymentRetries {
		fail(c, http.StatusConflict, "Payment retry limit reached for this booking")
		return
	}
	b.RetryCount++
	b.UpdatedAt = s.clock.Now()
	o := s.state.newOrder(b, s.clock.Now())
	s.logger.InfoContext(c.Request.Context(), "order retried",
		"booking_id", b.ID,
		"order_id", o.ID,
		"retry_count", b.RetryCount,
		"client_retry_count", req.RetryCount,
	)
	ok(c, http.StatusCreated, toOrderJSON(o))
}

// payableBooking must be called with mu held. It writes the failure response itself.
func (s *Server) payableBooking(c *gin.Context, id string) (*bookingRecord, bool) {
	b, found := s.state.bookings[id]
	if !found {
		fail(c, http.StatusNotFound, "Booking not found")
		return nil, false
	}
	if b.PaymentStatus == booking.PaymentCompleted {
		fail(c, http.StatusConflict, "Booking is already paid")
		return nil, false
	}
	return b, true
}

type verifyRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (s *Server) verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bookingId, orderId, paymentId and signature are required")
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	o, found := s.state.orders[req.OrderID]
	if !found || o.BookingID != req.BookingID {
		fail(c, http.StatusNotFound, "Order not found for this booking")
		return
	}
	if !validSignature(s.cfg.SigningKey, req.OrderID, req.PaymentID, req.Signature) {
		s.logger.WarnContext(c.Request.Context(), "signature mismatch", "order_id", o.ID)
		fail(c, http.StatusBadRequest, "Payment signature mismatch")
		return
	}

	o.Status = "paid"
	o.PaymentID = req.PaymentID
	b := s.state.bookings[o.BookingID]
	b.PaymentStatus = booking.PaymentCompleted
	b.UpdatedAt = s.clock.Now()
	ok(c, http.StatusOK, gin.H{"verified": true, "paymentId": req.PaymentID})
}

type failureRequest struct {
	BookingID   string `json:"bookingId" binding:"required"`
	OrderID     string `json:"orderId" binding:"required"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Step        string `json:"step"`
	Reason      string `json:"reason"`
}

func (s *Server) recordFailure(c *gin.Context) {
	var req failureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "bookingId and orderId are required")
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	o, found := s.state.orders[req.OrderID]
	if !found || o.BookingID != req.BookingID {
		fail(c, http.StatusNotFound, "Order not found for this booking")
		return
	}
	if o.Status == "paid" {
		fail(c, http.StatusConflict, "Order is already paid")
		return
	}
	o.Status = "failed"
	o.Failure = &failureRecord{
		Code:        req.Code,
		Description: req.Description,
		Source:      req.Source,
		Step:        req.Step,
		Reason:      req.Reason,
	}
	b := s.state.bookings[o.BookingID]
	b.PaymentStatus = booking.PaymentFailed
	b.UpdatedAt = s.clock.Now()
	s.logger.InfoContext(c.Request.Context(), "payment failure recorded", "order_id", o.ID, "code", req.Code)
	ok(c, http.StatusOK, gin.H{"recorded": true})
}
