package api

import (
	"errors"
	"net/http"

	"venue-booking-gateway/internal/domain/payment"
	reqdto "venue-booking-gateway/internal/handler/dto/request"
	resdto "venue-booking-gateway/internal/handler/dto/response"
	"venue-booking-gateway/internal/handler/httperr"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/usecase/commands"
	"venue-booking-gateway/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds       commands.PaymentCommands
	q          queries.BookingQueries
	attempts   *commands.AttemptRegistry
	maxRetries int
}

func NewPaymentHandler(cmds commands.PaymentCommands, q queries.BookingQueries, attempts *commands.AttemptRegistry, cfg config.Config) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, q: q, attempts: attempts, maxRetries: cfg.Payment.MaxRetries}
}

// @Summary Start a payment for a booking
// @Description Creates (or retries) the payment order and returns the checkout descriptor.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.StartPaymentRequest false "Retry flag"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 409 {object} httperr.Response
// @Router /api/bookings/{id}/payments [post]
func (h *PaymentHandler) Start(c *gin.Context) {
	var req reqdto.StartPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}

	b, err := h.q.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Abort(c, err, "Failed to load booking")
		return
	}
	if req.IsRetry {
		if err := payment.CheckRetryAllowed(b, h.maxRetries); err != nil {
			httperr.Abort(c, err, "No payment retries left for this booking")
			return
		}
	}

	attempt, err := h.cmds.Begin(c.Request.Context(), b, commands.PayOptions{IsRetry: req.IsRetry})
	if err != nil {
		httperr.Abort(c, err, "Could not start payment")
		return
	}
	h.attempts.Put(attempt)

	c.JSON(http.StatusCreated, resdto.FromAttempt(attempt))
}

// @Summary Report the checkout outcome
// @Tags payments
// @Accept json
// @Produce json
// @Param orderId path string true "Order ID"
// @Param request body reqdto.OutcomeRequest true "Outcome"
// @Success 200 {object} resdto.PaymentResultResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/payments/{orderId}/outcome [post]
func (h *PaymentHandler) Outcome(c *gin.Context) {
	var req reqdto.OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	outcome, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid outcome", nil)
		return
	}

	attempt, err := h.attempts.Take(c.Param("orderId"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusNotFound, httperr.CodeNotFound, err, "Unknown or expired payment", nil)
		return
	}
	attempt.Resolve(outcome)

	result, err := h.cmds.Settle(c.Request.Context(), attempt, outcome)
	if err != nil {
		var failure *payment.Failure
		if errors.As(err, &failure) {
			httperr.AbortWithCode(c, http.StatusUnprocessableEntity, failure.Code, err, failure.HumanReason(), resdto.FromFailure(failure))
			return
		}
		httperr.Abort(c, err, "Payment could not be settled")
		return
	}
	c.JSON(http.StatusOK, resdto.FromResult(result))
}
