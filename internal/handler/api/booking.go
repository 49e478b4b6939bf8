package api

import (
	"net/http"

	reqdto "venue-booking-gateway/internal/handler/dto/request"
	resdto "venue-booking-gateway/internal/handler/dto/response"
	"venue-booking-gateway/internal/handler/httperr"
	"venue-booking-gateway/internal/usecase/commands"
	"venue-booking-gateway/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	view, err := h.q.GetView(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Abort(c, err, "Failed to load booking")
		return
	}
	resp, err := resdto.FromBookingView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load booking", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Change booking status
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.ChangeStatusRequest true "Action"
// @Success 200 {object} resdto.StatusChangeResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/bookings/{id}/status [patch]
func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	var req reqdto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	action, err := req.ToDomain()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid action", nil)
		return
	}

	cached, err := h.q.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Abort(c, err, "Failed to load booking")
		return
	}

	change, err := h.cmds.ChangeStatus(c.Request.Context(), cached, action)
	if err != nil {
		httperr.Abort(c, err, "Status change failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromStatusChange(change))
}
