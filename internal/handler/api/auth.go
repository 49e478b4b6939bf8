package api

import (
	"net/http"

	reqdto "venue-booking-gateway/internal/handler/dto/request"
	resdto "venue-booking-gateway/internal/handler/dto/response"
	"venue-booking-gateway/internal/handler/httperr"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cmds commands.AuthCommands
}

func NewAuthHandler(cmds commands.AuthCommands) *AuthHandler {
	return &AuthHandler{cmds: cmds}
}

// @Summary Log in to the booking service
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req)
	if err != nil {
		if errs.Is(err, commands.ErrAuthenticationFailed) {
			httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeNotAuthenticated, err, "Invalid email or password", nil)
			return
		}
		httperr.Abort(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, resdto.FromLoginResult(result))
}

// @Summary Log out
// @Tags auth
// @Success 204 "No Content"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.cmds.Logout(c.Request.Context()); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Logout failed", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Current session state
// @Tags auth
// @Produce json
// @Success 200 {object} resdto.SessionResponse
// @Router /api/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.FromSessionInfo(h.cmds.Session(c.Request.Context())))
}
