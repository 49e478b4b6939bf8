package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"venue-booking-gateway/internal/handler/httperr"
	"venue-booking-gateway/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last public httperr.Response recorded on the context, unless a
// handler already wrote the body. Server-side failures are logged with their stack either way.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		var (
			resp  httperr.Response
			found bool
		)
		for i := len(c.Errors) - 1; i >= 0 && !found; i-- {
			if e := c.Errors[i]; e.IsType(gin.ErrorTypePublic) {
				resp, found = e.Meta.(httperr.Response)
			}
		}

		status := c.Writer.Status()
		if found && !c.Writer.Written() {
			status = resp.Status
		}
		for _, e := range c.Errors {
			logServerError(c, status, e.Err)
		}

		switch {
		case c.Writer.Written():
		case found:
			c.JSON(resp.Status, resp)
		case status != http.StatusOK:
			c.Writer.WriteHeaderNow()
		default:
			c.JSON(http.StatusInternalServerError, internalError())
		}
	}
}

func logServerError(c *gin.Context, status int, err error) {
	if status < http.StatusInternalServerError || err == nil {
		return
	}
	slog.ErrorContext(c.Request.Context(), "request failed",
		"status", status,
		"error", err.Error(),
		"stack", errs.ExtractStackLines(err, 8),
	)
}

func CustomRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.ErrorContext(c.Request.Context(), "recovered from panic",
			"panic", fmt.Sprint(recovered),
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, internalError())
	})
}

func internalError() httperr.Response {
	resp := httperr.Response{Status: http.StatusInternalServerError}
	resp.Error.Message = "Internal server error"
	return resp
}
