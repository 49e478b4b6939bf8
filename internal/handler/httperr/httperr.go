package httperr

import (
	"net/http"

	"venue-booking-gateway/internal/apiclient"
	"venue-booking-gateway/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	CodeSessionTerminated = "SESSION_TERMINATED"
	CodeNotAuthenticated  = "NOT_AUTHENTICATED"
	CodeNotFound          = "NOT_FOUND"
	CodeTransition        = "TRANSITION_REJECTED"
	CodeRetryLimit        = "RETRY_LIMIT_EXCEEDED"
	CodeUpstream          = "UPSTREAM_ERROR"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithCode(c, status, "", err, msg, detail)
}

func AbortWithCode(c *gin.Context, status int, code string, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort classifies err against the domain sentinels. fallback is the message used
// when err carries no human reason of its own.
func Abort(c *gin.Context, err error, fallback string) {
	status, code := Classify(err)
	msg := fallback
	if reason := errs.HumanReason(err); reason != err.Error() {
		msg = reason
	}
	switch code {
	case CodeSessionTerminated:
		msg = "Your session has ended. Please log in again."
	case CodeUpstream:
		if se, ok := apiclient.AsStatusError(err); ok && se.Message != "" {
			msg = se.Message
		}
	}
	AbortWithCode(c, status, code, err, msg, nil)
}

func Classify(err error) (int, string) {
	switch {
	case errs.Is(err, errs.ErrRenewalFailed), errs.Is(err, errs.ErrReplayFailed):
		return http.StatusUnauthorized, CodeSessionTerminated
	case errs.Is(err, errs.ErrNotAuthenticated):
		return http.StatusUnauthorized, CodeNotAuthenticated
	case errs.Is(err, errs.ErrBookingNotFound):
		return http.StatusNotFound, CodeNotFound
	case errs.Is(err, errs.ErrTransitionRejected):
		return http.StatusConflict, CodeTransition
	case errs.Is(err, errs.ErrRetryLimitExceeded):
		return http.StatusConflict, CodeRetryLimit
	}
	if se, ok := apiclient.AsStatusError(err); ok && se.StatusCode >= 400 && se.StatusCode < 500 {
		return se.StatusCode, CodeUpstream
	}
	if errs.Is(err, errs.ErrUpstreamUnavailable) {
		return http.StatusBadGateway, CodeUpstream
	}
	if _, ok := apiclient.AsStatusError(err); ok {
		return http.StatusBadGateway, CodeUpstream
	}
	return http.StatusInternalServerError, ""
}
