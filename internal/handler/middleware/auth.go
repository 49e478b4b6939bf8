package middleware

import (
	"errors"
	"net/http"

	"venue-booking-gateway/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

var errNoSession = errors.New("no active session")

type SessionChecker interface {
	Authenticated() bool
}

// AuthMiddleware guards routes that need the gateway to hold an upstream credential.
type AuthMiddleware struct {
	session SessionChecker
}

func NewAuthMiddleware(session SessionChecker) *AuthMiddleware {
	return &AuthMiddleware{session: session}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.session.Authenticated() {
			httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeNotAuthenticated, errNoSession, "Please log in first.", nil)
			return
		}
		c.Next()
	}
}
