// Package cookie manages the sandbox's refresh cookie. It is scoped to the auth routes
// so it never rides along on booking or payment calls.
package cookie

import (
	"net/http"
	"strings"
	"time"

	"venue-booking-gateway/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	RefreshName = "refresh_token"
	RefreshPath = "/auth"
)

func SetRefresh(c *gin.Context, cfg config.CookieConfig, token string, ttl time.Duration) {
	http.SetCookie(c.Writer, refresh(cfg, token, int(ttl.Seconds())))
}

func ClearRefresh(c *gin.Context, cfg config.CookieConfig) {
	http.SetCookie(c.Writer, refresh(cfg, "", -1))
}

// RefreshToken returns "" when the request carries no refresh cookie.
func RefreshToken(c *gin.Context) string {
	token, err := c.Cookie(RefreshName)
	if err != nil {
		return ""
	}
	return token
}

func refresh(cfg config.CookieConfig, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshName,
		Value:    value,
		Path:     RefreshPath,
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: sameSite(cfg.SameSite),
	}
}

func sameSite(mode string) http.SameSite {
	switch {
	case strings.EqualFold(mode, "strict"):
		return http.SameSiteStrictMode
	case strings.EqualFold(mode, "none"):
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
