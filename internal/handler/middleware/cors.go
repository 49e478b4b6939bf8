package middleware

import (
	"slices"

	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/reqid"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware always lets browsers send and read X-Request-ID so a checkout page
// can correlate its calls with gateway logs.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withHeader(cfg.AllowHeaders, reqid.Header),
		ExposeHeaders:    withHeader(cfg.ExposeHeaders, reqid.Header),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

func withHeader(headers []string, h string) []string {
	if slices.Contains(headers, h) {
		return headers
	}
	return append(slices.Clone(headers), h)
}
