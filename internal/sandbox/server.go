package sandbox

import (
	"log/slog"
	"net/http"
	"strings"

	"venue-booking-gateway/internal/pkg/clock"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	keyUserID  = "sandbox_user_id"
	checkoutID = "rzp_sandbox"
)

// Server is an in-memory server of record speaking the same wire contract as the
// production booking API: a data envelope on success, a message body on failure.
type Server struct {
	cfg     config.SandboxConfig
	state   *state
	access  *jwt.Service
	refresh *jwt.Service
	clock   clock.Clock
	logger  *slog.Logger
}

func NewServer(cfg config.SandboxConfig, clk clock.Clock, logger *slog.Logger) (*Server, error) {
	st, err := newState(clk.Now())
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:     cfg,
		state:   st,
		access:  jwt.NewService(cfg.JWTSecret, cfg.AccessTokenDuration, jwt.KindAccess, clk),
		refresh: jwt.NewService(cfg.JWTSecret, cfg.RefreshTokenDuration, jwt.KindRefresh, clk),
		clock:   clk,
		logger:  logger,
	}, nil
}

func (s *Server) Register(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := engine.Group("/auth")
	{
		auth.POST("/login", s.login)
		auth.POST("/refresh-token", s.refreshToken)
		auth.POST("/logout", s.requireBearer(), s.logout)
	}

	bookings := engine.Group("/bookings", s.requireBearer())
	{
		bookings.GET("/:id", s.getBooking)
		bookings.PATCH("/:id/status", s.updateStatus)
	}

	payments := engine.Group("/payments", s.requireBearer())
	{
		payments.POST("/create-order", s.createOrder)
		payments.POST("/retry", s.retryOrder)
		payments.POST("/verify", s.verify)
		payments.POST("/failure", s.recordFailure)
	}

	engine.POST("/sandbox/expire-sessions", s.expireSessions)
}

// ExpireSessions invalidates every access token issued so far. Refresh cookies stay valid.
func (s *Server) ExpireSessions() {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.generation++
}

func (s *Server) expireSessions(c *gin.Context) {
	s.ExpireSessions()
	s.logger.InfoContext(c.Request.Context(), "all access tokens expired")
	c.Status(http.StatusNoContent)
}

func (s *Server) requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			fail(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		claims, err := s.access.ValidateToken(token)
		if err != nil {
			fail(c, http.StatusUnauthorized, "Token expired or invalid")
			return
		}
		s.state.mu.Lock()
		stale := claims.Generation < s.state.generation
		s.state.mu.Unlock()
		if stale {
			fail(c, http.StatusUnauthorized, "Token expired or invalid")
			return
		}
		c.Set(keyUserID, claims.UserID)
		c.Next()
	}
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
