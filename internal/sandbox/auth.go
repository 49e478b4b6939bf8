package sandbox

import (
	"net/http"

	"venue-booking-gateway/internal/pkg/cookie"
	"venue-booking-gateway/internal/pkg/password"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type accountJSON struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.state.mu.Lock()
	acc, found := s.state.accounts[req.Email]
	generation := s.state.generation
	s.state.mu.Unlock()
	if !found || password.Verify(acc.PasswordHash, req.Password) != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	accessToken, _, err := s.access.GenerateToken(acc.ID, generation)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Could not issue token")
		return
	}
	refreshToken, _, err := s.refresh.GenerateToken(acc.ID, 0)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Could not issue token")
		return
	}
	cookie.SetRefresh(c, s.cfg.Cookie, refreshToken, s.refresh.Duration())

	s.logger.InfoContext(c.Request.Context(), "login", "user_id", acc.ID)
	ok(c, http.StatusOK, gin.H{
		"accessToken": accessToken,
		"user":        accountJSON{ID: acc.ID, Email: acc.Email, Name: acc.Name},
	})
}

// refreshToken trusts only the refresh cookie; any Authorization header is ignored.
func (s *Server) refreshToken(c *gin.Context) {
	raw := cookie.RefreshToken(c)
	if raw == "" {
		fail(c, http.StatusUnauthorized, "Session expired")
		return
	}
	claims, err := s.refresh.ValidateToken(raw)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Session expired")
		return
	}

	s.state.mu.Lock()
	_, revoked := s.state.revoked[claims.ID]
	generation := s.state.generation
	s.state.mu.Unlock()
	if revoked {
		fail(c, http.StatusUnauthorized, "Session expired")
		return
	}

	accessToken, _, err := s.access.GenerateToken(claims.UserID, generation)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Could not issue token")
		return
	}
	s.logger.DebugContext(c.Request.Context(), "access token renewed", "user_id", claims.UserID)
	ok(c, http.StatusOK, gin.H{"accessToken": accessToken})
}

func (s *Server) logout(c *gin.Context) {
	if raw := cookie.RefreshToken(c); raw != "" {
		if claims, err := s.refresh.ValidateToken(raw); err == nil {
			s.state.mu.Lock()
			s.state.revoked[claims.ID] = struct{}{}
			s.state.mu.Unlock()
		}
	}
	cookie.ClearRefresh(c, s.cfg.Cookie)
	ok(c, http.StatusOK, gin.H{"loggedOut": true})
}
