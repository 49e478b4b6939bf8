package request

import (
	"strings"

	"venue-booking-gateway/internal/apiclient"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// ToClient normalizes the email the way the server of record stores it.
func (r LoginRequest) ToClient() apiclient.LoginRequest {
	return apiclient.LoginRequest{
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: r.Password,
	}
}
