package response

import (
	"venue-booking-gateway/internal/usecase/commands"
)

type AccountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type LoginResponse struct {
	User AccountResponse `json:"user"`
}

type SessionResponse struct {
	Authenticated     bool  `json:"authenticated"`
	RenewalsStarted   int64 `json:"renewalsStarted"`
	RenewalsSucceeded int64 `json:"renewalsSucceeded"`
	RenewalsFailed    int64 `json:"renewalsFailed"`
	Replayed          int64 `json:"replayed"`
}

func FromLoginResult(r *commands.LoginResult) LoginResponse {
	return LoginResponse{User: AccountResponse{ID: r.Account.ID, Email: r.Account.Email, Name: r.Account.Name}}
}

func FromSessionInfo(info commands.SessionInfo) SessionResponse {
	return SessionResponse{
		Authenticated:     info.Authenticated,
		RenewalsStarted:   info.Renewals.RenewalsStarted,
		RenewalsSucceeded: info.Renewals.RenewalsSucceeded,
		RenewalsFailed:    info.Renewals.RenewalsFailed,
		Replayed:          info.Renewals.Replayed,
	}
}
