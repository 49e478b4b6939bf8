package commands

//go:generate mockgen -source=auth.go -destination=../../../tests/mock/commands/auth_mock.go -package=commandsmock

import (
	"context"
	"log/slog"

	"venue-booking-gateway/internal/apiclient"
	reqdto "venue-booking-gateway/internal/handler/dto/request"
	"venue-booking-gateway/internal/pkg/errs"
)

var ErrAuthenticationFailed = errs.New("authentication failed")

type LoginResult struct {
	Account apiclient.Account
}

type SessionInfo struct {
	Authenticated bool
	Renewals      apiclient.Stats
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) SessionInfo
}

type authCommandsImpl struct {
	session SessionClient
	logger  *slog.Logger
}

func NewAuthCommands(session SessionClient, logger *slog.Logger) AuthCommands {
	return &authCommandsImpl{session: session, logger: logger}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	account, err := a.session.Login(ctx, req.ToClient())
	if err != nil {
		if errs.Is(err, errs.ErrNotAuthenticated) {
			return nil, errs.Mark(err, ErrAuthenticationFailed)
		}
		return nil, errs.Wrap(err, "login failed")
	}
	return &LoginResult{Account: account}, nil
}

func (a *authCommandsImpl) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return errs.Wrap(err, "logout failed")
	}
	a.logger.InfoContext(ctx, "logged out")
	return nil
}

func (a *authCommandsImpl) Session(_ context.Context) SessionInfo {
	return SessionInfo{
		Authenticated: a.session.Authenticated(),
		Renewals:      a.session.RenewalStats(),
	}
}
