//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"venue-booking-gateway/internal/apiclient"
	reqdto "venue-booking-gateway/internal/handler/dto/request"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/usecase/commands"
	commandsmock "venue-booking-gateway/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthCommands(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	req := reqdto.LoginRequest{Email: "asha@example.com", Password: "password123"}

	t.Run("login returns the account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := commandsmock.NewMockSessionClient(ctrl)
		session.EXPECT().Login(gomock.Any(), apiclient.LoginRequest{Email: req.Email, Password: req.Password}).
			Return(apiclient.Account{ID: "U1", Email: req.Email}, nil)

		result, err := commands.NewAuthCommands(session, logger).Login(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "U1", result.Account.ID)
	})

	t.Run("login normalizes the email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := commandsmock.NewMockSessionClient(ctrl)
		session.EXPECT().Login(gomock.Any(), apiclient.LoginRequest{Email: "asha@example.com", Password: req.Password}).
			Return(apiclient.Account{ID: "U1"}, nil)

		_, err := commands.NewAuthCommands(session, logger).Login(context.Background(),
			reqdto.LoginRequest{Email: "  Asha@Example.COM ", Password: req.Password})

		require.NoError(t, err)
	})

	t.Run("bad credentials are an authentication failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := commandsmock.NewMockSessionClient(ctrl)
		session.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(apiclient.Account{}, errs.Mark(errs.New("401"), errs.ErrNotAuthenticated))

		_, err := commands.NewAuthCommands(session, logger).Login(context.Background(), req)

		assert.True(t, errs.Is(err, commands.ErrAuthenticationFailed))
	})

	t.Run("logout error is wrapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := commandsmock.NewMockSessionClient(ctrl)
		session.EXPECT().Logout(gomock.Any()).Return(errors.New("store unavailable"))

		err := commands.NewAuthCommands(session, logger).Logout(context.Background())

		assert.ErrorContains(t, err, "store unavailable")
	})

	t.Run("session reports renewal stats", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := commandsmock.NewMockSessionClient(ctrl)
		session.EXPECT().Authenticated().Return(true)
		session.EXPECT().RenewalStats().Return(apiclient.Stats{RenewalsStarted: 2, RenewalsSucceeded: 2})

		info := commands.NewAuthCommands(session, logger).Session(context.Background())

		assert.True(t, info.Authenticated)
		assert.Equal(t, int64(2), info.Renewals.RenewalsSucceeded)
	})
}
