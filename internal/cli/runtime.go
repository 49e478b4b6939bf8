package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"venue-booking-gateway/internal/apiclient"
	"venue-booking-gateway/internal/infra/credstore"
	"venue-booking-gateway/internal/infra/events"
	"venue-booking-gateway/internal/infra/upstream"
	"venue-booking-gateway/internal/pkg/clock"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/usecase/commands"
	"venue-booking-gateway/internal/usecase/queries"
)

// runtime is the in-process stack a command runs against.
type runtime struct {
	cfg      config.Config
	logger   *slog.Logger
	client   *apiclient.Client
	auth     commands.AuthCommands
	bookings commands.BookingCommands
	queries  queries.BookingQueries
	payments *upstream.PaymentAPI
	events   events.Publisher
	closeFn  func()
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, closeStore, err := credstore.Open(ctx, cfg.CredentialStore, logger)
	if err != nil {
		return nil, err
	}

	publisher := events.Publisher(events.NewLogPublisher(logger))
	if len(cfg.Events.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Events, logger)
	}

	client, err := apiclient.NewClient(cfg.Upstream, store, events.NewSessionNotifier(publisher, cfg.Events.SessionTopic, logger), logger)
	if err != nil {
		closeStore()
		return nil, err
	}

	bookingAPI := upstream.NewBookingAPI(client)
	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		auth:     commands.NewAuthCommands(client, logger),
		bookings: commands.NewBookingCommands(bookingAPI, logger),
		queries:  queries.NewBookingQueries(bookingAPI, cfg.Payment.MaxRetries),
		payments: upstream.NewPaymentAPI(client),
		events:   publisher,
		closeFn: func() {
			_ = publisher.Close()
			closeStore()
		},
	}

	if email != "" {
		if _, err := client.Login(ctx, apiclient.LoginRequest{Email: email, Password: password}); err != nil {
			rt.close()
			return nil, errs.Wrap(err, "login failed")
		}
	}
	return rt, nil
}

func (r *runtime) paymentCommands(in io.Reader, w io.Writer, signingKey string) commands.PaymentCommands {
	checkout := NewStdinCheckout(in, w, signingKey)
	return commands.NewPaymentCommands(r.payments, checkout, r.events, r.cfg, clock.NewRealClock(), r.logger)
}

func (r *runtime) close() {
	r.closeFn()
}
