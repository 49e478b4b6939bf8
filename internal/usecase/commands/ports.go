package commands

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports_mock.go -package=commandsmock

import (
	"context"

	"venue-booking-gateway/internal/apiclient"
	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/domain/payment"
	"venue-booking-gateway/internal/infra/events"
)

// Ports implemented by infra/upstream against the server of record.

type BookingGateway interface {
	Get(ctx context.Context, id string) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, id string, status booking.Status) (booking.Status, error)
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, bookingID string) (payment.Order, error)
	RetryOrder(ctx context.Context, bookingID string, retryCount int) (payment.Order, error)
	Verify(ctx context.Context, order payment.Order, p payment.SuccessPayload) (string, error)
	RecordFailure(ctx context.Context, order payment.Order, p payment.GatewayErrorPayload) error
}

// Checkout is the external checkout collaborator. Open must return promptly;
// the outcome arrives later through exactly one of the callbacks.
type Checkout interface {
	Open(ctx context.Context, d payment.OrderDescriptor, cb payment.Callbacks) error
}

type SessionClient interface {
	Login(ctx context.Context, in apiclient.LoginRequest) (apiclient.Account, error)
	Logout(ctx context.Context) error
	Authenticated() bool
	RenewalStats() apiclient.Stats
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, e events.Event) error
}
