package commands

//go:generate mockgen -source=payment.go -destination=../../../tests/mock/commands/payment_mock.go -package=commandsmock

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"venue-booking-gateway/internal/apiclient"
	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/domain/payment"
	"venue-booking-gateway/internal/infra/events"
	"venue-booking-gateway/internal/pkg/clock"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/errs"
)

var ErrCheckoutUnavailable = errs.New("checkout collaborator unavailable")

type PayOptions struct {
	IsRetry bool
}

type PaymentCommands interface {
	// Pay runs one full transaction: order, checkout, verification or failure recording.
	Pay(ctx context.Context, b *booking.Booking, opts PayOptions) (*payment.Result, error)
	// Begin creates (or retries) the order and returns the attempt to hand to a checkout.
	Begin(ctx context.Context, b *booking.Booking, opts PayOptions) (*payment.Attempt, error)
	// Settle classifies the checkout outcome and talks to the server accordingly.
	Settle(ctx context.Context, attempt *payment.Attempt, outcome payment.Outcome) (*payment.Result, error)
}

type paymentCommandsImpl struct {
	payments       PaymentGateway
	checkout       Checkout
	publisher      EventPublisher
	topic          string
	failureTimeout time.Duration
	clock          clock.Clock
	logger         *slog.Logger
}

func NewPaymentCommands(
	payments PaymentGateway,
	checkout Checkout,
	publisher EventPublisher,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) PaymentCommands {
	return &paymentCommandsImpl{
		payments:       payments,
		checkout:       checkout,
		publisher:      publisher,
		topic:          cfg.Events.PaymentTopic,
		failureTimeout: cfg.Payment.FailureRecordTimeout,
		clock:          clk,
		logger:         logger,
	}
}

func (p *paymentCommandsImpl) Pay(ctx context.Context, b *booking.Booking, opts PayOptions) (*payment.Result, error) {
	if p.checkout == nil {
		return nil, errs.Mark(errs.New("no checkout configured"), ErrCheckoutUnavailable)
	}

	attempt, err := p.Begin(ctx, b, opts)
	if err != nil {
		return nil, err
	}

	if err := p.checkout.Open(ctx, attempt.Descriptor(), attempt.Callbacks()); err != nil {
		p.logger.WarnContext(ctx, "checkout could not be opened", "order_id", attempt.Order().OrderID, "error", err)
		attempt.Resolve(payment.GatewayFailed(payment.GatewayErrorPayload{
			Code:        payment.CodeGatewayError,
			Description: "Checkout could not be opened",
			Source:      "client",
			Step:        "checkout_open",
			Reason:      err.Error(),
		}))
	}

	outcome, err := attempt.Wait(ctx)
	if err != nil {
		return nil, errs.Wrapf(err, "stopped waiting for checkout of order %s", attempt.Order().OrderID)
	}
	return p.Settle(ctx, attempt, outcome)
}

func (p *paymentCommandsImpl) Begin(ctx context.Context, b *booking.Booking, opts PayOptions) (*payment.Attempt, error) {
	var (
		order payment.Order
		err   error
	)
	if opts.IsRetry {
		order, err = p.payments.RetryOrder(ctx, b.ID(), b.RetryCount())
	} else {
		order, err = p.payments.CreateOrder(ctx, b.ID())
	}
	if err != nil {
		return nil, errs.WithReason(
			errs.Wrapf(err, "failed to create payment order for booking %s", b.ID()),
			"We could not start the payment. Please try again.",
		)
	}

	guest := b.Guest()
	attempt := payment.NewAttempt(order, payment.Prefill{
		Name:    guest.Name,
		Email:   guest.Email,
		Contact: guest.Contact,
	}, p.clock.Now())
	attempt.OnIgnoredOutcome(func(o payment.Outcome) {
		p.logger.Warn("ignoring checkout callback after settlement", "order_id", order.OrderID, "outcome", o.Kind().String())
	})

	p.logger.InfoContext(ctx, "payment order created",
		"booking_id", b.ID(),
		"order_id", order.OrderID,
		"amount", order.Amount,
		"currency", order.Currency,
		"is_retry", opts.IsRetry,
		"retry_count", b.RetryCount(),
	)
	return attempt, nil
}

func (p *paymentCommandsImpl) Settle(ctx context.Context, attempt *payment.Attempt, outcome payment.Outcome) (*payment.Result, error) {
	order := attempt.Order()

	switch outcome.Kind() {
	case payment.OutcomeSuccess:
		success, _ := outcome.Success()
		if !success.BelongsTo(order.OrderID) {
			p.logger.WarnContext(ctx, "payment payload names another order", "order_id", order.OrderID, "payload_order_id", success.OrderID)
			failure := payment.NewVerificationFailure(order.BookingID, order.OrderID, "Payment does not belong to this order")
			p.publishFailure(ctx, failure)
			return nil, failure
		}
		paymentID, err := p.payments.Verify(ctx, order, success)
		if err != nil {
			p.logger.WarnContext(ctx, "payment verification failed", "order_id", order.OrderID, "error", err)
			failure := payment.NewVerificationFailure(order.BookingID, order.OrderID, verificationDescription(err))
			p.publishFailure(ctx, failure)
			return nil, failure
		}

		result := &payment.Result{
			BookingID:  order.BookingID,
			OrderID:    order.OrderID,
			PaymentID:  paymentID,
			VerifiedAt: p.clock.Now(),
		}
		p.logger.InfoContext(ctx, "payment verified", "booking_id", result.BookingID, "order_id", result.OrderID, "payment_id", result.PaymentID)
		p.publish(ctx, events.Event{
			Type:       events.TypePaymentSucceeded,
			Key:        result.BookingID,
			OccurredAt: result.VerifiedAt,
			Attributes: map[string]string{"orderId": result.OrderID, "paymentId": result.PaymentID},
		})
		return result, nil

	case payment.OutcomeUserCancelled, payment.OutcomeGatewayError:
		details, _ := outcome.Failure()
		p.recordFailure(ctx, order, details)
		failure := payment.NewFailure(order.BookingID, order.OrderID, outcome)
		p.logger.InfoContext(ctx, "payment not completed",
			"booking_id", order.BookingID,
			"order_id", order.OrderID,
			"outcome", outcome.Kind().String(),
			"code", failure.Code,
		)
		p.publishFailure(ctx, failure)
		return nil, failure

	default:
		return nil, errs.New("unknown checkout outcome for order " + order.OrderID)
	}
}

// recordFailure is best effort: the user-facing failure does not depend on it.
func (p *paymentCommandsImpl) recordFailure(ctx context.Context, order payment.Order, details payment.GatewayErrorPayload) {
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.failureTimeout)
	defer cancel()

	if err := p.payments.RecordFailure(recordCtx, order, details); err != nil {
		p.logger.WarnContext(ctx, "failed to record payment failure", "order_id", order.OrderID, "code", details.Code, "error", err)
	}
}

func (p *paymentCommandsImpl) publishFailure(ctx context.Context, f *payment.Failure) {
	p.publish(ctx, events.Event{
		Type:       events.TypePaymentFailed,
		Key:        f.BookingID,
		OccurredAt: p.clock.Now(),
		Attributes: map[string]string{
			"orderId":     f.OrderID,
			"code":        f.Code,
			"description": f.Description,
		},
	})
}

func (p *paymentCommandsImpl) publish(ctx context.Context, e events.Event) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, p.topic, e); err != nil {
		p.logger.WarnContext(ctx, "failed to publish payment event", "type", e.Type, "key", e.Key, "error", err)
	}
}

func verificationDescription(err error) string {
	if se, ok := apiclient.AsStatusError(err); ok {
		if se.Message != "" {
			return se.Message
		}
		return "Payment verification failed (status " + strconv.Itoa(se.StatusCode) + ")"
	}
	if errs.Is(err, errs.ErrRenewalFailed) {
		return "Your session ended before the payment could be verified"
	}
	return "Payment verification failed"
}
