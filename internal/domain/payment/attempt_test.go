//go:build unit

package payment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"venue-booking-gateway/internal/domain/payment"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder() payment.Order {
	return payment.Order{BookingID: "B1", OrderID: "O1", Amount: 70800, Currency: "inr", KeyID: "rzp_test"}
}

func TestAttempt_FirstCallbackWins(t *testing.T) {
	attempt := payment.NewAttempt(newOrder(), payment.Prefill{Name: "Asha"}, time.Now())

	var ignored []payment.OutcomeKind
	attempt.OnIgnoredOutcome(func(o payment.Outcome) { ignored = append(ignored, o.Kind()) })

	cb := attempt.Callbacks()
	cb.OnUserSuccess(payment.SuccessPayload{PaymentID: "P1", OrderID: "O1", Signature: "sig"})
	cb.OnUserCancelledOrFailed(nil)
	cb.OnGatewayFailure(payment.GatewayErrorPayload{Code: "BAD_REQUEST_ERROR"})

	outcome, err := attempt.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payment.OutcomeSuccess, outcome.Kind())
	success, ok := outcome.Success()
	require.True(t, ok)
	assert.Equal(t, "P1", success.PaymentID)
	assert.Equal(t, []payment.OutcomeKind{payment.OutcomeUserCancelled, payment.OutcomeGatewayError}, ignored)
}

func TestAttempt_ConcurrentCallbacksResolveOnce(t *testing.T) {
	attempt := payment.NewAttempt(newOrder(), payment.Prefill{}, time.Now())
	cb := attempt.Callbacks()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cb.OnUserCancelledOrFailed(nil)
		}()
	}
	wg.Wait()

	_, err := attempt.Wait(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = attempt.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAttempt_Descriptor(t *testing.T) {
	attempt := payment.NewAttempt(newOrder(), payment.Prefill{Name: "Asha", Email: "asha@example.com"}, time.Now())

	d := attempt.Descriptor()
	assert.Equal(t, "O1", d.OrderID)
	assert.Equal(t, int64(70800), d.Amount)
	assert.Equal(t, "INR", d.Currency)
	assert.Equal(t, "Asha", d.Prefill.Name)
}

func TestAttempt_Expired(t *testing.T) {
	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	attempt := payment.NewAttempt(newOrder(), payment.Prefill{}, created)

	assert.False(t, attempt.Expired(created.Add(time.Minute), 30*time.Minute))
	assert.True(t, attempt.Expired(created.Add(31*time.Minute), 30*time.Minute))
	assert.False(t, attempt.Expired(created.Add(time.Hour), 0))
}

func TestOrder_Validate(t *testing.T) {
	assert.NoError(t, newOrder().Validate())

	o := newOrder()
	o.Amount = 0
	assert.ErrorIs(t, o.Validate(), payment.ErrInvalidOrder)

	o = newOrder()
	o.OrderID = ""
	assert.ErrorIs(t, o.Validate(), payment.ErrInvalidOrder)
}

func TestNewFailure(t *testing.T) {
	t.Run("cancelled without payload", func(t *testing.T) {
		f := payment.NewFailure("B1", "O1", payment.Cancelled(nil))

		assert.Equal(t, payment.CodePaymentCancelled, f.Code)
		assert.True(t, errors.Is(f, errs.ErrPaymentCancelled))
		assert.True(t, errs.Is(f, errs.ErrPaymentCancelled))
		assert.False(t, errs.Is(f, errs.ErrPaymentGatewayError))
		assert.Contains(t, f.HumanReason(), "cancelled")
	})

	t.Run("gateway failure keeps details", func(t *testing.T) {
		f := payment.NewFailure("B1", "O1", payment.GatewayFailed(payment.GatewayErrorPayload{
			Code:        "BAD_REQUEST_ERROR",
			Description: "Card declined by issuer",
			Source:      "bank",
			Step:        "payment_authorization",
			Reason:      "card_declined",
		}))

		assert.True(t, errs.Is(f, errs.ErrPaymentGatewayError))
		assert.Equal(t, "bank", f.Source)
		assert.Equal(t, "card_declined", f.Reason)
		assert.Equal(t, "Card declined by issuer", f.HumanReason())
	})

	t.Run("verification failure", func(t *testing.T) {
		f := payment.NewVerificationFailure("B1", "O1", "signature mismatch")

		assert.Equal(t, payment.CodeVerificationFailed, f.Code)
		assert.True(t, errs.Is(f, errs.ErrVerificationFailed))
		assert.Contains(t, f.Error(), "B1")
	})
}

func TestCheckRetryAllowed(t *testing.T) {
	b, err := builder.NewBookingBuilder().WithRetryCount(1).BuildDomain()
	require.NoError(t, err)
	assert.NoError(t, payment.CheckRetryAllowed(b, 3))

	b, err = builder.NewBookingBuilder().WithRetryCount(3).BuildDomain()
	require.NoError(t, err)
	assert.True(t, errs.Is(payment.CheckRetryAllowed(b, 3), errs.ErrRetryLimitExceeded))
}
