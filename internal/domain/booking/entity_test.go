//go:build unit

package booking_test

import (
	"math"
	"testing"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.BookingBuilder)
	expect bool
}

func TestBooking_CanRetryPayment(t *testing.T) {
	runCases := func(t *testing.T, cases []testCase) {
		t.Helper()
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := builder.NewBookingBuilder()
				tc.mutate(b)
				entity, err := b.BuildDomain()
				require.NoError(t, err)
				assert.Equal(t, tc.expect, entity.CanRetryPayment(booking.MaxPaymentRetries))
			})
		}
	}

	runCases(t, []testCase{
		{name: "no retries yet", mutate: func(b *builder.BookingBuilder) { b.WithRetryCount(0) }, expect: true},
		{name: "two retries", mutate: func(b *builder.BookingBuilder) { b.WithRetryCount(2) }, expect: true},
		{name: "limit reached", mutate: func(b *builder.BookingBuilder) { b.WithRetryCount(3) }, expect: false},
		{name: "beyond limit", mutate: func(b *builder.BookingBuilder) { b.WithRetryCount(7) }, expect: false},
		{
			name: "already paid",
			mutate: func(b *builder.BookingBuilder) {
				b.WithRetryCount(0).WithPaymentStatus(booking.PaymentCompleted)
			},
			expect: false,
		},
	})

	t.Run("non-positive limit falls back to the default bound", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().WithRetryCount(3).BuildDomain()
		require.NoError(t, err)
		assert.False(t, entity.CanRetryPayment(0))
	})
}

func TestBooking_ApplyAndCorrect(t *testing.T) {
	t.Run("apply legal action updates cached status", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		next, err := entity.Apply(booking.ActionAccept)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, next)
		assert.Equal(t, booking.StatusConfirmed, entity.Status())
	})

	t.Run("apply illegal action leaves status untouched", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().WithStatus(booking.StatusCompleted).BuildDomain()
		require.NoError(t, err)

		_, err = entity.Apply(booking.ActionComplete)
		assert.True(t, errs.Is(err, errs.ErrTransitionRejected))
		assert.Equal(t, booking.StatusCompleted, entity.Status())
	})

	t.Run("server disagreement wins", func(t *testing.T) {
		entity, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)
		_, _ = entity.Apply(booking.ActionAccept)

		assert.True(t, entity.Correct(booking.StatusCancelled))
		assert.Equal(t, booking.StatusCancelled, entity.Status())
		assert.False(t, entity.Correct(booking.StatusCancelled))
		assert.False(t, entity.Correct(booking.Status("bogus")))
	})
}

func TestReconstruct_Validation(t *testing.T) {
	_, err := builder.NewBookingBuilder().WithID("").BuildDomain()
	assert.Error(t, err)

	_, err = builder.NewBookingBuilder().WithStatus(booking.Status("archived")).BuildDomain()
	assert.Error(t, err)

	entity, err := builder.NewBookingBuilder().WithRetryCount(-2).BuildDomain()
	require.NoError(t, err)
	assert.Equal(t, 0, entity.RetryCount())
}

func TestMoney(t *testing.T) {
	t.Run("server total is rounded to two decimals", func(t *testing.T) {
		m, err := booking.MoneyFromMajor(708, "inr")
		require.NoError(t, err)
		assert.Equal(t, int64(70800), m.Minor())
		assert.Equal(t, "708.00", m.Format())
		assert.Equal(t, "INR 708.00", m.String())

		m, err = booking.MoneyFromMajor(708.456, "INR")
		require.NoError(t, err)
		assert.Equal(t, "708.46", m.Format())
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := booking.NewMoney(-1, "INR")
		assert.ErrorIs(t, err, booking.ErrNegativeAmount)
		_, err = booking.NewMoney(100, "RUPEE")
		assert.ErrorIs(t, err, booking.ErrInvalidCurrency)
	})

	t.Run("unrepresentable server totals", func(t *testing.T) {
		for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e17, math.MaxFloat64} {
			_, err := booking.MoneyFromMajor(amount, "INR")
			assert.ErrorIs(t, err, booking.ErrInvalidAmount, "amount %v", amount)
		}

		_, err := booking.MoneyFromMajor(-708, "INR")
		assert.ErrorIs(t, err, booking.ErrNegativeAmount)
		_, err = booking.MoneyFromMajor(-1e300, "INR")
		assert.ErrorIs(t, err, booking.ErrNegativeAmount)

		m, err := booking.MoneyFromMajor(9e16, "INR")
		require.NoError(t, err)
		assert.Equal(t, int64(9e18), m.Minor())
	})
}
