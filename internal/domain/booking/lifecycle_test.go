//go:build unit

package booking_test

import (
	"testing"

	"venue-booking-gateway/internal/domain/booking"
	"venue-booking-gateway/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	testCases := []struct {
		name     string
		from     booking.Status
		action   booking.Action
		expected booking.Status
		rejected bool
	}{
		{name: "pending accept -> confirmed", from: booking.StatusPending, action: booking.ActionAccept, expected: booking.StatusConfirmed},
		{name: "pending reject -> cancelled", from: booking.StatusPending, action: booking.ActionReject, expected: booking.StatusCancelled},
		{name: "confirmed complete -> completed", from: booking.StatusConfirmed, action: booking.ActionComplete, expected: booking.StatusCompleted},
		{name: "pending complete rejected", from: booking.StatusPending, action: booking.ActionComplete, rejected: true},
		{name: "confirmed accept rejected", from: booking.StatusConfirmed, action: booking.ActionAccept, rejected: true},
		{name: "confirmed reject rejected", from: booking.StatusConfirmed, action: booking.ActionReject, rejected: true},
		{name: "completed complete rejected", from: booking.StatusCompleted, action: booking.ActionComplete, rejected: true},
		{name: "cancelled accept rejected", from: booking.StatusCancelled, action: booking.ActionAccept, rejected: true},
		{name: "unknown action rejected", from: booking.StatusPending, action: booking.Action("archive"), rejected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := booking.Transition(tc.from, tc.action)
			if tc.rejected {
				require.Error(t, err)
				assert.True(t, errs.Is(err, errs.ErrTransitionRejected))
				assert.Equal(t, tc.from, next, "rejected transition must leave the status unchanged")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, next)
		})
	}
}

func TestAllowedActions(t *testing.T) {
	assert.ElementsMatch(t, []booking.Action{booking.ActionAccept, booking.ActionReject}, booking.AllowedActions(booking.StatusPending))
	assert.Equal(t, []booking.Action{booking.ActionComplete}, booking.AllowedActions(booking.StatusConfirmed))
	assert.Empty(t, booking.AllowedActions(booking.StatusCompleted))
	assert.Empty(t, booking.AllowedActions(booking.StatusCancelled))
}

func TestParseAction(t *testing.T) {
	a, ok := booking.ParseAction("accept")
	assert.True(t, ok)
	assert.Equal(t, booking.ActionAccept, a)

	_, ok = booking.ParseAction("confirm")
	assert.False(t, ok)
}
