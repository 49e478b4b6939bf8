//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"venue-booking-gateway/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	t.Run("marked error keeps message and matches sentinel", func(t *testing.T) {
		base := errors.New("status 401")
		marked := errs.Mark(base, errs.ErrReplayFailed)

		assert.True(t, errs.Is(marked, errs.ErrReplayFailed))
		assert.False(t, errs.Is(marked, errs.ErrRenewalFailed))
		assert.Contains(t, marked.Error(), "status 401")
	})

	t.Run("nil error returns the mark itself", func(t *testing.T) {
		assert.Equal(t, errs.ErrRenewalFailed, errs.Mark(nil, errs.ErrRenewalFailed))
	})

	t.Run("wrap keeps the mark reachable", func(t *testing.T) {
		err := errs.Wrap(errs.Mark(errors.New("boom"), errs.ErrVerificationFailed), "verify")
		assert.True(t, errs.Is(err, errs.ErrVerificationFailed))
		assert.Nil(t, errs.Wrap(nil, "ignored"))
	})
}

func TestHumanReason(t *testing.T) {
	err := errs.WithReason(errs.New("gateway said no"), "Your bank declined the payment")
	assert.Equal(t, "Your bank declined the payment", errs.HumanReason(err))
	assert.Equal(t, "plain", errs.HumanReason(errs.New("plain")))
	assert.Empty(t, errs.HumanReason(nil))
}

func TestExtractStackLines(t *testing.T) {
	lines := errs.ExtractStackLines(errs.New("stacked"), 3)
	assert.Len(t, lines, 3)
	assert.Nil(t, errs.ExtractStackLines(nil, 3))
}
