//go:build unit

package reqid_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"venue-booking-gateway/internal/pkg/reqid"

	"github.com/stretchr/testify/assert"
)

func TestFromOrNew(t *testing.T) {
	assert.Equal(t, "req-1", reqid.FromOrNew(reqid.With(context.Background(), "req-1")))
	assert.Len(t, reqid.FromOrNew(context.Background()), 36)
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(reqid.NewLogHandler(slog.NewTextHandler(&buf, nil))).With("component", "test")

	logger.InfoContext(reqid.With(context.Background(), "req-42"), "tagged")
	assert.Contains(t, buf.String(), "request_id=req-42")
	assert.Contains(t, buf.String(), "component=test")

	buf.Reset()
	logger.InfoContext(context.Background(), "untagged")
	assert.NotContains(t, buf.String(), "request_id")
}
