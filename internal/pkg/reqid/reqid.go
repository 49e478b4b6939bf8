// Package reqid carries the inbound request id through a context so upstream calls
// and log lines made on behalf of a request can be correlated with it.
package reqid

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const Header = "X-Request-ID"

type ctxKey struct{}

func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func From(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromOrNew returns the id on ctx, or a fresh one.
func FromOrNew(ctx context.Context) string {
	if id := From(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

type logHandler struct {
	slog.Handler
}

// NewLogHandler adds a request_id attribute to every record logged with a context that carries one.
func NewLogHandler(h slog.Handler) slog.Handler {
	return logHandler{Handler: h}
}

func (h logHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := From(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return logHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h logHandler) WithGroup(name string) slog.Handler {
	return logHandler{Handler: h.Handler.WithGroup(name)}
}
