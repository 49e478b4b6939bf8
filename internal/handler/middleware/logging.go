package middleware

import (
	"log/slog"
	"os"
	"regexp"
	"time"

	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/reqid"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "request_id"

// inbound ids longer than this, or with other characters, are replaced
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

type Logger struct {
	logger *slog.Logger
}

// NewLogger builds the process logger. Records logged with a request context carry its request_id.
func NewLogger(cfg config.LogConfig) *Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	timezone := time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.In(timezone).Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if gin.Mode() == gin.ReleaseMode {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(reqid.NewLogHandler(handler))
	slog.SetDefault(logger)
	return &Logger{logger: logger}
}

func (l *Logger) GetSlogLogger() *slog.Logger {
	return l.logger
}

// LoggingMiddleware assigns the request id (reusing a well-formed inbound X-Request-ID),
// puts it on the request context for upstream calls and logs the exchange.
func (l *Logger) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(reqid.Header)
		if !validRequestID.MatchString(id) {
			id = reqid.FromOrNew(c.Request.Context())
		}
		c.Set(requestIDKey, id)
		c.Header(reqid.Header, id)
		c.Request = c.Request.WithContext(reqid.With(c.Request.Context(), id))

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("client_ip", c.ClientIP()),
		}
		if bookingID := c.Param("id"); bookingID != "" {
			attrs = append(attrs, slog.String("booking_id", bookingID))
		}
		if orderID := c.Param("orderId"); orderID != "" {
			attrs = append(attrs, slog.String("order_id", orderID))
		}
		ctx := c.Request.Context()
		l.logger.LogAttrs(ctx, slog.LevelDebug, "Request started", attrs...)

		c.Next()

		status := c.Writer.Status()
		attrs = append(attrs,
			slog.Int("status_code", status),
			slog.Duration("duration", time.Since(start)),
		)
		if size := c.Writer.Size(); size > 0 {
			attrs = append(attrs, slog.Int("response_size", size))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		l.logger.LogAttrs(ctx, level, "Request completed", attrs...)
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
