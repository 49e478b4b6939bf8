package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// ServeHTTP binds addr when the app starts and drains in-flight requests when it stops.
// Requests parked behind a credential renewal finish before the listener closes.
func ServeHTTP(lc fx.Lifecycle, name, addr string, engine *gin.Engine, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger.InfoContext(ctx, "listening", "server", name, "address", ln.Addr().String(), "mode", gin.Mode())
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped unexpectedly", "server", name, "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			logger.InfoContext(ctx, "shutting down", "server", name)
			return srv.Shutdown(ctx)
		},
	})
}
