package bootstrap

import (
	"venue-booking-gateway/internal/pkg/config"

	"go.uber.org/fx"
)

// ConfigModule exposes the log section on its own so LoggerModule serves both binaries.
var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.LogConfig { return cfg.Log },
	),
)

var sandboxConfigModule = fx.Module("sandbox/config",
	fx.Provide(
		config.LoadSandboxConfig,
		func(cfg config.SandboxConfig) config.LogConfig { return cfg.Log },
	),
)
