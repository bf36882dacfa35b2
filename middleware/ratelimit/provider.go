package ratelimit

import (
	"github.com/crewgate/crewgate/config"
	"go.uber.org/fx"
)

func ProvideStore(cfg *config.Config) Store {
	return NewStore(cfg.RateLimit.Store)
}

var Module = fx.Options(
	fx.Provide(ProvideStore),
	fx.Provide(NewLimiter),
)
