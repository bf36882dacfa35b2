// Package crewgate is the root facade: a thin functional-options layer
// over the app builder for callers embedding the auth stack.
package crewgate

import (
	"github.com/crewgate/crewgate/app"
	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/internal/options"
	"go.uber.org/fx"
)

type App = app.App

func New(opts ...options.Option) (*App, error) {
	o := &options.Options{}
	for _, opt := range opts {
		opt(o)
	}

	builder := app.NewApp()

	if o.Config != nil {
		builder.WithConfig(o.Config)
	}
	if o.EnableDatabase {
		builder.WithDatabase(o.DatabaseModels...)
	}
	if o.EnableIdentity {
		builder.WithIdentity()
	}
	if o.EnableSessionCache {
		builder.WithSessionCache()
	}
	if o.EnableBlacklist {
		builder.WithBlacklist()
	}
	if o.EnableRateLimit {
		builder.WithRateLimit()
	}
	if o.EnableAuthGateway {
		builder.WithAuthGateway()
	}
	if o.EnableAuthAPI {
		builder.WithAuthAPI()
	}
	for _, opt := range o.ExtraFxOptions {
		if fxOpt, ok := opt.(fx.Option); ok {
			builder.WithFxOptions(fxOpt)
		}
	}

	return builder.Build()
}

func WithConfig(cfg *config.Config) options.Option {
	return options.WithConfig(cfg)
}

func WithDatabase(models ...any) options.Option {
	return options.WithDatabase(models...)
}

func WithIdentity() options.Option {
	return options.WithIdentity()
}

func WithSessionCache() options.Option {
	return options.WithSessionCache()
}

func WithBlacklist() options.Option {
	return options.WithBlacklist()
}

func WithRateLimit() options.Option {
	return options.WithRateLimit()
}

func WithAuthGateway() options.Option {
	return options.WithAuthGateway()
}

func WithAuthAPI() options.Option {
	return options.WithAuthAPI()
}

func WithFxOptions(fxOpts ...any) options.Option {
	return options.WithFxOptions(fxOpts...)
}
