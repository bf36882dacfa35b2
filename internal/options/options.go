package options

import (
	"github.com/crewgate/crewgate/config"
)

type Options struct {
	Config             *config.Config
	EnableDatabase     bool
	DatabaseModels     []any
	EnableIdentity     bool
	EnableSessionCache bool
	EnableBlacklist    bool
	EnableRateLimit    bool
	EnableAuthGateway  bool
	EnableAuthAPI      bool
	ExtraFxOptions     []any
}

type Option func(*Options)

func WithConfig(cfg *config.Config) Option {
	return func(opts *Options) {
		opts.Config = cfg
	}
}

func WithDatabase(models ...any) Option {
	return func(opts *Options) {
		opts.EnableDatabase = true
		opts.DatabaseModels = models
	}
}

func WithIdentity() Option {
	return func(opts *Options) {
		opts.EnableIdentity = true
	}
}

func WithSessionCache() Option {
	return func(opts *Options) {
		opts.EnableSessionCache = true
	}
}

func WithBlacklist() Option {
	return func(opts *Options) {
		opts.EnableBlacklist = true
	}
}

func WithRateLimit() Option {
	return func(opts *Options) {
		opts.EnableRateLimit = true
	}
}

func WithAuthGateway() Option {
	return func(opts *Options) {
		opts.EnableAuthGateway = true
	}
}

func WithAuthAPI() Option {
	return func(opts *Options) {
		opts.EnableAuthAPI = true
	}
}

func WithFxOptions(fxOpts ...any) Option {
	return func(opts *Options) {
		opts.ExtraFxOptions = append(opts.ExtraFxOptions, fxOpts...)
	}
}
