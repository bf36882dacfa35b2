package app

import (
	"fmt"

	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/database"
	"github.com/crewgate/crewgate/handlers/authapi"
	"github.com/crewgate/crewgate/middleware/authgate"
	"github.com/crewgate/crewgate/middleware/ratelimit"
	"github.com/crewgate/crewgate/server"
	"github.com/crewgate/crewgate/services/blacklist"
	"github.com/crewgate/crewgate/services/identity"
	"github.com/crewgate/crewgate/services/logging"
	"github.com/crewgate/crewgate/services/sessioncache"
	"github.com/crewgate/crewgate/services/token"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type AppBuilder struct {
	config    *config.Config
	services  map[string]bool
	models    []any
	fxOptions []fx.Option
	errors    []error
}

func NewApp() *AppBuilder {
	return &AppBuilder{
		services:  make(map[string]bool),
		models:    make([]any, 0),
		fxOptions: make([]fx.Option, 0),
		errors:    make([]error, 0),
	}
}

func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		b.addError("config cannot be nil")
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithAutoConfig() *AppBuilder {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		b.addError(fmt.Sprintf("failed to load config: %v", err))
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithDatabase(models ...any) *AppBuilder {
	b.services["database"] = true
	b.models = append(b.models, models...)
	return b
}

func (b *AppBuilder) WithIdentity() *AppBuilder {
	b.services["identity"] = true
	b.services["database"] = true
	b.models = append(b.models, &identity.User{})
	return b
}

func (b *AppBuilder) WithSessionCache() *AppBuilder {
	b.services["sessioncache"] = true
	return b
}

func (b *AppBuilder) WithBlacklist() *AppBuilder {
	b.services["blacklist"] = true
	return b
}

func (b *AppBuilder) WithRateLimit() *AppBuilder {
	b.services["ratelimit"] = true
	return b
}

// WithAuthGateway wires the credential gateway and security headers
// onto every route.
func (b *AppBuilder) WithAuthGateway() *AppBuilder {
	b.services["authgate"] = true
	b.services["sessioncache"] = true
	b.services["blacklist"] = true
	return b
}

// WithAuthAPI mounts the credential lifecycle endpoints and pulls in
// everything they need.
func (b *AppBuilder) WithAuthAPI() *AppBuilder {
	b.services["authapi"] = true
	return b.WithAuthGateway().WithRateLimit().WithIdentity()
}

func (b *AppBuilder) WithFxOptions(opts ...fx.Option) *AppBuilder {
	b.fxOptions = append(b.fxOptions, opts...)
	return b
}

func (b *AppBuilder) Build() (*App, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	if b.config == nil {
		if err := b.WithAutoConfig().validate(); err != nil {
			return nil, err
		}
	}

	logger, err := b.createLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := b.buildDatabase(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}

	fxOptions := b.buildFxOptions(db, logger)

	app := &App{
		config: b.config,
		logger: logger,
		db:     db,
	}

	fxOptions = append(fxOptions, fx.Invoke(func(srv *server.Server) {
		app.server = srv
	}))

	app.fx = fx.New(fxOptions...)

	return app, nil
}

func (b *AppBuilder) addError(msg string) {
	b.errors = append(b.errors, fmt.Errorf("%s", msg))
}

func (b *AppBuilder) validate() error {
	if len(b.errors) > 0 {
		return fmt.Errorf("configuration errors: %v", b.errors)
	}

	if b.services["identity"] && !b.services["database"] {
		b.services["database"] = true
	}

	if b.services["authapi"] && !b.services["authgate"] {
		return fmt.Errorf("auth API requires the auth gateway")
	}

	if b.config != nil && b.config.Session.Store == "database" && !b.services["database"] {
		return fmt.Errorf("database session store requires database support")
	}

	return nil
}

func (b *AppBuilder) createLogger() (*logging.Service, error) {
	if b.config == nil {
		return nil, fmt.Errorf("config required for logger creation")
	}

	return logging.NewService(logging.Config{
		Level:      logging.LogLevel(b.config.Log.Level),
		Format:     b.config.Log.Format,
		OutputPath: b.config.Log.Output,
	})
}

func (b *AppBuilder) buildDatabase(logger *logging.Service) (*gorm.DB, error) {
	if !b.services["database"] {
		return nil, nil
	}

	modelsOpt := &database.ModelsOption{}
	if len(b.models) > 0 {
		modelsOpt = database.WithModels(b.models...)
	}

	db, err := database.ProvideDatabase(*b.config, modelsOpt, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

func (b *AppBuilder) buildFxOptions(db *gorm.DB, logger *logging.Service) []fx.Option {
	var options []fx.Option

	options = append(options,
		fx.Supply(b.config),
		fx.Supply(logger),
		fx.NopLogger,
	)

	if db != nil {
		options = append(options, fx.Supply(db))
	}

	options = append(options, server.NewProvider())
	options = append(options, token.Module)

	if b.services["identity"] {
		options = append(options, identity.Module)
	}
	if b.services["sessioncache"] {
		options = append(options, sessioncache.Module)
	}
	if b.services["blacklist"] {
		options = append(options, blacklist.Module)
	}
	if b.services["ratelimit"] {
		options = append(options, ratelimit.Module)
	}
	if b.services["authgate"] {
		options = append(options, authgate.Module)
	}
	if b.services["authapi"] {
		options = append(options, authapi.Module)
	}

	options = append(options, b.fxOptions...)
	options = append(options, b.buildMiddlewareHooks()...)

	return options
}

// buildMiddlewareHooks registers global middleware and routes once the
// container has produced the server.
func (b *AppBuilder) buildMiddlewareHooks() []fx.Option {
	var hooks []fx.Option

	if b.services["authgate"] {
		hooks = append(hooks, fx.Invoke(func(srv *server.Server, gw *authgate.Gateway, logger *logging.Service) {
			srv.Use(logging.RequestLogger(logger))
			srv.Use(authgate.SecurityHeaders())
			srv.Use(gw.Middleware())
		}))
	}

	if b.services["authapi"] {
		hooks = append(hooks, fx.Invoke(func(srv *server.Server, handler *authapi.Handler) {
			handler.RegisterRoutes(srv.Echo())
		}))
	}

	return hooks
}
