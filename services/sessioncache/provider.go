package sessioncache

import (
	"fmt"

	"github.com/alexedwards/scs/v2"
	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type OptionalDB struct {
	fx.In
	DB *gorm.DB `optional:"true"`
}

func ProvideStore(cfg *config.Config, optDB OptionalDB) (scs.Store, error) {
	switch cfg.Session.Store {
	case "database":
		if optDB.DB == nil {
			return nil, fmt.Errorf("session store %q requires a database", cfg.Session.Store)
		}
		return NewDatabaseStore(optDB.DB)
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported session store type: %s (supported: memory, database)", cfg.Session.Store)
	}
}

func ProvideSessionService(cfg *config.Config, store scs.Store, logger *logging.Service) *Service {
	return NewService(cfg, store, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideStore),
	fx.Provide(ProvideSessionService),
)
