package blacklist

import (
	"context"

	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OptionalDB struct {
	fx.In
	DB *gorm.DB `optional:"true"`
}

func ProvideStore(cfg *config.Config, logger *logging.Service, optDB OptionalDB) (Store, error) {
	if optDB.DB != nil {
		if err := optDB.DB.AutoMigrate(&RevokedCredential{}, &IssuedRefresh{}); err != nil {
			if logger != nil {
				logger.Error("failed to migrate blacklist tables, using memory-only store", zap.Error(err))
			}
			return NewMemoryStore(), nil
		}
		return NewMemoryStoreWithDB(optDB.DB, logger), nil
	}

	return NewMemoryStore(), nil
}

func ProvideBlacklistService(cfg *config.Config, store Store, logger *logging.Service) *Service {
	return NewService(cfg, store, logger)
}

func StartCleanupWorker(cfg *config.Config, svc *Service) {
	svc.StartCleanupWorker(cfg.Blacklist.CleanupPeriod)
}

func SetupPersistence(lc fx.Lifecycle, store Store, logger *logging.Service) {
	memStore, ok := store.(*MemoryStore)
	if !ok {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := memStore.LoadFromDatabase(); err != nil {
				if logger != nil {
					logger.Error("failed to load blacklist from database on startup", zap.Error(err))
				}
				return err
			}
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(ProvideStore),
	fx.Provide(ProvideBlacklistService),
	fx.Invoke(StartCleanupWorker),
	fx.Invoke(SetupPersistence),
)
