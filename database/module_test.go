package database

import (
	"testing"

	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/services/logging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func TestModule(t *testing.T) {
	t.Run("provides a database through fx", func(t *testing.T) {
		app := fx.New(
			Module,
			fx.Provide(func() *config.Config {
				cfg := createTestConfig("sqlite", ":memory:", false)
				return &cfg
			}),
			fx.Provide(func() *logging.Service {
				return newTestLogger()
			}),
			fx.Provide(func() *ModelsOption {
				return nil
			}),
			fx.NopLogger,
			fx.Invoke(func(db *gorm.DB) {
				assert.NotNil(t, db)
			}),
		)

		assert.NoError(t, app.Err())
	})
}

func TestProvideDatabaseFx(t *testing.T) {
	t.Run("successful provision", func(t *testing.T) {
		cfg := createTestConfig("sqlite", ":memory:", false)

		db, err := ProvideDatabaseFx(&cfg, nil, newTestLogger())

		assert.NoError(t, err)
		assert.NotNil(t, db)
	})

	t.Run("error propagates", func(t *testing.T) {
		cfg := createTestConfig("unsupported", "test", false)

		db, err := ProvideDatabaseFx(&cfg, nil, newTestLogger())

		assert.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("models migrate through fx", func(t *testing.T) {
		cfg := createTestConfig("sqlite", ":memory:", true)
		modelsOpt := WithModels(CrewRecord{})

		db, err := ProvideDatabaseFx(&cfg, modelsOpt, newTestLogger())

		assert.NoError(t, err)
		assert.NotNil(t, db)
		assert.True(t, db.Migrator().HasTable(&CrewRecord{}))
	})
}
