package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crewgate/crewgate/config"
	"github.com/crewgate/crewgate/services/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(driver, dsn string, autoMigrate bool) config.Config {
	return config.Config{
		Database: config.DatabaseConfig{
			Driver:      driver,
			DSN:         dsn,
			AutoMigrate: autoMigrate,
		},
	}
}

func newTestLogger() *logging.Service {
	logger, _ := logging.NewService(logging.Config{
		Level:      logging.Debug,
		Format:     "console",
		OutputPath: "stdout",
	})
	return logger
}

type CrewRecord struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255"`
}

func TestWithModels(t *testing.T) {
	t.Run("with single model", func(t *testing.T) {
		model := CrewRecord{}
		option := WithModels(model)

		assert.NotNil(t, option)
		assert.Len(t, option.models, 1)
		assert.Equal(t, model, option.models[0])
	})

	t.Run("with multiple models", func(t *testing.T) {
		model1 := CrewRecord{}
		model2 := &CrewRecord{}
		option := WithModels(model1, model2)

		assert.NotNil(t, option)
		assert.Len(t, option.models, 2)
	})

	t.Run("with no models", func(t *testing.T) {
		option := WithModels()

		assert.NotNil(t, option)
		assert.Len(t, option.models, 0)
	})
}

func TestProvideDatabase_SQLite(t *testing.T) {
	t.Run("in-memory connection", func(t *testing.T) {
		cfg := createTestConfig("sqlite", ":memory:", false)

		db, err := ProvideDatabase(cfg, nil, newTestLogger())

		assert.NoError(t, err)
		assert.NotNil(t, db)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.NoError(t, sqlDB.Ping())
		defer sqlDB.Close()
	})

	t.Run("file-based connection", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		cfg := createTestConfig("sqlite", dbPath, false)

		db, err := ProvideDatabase(cfg, nil, newTestLogger())

		assert.NoError(t, err)
		assert.NotNil(t, db)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		defer sqlDB.Close()

		_, err = os.Stat(dbPath)
		assert.NoError(t, err)
	})

	t.Run("auto-migration enabled with models", func(t *testing.T) {
		cfg := createTestConfig("sqlite", ":memory:", true)
		modelsOpt := WithModels(CrewRecord{})

		db, err := ProvideDatabase(cfg, modelsOpt, newTestLogger())

		assert.NoError(t, err)
		require.NotNil(t, db)

		assert.True(t, db.Migrator().HasTable(&CrewRecord{}))

		sqlDB, err := db.DB()
		require.NoError(t, err)
		defer sqlDB.Close()
	})

	t.Run("auto-migration disabled", func(t *testing.T) {
		cfg := createTestConfig("sqlite", ":memory:", false)
		modelsOpt := WithModels(CrewRecord{})

		db, err := ProvideDatabase(cfg, modelsOpt, newTestLogger())

		assert.NoError(t, err)
		require.NotNil(t, db)

		assert.False(t, db.Migrator().HasTable(&CrewRecord{}))

		sqlDB, err := db.DB()
		require.NoError(t, err)
		defer sqlDB.Close()
	})

	t.Run("invalid sqlite path", func(t *testing.T) {
		cfg := createTestConfig("sqlite", "/nonexistent/directory/test.db", false)

		db, err := ProvideDatabase(cfg, nil, newTestLogger())

		assert.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "failed to connect to database")
	})
}

func TestProvideDatabase_UnsupportedDriver(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		cfg := createTestConfig("unsupported", "test", false)

		db, err := ProvideDatabase(cfg, nil, newTestLogger())

		assert.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "unsupported database driver: unsupported")
		assert.Contains(t, err.Error(), "supported: sqlite, postgres, mysql")
	})

	t.Run("empty driver", func(t *testing.T) {
		cfg := createTestConfig("", "test", false)

		db, err := ProvideDatabase(cfg, nil, newTestLogger())

		assert.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})
}

func TestProvideDatabase_WithoutLogger(t *testing.T) {
	t.Run("connection without logger", func(t *testing.T) {
		cfg := createTestConfig("sqlite", ":memory:", false)

		db, err := ProvideDatabase(cfg, nil, nil)

		assert.NoError(t, err)
		require.NotNil(t, db)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.NoError(t, sqlDB.Ping())
		defer sqlDB.Close()
	})

	t.Run("error case without logger", func(t *testing.T) {
		cfg := createTestConfig("unsupported", "test", false)

		db, err := ProvideDatabase(cfg, nil, nil)

		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestProvideDatabase_AutoMigrationFailure(t *testing.T) {
	t.Run("model with unsupported field type", func(t *testing.T) {
		type invalidModel struct {
			ID      uint `gorm:"primaryKey"`
			Channel chan string
		}

		cfg := createTestConfig("sqlite", ":memory:", true)
		modelsOpt := WithModels(invalidModel{})

		db, err := ProvideDatabase(cfg, modelsOpt, newTestLogger())

		assert.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "failed to auto-migrate models")
	})
}

func TestProvideDatabase_MultipleModels(t *testing.T) {
	type VoyageRecord struct {
		ID    uint `gorm:"primaryKey"`
		Value string
	}

	cfg := createTestConfig("sqlite", ":memory:", true)
	modelsOpt := WithModels(CrewRecord{}, VoyageRecord{})

	db, err := ProvideDatabase(cfg, modelsOpt, newTestLogger())

	assert.NoError(t, err)
	require.NotNil(t, db)

	assert.True(t, db.Migrator().HasTable(&CrewRecord{}))
	assert.True(t, db.Migrator().HasTable(&VoyageRecord{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
}
