package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewService(t *testing.T) {
	t.Run("default configuration", func(t *testing.T) {
		config := Config{
			Level:      Info,
			Format:     "json",
			OutputPath: "stdout",
		}

		service, err := NewService(config)

		require.NoError(t, err)
		assert.NotNil(t, service)
		assert.NotNil(t, service.logger)
		assert.NotNil(t, service.sugar)
	})

	t.Run("console format", func(t *testing.T) {
		config := Config{
			Level:      Debug,
			Format:     "console",
			OutputPath: "stdout",
		}

		service, err := NewService(config)

		require.NoError(t, err)
		assert.NotNil(t, service)
	})

	t.Run("file output", func(t *testing.T) {
		tempDir := t.TempDir()
		logFile := filepath.Join(tempDir, "test.log")

		config := Config{
			Level:      Warn,
			Format:     "json",
			OutputPath: logFile,
		}

		service, err := NewService(config)

		require.NoError(t, err)
		assert.NotNil(t, service)

		service.Warn("test log entry")
		service.Sync()

		_, err = os.Stat(logFile)
		assert.NoError(t, err)
	})
}

func TestService_Logger(t *testing.T) {
	t.Run("valid service", func(t *testing.T) {
		config := Config{Level: Info, Format: "json", OutputPath: "stdout"}
		service, err := NewService(config)
		require.NoError(t, err)

		assert.NotNil(t, service.Logger())
	})

	t.Run("nil service", func(t *testing.T) {
		var service *Service

		assert.Nil(t, service.Logger())
	})
}

func TestService_Sugar(t *testing.T) {
	t.Run("valid service", func(t *testing.T) {
		config := Config{Level: Info, Format: "json", OutputPath: "stdout"}
		service, err := NewService(config)
		require.NoError(t, err)

		assert.NotNil(t, service.Sugar())
	})

	t.Run("nil service", func(t *testing.T) {
		var service *Service

		assert.Nil(t, service.Sugar())
	})
}

func TestService_LoggingMethods(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	service := &Service{
		logger: logger,
		sugar:  logger.Sugar(),
	}

	t.Run("Debug", func(t *testing.T) {
		service.Debug("debug message", zap.String("key", "value"))

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
		assert.Equal(t, "debug message", logs[0].Message)
	})

	t.Run("Info", func(t *testing.T) {
		service.Info("info message", zap.String("key", "value"))

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
		assert.Equal(t, "info message", logs[0].Message)
	})

	t.Run("Warn", func(t *testing.T) {
		service.Warn("warn message", zap.String("key", "value"))

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
		assert.Equal(t, "warn message", logs[0].Message)
	})

	t.Run("Error", func(t *testing.T) {
		service.Error("error message", zap.String("key", "value"))

		logs := recorded.TakeAll()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
		assert.Equal(t, "error message", logs[0].Message)
	})
}

func TestService_NilSafety(t *testing.T) {
	t.Run("nil service methods don't panic", func(t *testing.T) {
		var service *Service

		assert.NotPanics(t, func() {
			service.Debug("test")
			service.Info("test")
			service.Warn("test")
			service.Error("test")
			service.Sync()
		})
	})

	t.Run("service with nil logger", func(t *testing.T) {
		service := &Service{logger: nil, sugar: nil}

		assert.NotPanics(t, func() {
			service.Debug("test")
			service.Info("test")
			service.Warn("test")
			service.Error("test")
			service.Sync()
		})
	})
}

func TestService_Sync(t *testing.T) {
	t.Run("nil service", func(t *testing.T) {
		var service *Service

		assert.NoError(t, service.Sync())
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zapcore.Level
	}{
		{Debug, zapcore.DebugLevel},
		{Info, zapcore.InfoLevel},
		{Warn, zapcore.WarnLevel},
		{Error, zapcore.ErrorLevel},
		{LogLevel("unknown"), zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			result := parseLogLevel(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
