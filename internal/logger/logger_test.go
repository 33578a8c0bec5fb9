package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestLogger_RedactsSensitiveKeys(t *testing.T) {
	log, logs := observed()

	log.Info("request", "Authorization", "Bearer abc", "api_token", "xyz", "db_dsn", "host=db password=pw", "path", "/api/investments")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, redacted, fields["Authorization"])
	assert.Equal(t, redacted, fields["api_token"])
	assert.Equal(t, redacted, fields["db_dsn"])
	assert.Equal(t, "/api/investments", fields["path"])
}

func TestLogger_HashesTaxIDs(t *testing.T) {
	log, logs := observed()

	log.With("tax_id", "52998224725").Warn("investor not found")
	log.Warn("investor not found", "tax_id", "52998224725")

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0].ContextMap()["tax_id"]
	second := logs.All()[1].ContextMap()["tax_id"]
	assert.NotEqual(t, "52998224725", first)
	assert.Contains(t, first, "hash:")
	assert.Equal(t, first, second)
}

func TestLogger_OddKeyValuesAreKept(t *testing.T) {
	log, logs := observed()

	log.Error("dangling", "status", 500, "orphan")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		level   string
		wantErr bool
	}{
		{name: "Development default level", mode: "development"},
		{name: "Production debug", mode: "production", level: "debug"},
		{name: "Unknown mode falls back to development", mode: "weird", level: "warn"},
		{name: "Invalid level", mode: "production", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.mode, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log.SugaredLogger)
		})
	}
}
