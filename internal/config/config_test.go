package config

import (
	"encoding/base64"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "retain", cfg.DetailsPolicy)
	assert.Equal(t, 2*time.Second, cfg.SubmitEvery)
	assert.Equal(t, 1, cfg.SubmitBurst)
	assert.Equal(t, 2*time.Minute, cfg.SubmitTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.True(t, cfg.MaskInspection)

	enc, err := cfg.Encryption()
	require.NoError(t, err)
	assert.Nil(t, enc)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INTAKE_STORE", "redis")
	t.Setenv("INTAKE_REDIS_DB", "3")
	t.Setenv("INTAKE_DETAILS_POLICY", "reset")
	t.Setenv("INTAKE_LOG_LEVEL", "debug")
	t.Setenv("INTAKE_SESSION_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "reset", cfg.DetailsPolicy)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("INTAKE_REDIS_DB", "not-an-int")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parse env:"), err.Error())
}

func TestValidate(t *testing.T) {
	t.Setenv("INTAKE_STORE", "postgres")
	t.Setenv("INTAKE_DETAILS_POLICY", "forget")
	t.Setenv("INTAKE_SUBMIT_BURST", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INTAKE_STORE")
	assert.Contains(t, err.Error(), "INTAKE_DETAILS_POLICY")
	assert.Contains(t, err.Error(), "INTAKE_SUBMIT_BURST")
}

func TestEncryptionKeys(t *testing.T) {
	active := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("a", 32)))
	old := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("b", 32)))
	t.Setenv("INTAKE_ENCRYPTION_KEY", active)
	t.Setenv("INTAKE_ENCRYPTION_FALLBACK_KEYS", old)

	cfg, err := Load()
	require.NoError(t, err)
	enc, err := cfg.Encryption()
	require.NoError(t, err)
	require.NotNil(t, enc)
	assert.Len(t, enc.ActiveKey, 32)
	assert.Len(t, enc.FallbackKeys, 1)

	t.Setenv("INTAKE_ENCRYPTION_KEY", "c2hvcnQ=")
	_, err = Load()
	assert.ErrorContains(t, err, "INTAKE_ENCRYPTION_KEY")
}
