package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 60*time.Minute, cfg.TokenValidity)
	assert.Equal(t, 10, cfg.LoginMaxAttempts)
	assert.Equal(t, time.Minute, cfg.LoginWindow)
	assert.Empty(t, cfg.SecretKey, "the signing secret must not have a default")
	assert.Empty(t, cfg.RedisAddr)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("TOKEN_VALIDITY_MINUTES", "15")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "5")
	t.Setenv("LOGIN_WINDOW_SECONDS", "30")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.TokenValidity)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.LoginWindow)
}

func TestParseEnv_UnparsableNumberIgnored(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY_MINUTES", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 60*time.Minute, cfg.TokenValidity)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-a", ":7070", "-s", "flag-secret", "-t", "5", "-w", "120"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "flag-secret", cfg.SecretKey)
	assert.Equal(t, 5*time.Minute, cfg.TokenValidity)
	assert.Equal(t, 120*time.Second, cfg.LoginWindow)
}

func TestParseJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"address": ":6060",
		"secret_key": "json-secret",
		"token_validity_minutes": 2,
		"s3_bucket": "todo-files"
	}`), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, ":6060", cfg.Addr)
	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, 2*time.Minute, cfg.TokenValidity)
	assert.Equal(t, "todo-files", cfg.S3Bucket)
	// untouched fields keep their defaults
	assert.Equal(t, "us-east-1", cfg.S3Region)
}

func TestParseJSON_NoFileConfigured(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, ":8080", cfg.Addr)
}
