package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"V2C_CONFIG_PATH", "V2C_SERVER_HOST", "V2C_SERVER_PORT", "V2C_TRANSPORT_MODE",
		"V2C_DB_PATH", "V2C_LOG_LEVEL", "V2C_LOG_PATH", "V2C_AI_API_KEY", "API_KEY",
		"V2C_AI_MODEL", "V2C_SPEECH_API_KEY", "V2C_TRANSLATE_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 5000, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Empty(t, cfg.DB.Path)
	require.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	require.Equal(t, int64(16<<20), cfg.Upload.MaxBytes)
	require.Equal(t, 60, cfg.AI.RequestsPerMinute)
	require.Contains(t, cfg.Languages.Voice, "ta")
	require.Equal(t, "C++", cfg.Languages.Programming["cpp"])
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "v2c.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
db:
  path: /tmp/v2c.db
ai:
  api_key: from-file
  timeout: 5s
languages:
  voice: [en, fr]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "/tmp/v2c.db", cfg.DB.Path)
	require.Equal(t, 5*time.Second, cfg.AI.Timeout)
	require.Equal(t, []string{"en", "fr"}, cfg.Languages.Voice)
	require.Equal(t, "from-file", cfg.Speech.APIKey, "speech key falls back to AI key")
	require.Equal(t, "from-file", cfg.Translate.APIKey)
	require.Equal(t, "Python", cfg.Languages.Programming["python"], "defaults survive partial files")
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("V2C_SERVER_PORT", "7000")
	t.Setenv("V2C_TRANSPORT_MODE", "stdio")
	t.Setenv("API_KEY", "legacy")
	t.Setenv("V2C_SPEECH_API_KEY", "speech")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "legacy", cfg.AI.APIKey)
	require.Equal(t, "speech", cfg.Speech.APIKey)
	require.Equal(t, "legacy", cfg.Translate.APIKey)

	t.Setenv("V2C_AI_API_KEY", "preferred")
	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, "preferred", cfg.AI.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	t.Setenv("V2C_SERVER_PORT", "abc")
	_, err := Load("")
	require.ErrorContains(t, err, "V2C_SERVER_PORT")

	t.Setenv("V2C_SERVER_PORT", "")
	t.Setenv("V2C_TRANSPORT_MODE", "carrier-pigeon")
	_, err = Load("")
	require.ErrorContains(t, err, "transport mode")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config file")
}
