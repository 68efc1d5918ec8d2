package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyplan/internal/llm"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", env(map[string]string{"XDG_CONFIG_HOME": t.TempDir()}))
	require.NoError(t, err)

	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, DefaultSessionKey, cfg.SessionKey)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.LLM.Enabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studyplan", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
store: redis
session: alice
redis:
  addr: cache:6379
  db: 2
log:
  level: debug
serve:
  addr: ":9000"
  allow_origins: ["http://localhost:5173"]
llm:
  provider: mock
  timeout: 5s
`), 0o644))

	cfg, err := Load("", env(map[string]string{
		"XDG_CONFIG_HOME":     dir,
		"STUDYPLAN_SESSION":   "bob",
		"STUDYPLAN_REDIS_DB":  "4",
		"STUDYPLAN_LOG_LEVEL": "info",
	}))
	require.NoError(t, err)

	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "bob", cfg.SessionKey, "env overrides file")
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Redis.DB)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Serve.AllowOrigins)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts, "unset nested fields keep defaults")
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), env(nil))
	assert.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("stor: sqlite\n"), 0o644))

	tests := []struct {
		name string
		path string
		env  map[string]string
	}{
		{"unknown field", bad, nil},
		{"unknown store", "", map[string]string{"XDG_CONFIG_HOME": dir, "STUDYPLAN_STORE": "postgres"}},
		{"bad redis db", "", map[string]string{"XDG_CONFIG_HOME": dir, "STUDYPLAN_REDIS_DB": "two"}},
		{"llm without key", "", map[string]string{"XDG_CONFIG_HOME": dir, "STUDYPLAN_LLM_PROVIDER": "anthropic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, env(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ConfigEnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: memory\n"), 0o644))

	cfg, err := Load("", env(map[string]string{"STUDYPLAN_CONFIG": path}))
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
}
