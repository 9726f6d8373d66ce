package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
	"harmoniq/internal/eventbus"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 800*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.True(t, cfg.UISettings.AutosaveOnExit)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harmoniq", "config.toml")
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://planner.example.org"
	cfg.Sync.DebounceMS = 250
	cfg.Catalog.Endpoints["wind"] = "parceolien"
	require.NoError(t, svc.Save(cfg))

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://planner.example.org", loaded.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, loaded.Debounce())
	assert.Equal(t, "parceolien", loaded.Endpoint(domain.CategoryWind))
	assert.Equal(t, "solaire", loaded.Endpoint(domain.CategorySolar))
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sync]\ndebounce_ms = 100\n"), 0644))

	cfg, err := NewConfigService(path).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Sync.DebounceMS)
	assert.Equal(t, DefaultConfig().API, cfg.API)
	assert.NotNil(t, cfg.Catalog.Endpoints)
}

func TestLoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	bus := eventbus.New()
	defer bus.Close()

	var mu sync.Mutex
	var seen []domain.EventType
	bus.SubscribeAll(func(e eventbus.DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.Type())
	})

	cfg, err := NewConfigServiceWithBus(path, bus).Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.EventType{domain.EventConfigSaved, domain.EventConfigLoaded}, seen)
}

func TestLoadFromPathErrors(t *testing.T) {
	dir := t.TempDir()
	svc := NewConfigService(filepath.Join(dir, "config.toml"))

	_, err := svc.LoadFromPath(filepath.Join(dir, "missing.toml"))
	assert.True(t, herrors.Is(err, herrors.ErrCodeConfigNotFound))

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[api\nbase_url ="), 0644))
	_, err = svc.LoadFromPath(bad)
	assert.True(t, herrors.Is(err, herrors.ErrCodeConfigInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.API.BaseURL = "" }},
		{"relative url", func(c *Config) { c.API.BaseURL = "/api" }},
		{"zero timeout", func(c *Config) { c.API.TimeoutMS = 0 }},
		{"negative retries", func(c *Config) { c.API.RetryMax = -1 }},
		{"negative debounce", func(c *Config) { c.Sync.DebounceMS = -5 }},
		{"no concurrency", func(c *Config) { c.Catalog.Concurrency = 0 }},
		{"unknown category", func(c *Config) { c.Catalog.Endpoints["tidal"] = "maree" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, herrors.Is(err, herrors.ErrCodeConfigInvalid))
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://backend:9000")
	t.Setenv("HARMONIQ_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}
