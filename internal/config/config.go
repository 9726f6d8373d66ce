package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
	"harmoniq/internal/eventbus"
	"harmoniq/internal/logging"
)

// Environment overrides
const (
	EnvAPIURL = "HARMONIQ_API_URL"
)

// Config represents the application configuration
type Config struct {
	Version    int             `toml:"version"`
	API        APISettings     `toml:"api"`
	Sync       SyncSettings    `toml:"sync"`
	Catalog    CatalogSettings `toml:"catalog"`
	Log        logging.Config  `toml:"log"`
	UISettings UISettings      `toml:"ui"`
}

// APISettings configures the backend client
type APISettings struct {
	BaseURL   string `toml:"base_url"`
	TimeoutMS int    `toml:"timeout_ms"`
	RetryMax  int    `toml:"retry_max"`
}

// SyncSettings configures the synchronizer
type SyncSettings struct {
	DebounceMS int `toml:"debounce_ms"`
}

// CatalogSettings configures item loading
type CatalogSettings struct {
	Concurrency int               `toml:"concurrency"`
	Endpoints   map[string]string `toml:"endpoints"` // category -> list endpoint
}

// UISettings represents UI-related configuration
type UISettings struct {
	AutosaveOnExit bool `toml:"autosave_on_exit"`
	ConfirmDelete  bool `toml:"confirm_delete"`
}

// Timeout is the per-request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutMS) * time.Millisecond
}

// Debounce is the persist delay
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Sync.DebounceMS) * time.Millisecond
}

// Endpoint resolves the list endpoint of a category, honouring overrides
func (c *Config) Endpoint(cat domain.Category) string {
	if ep, ok := c.Catalog.Endpoints[string(cat)]; ok && ep != "" {
		return ep
	}
	return cat.Endpoint()
}

// Validate checks the values a session cannot start without
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return herrors.ConfigInvalid("api.base_url is empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return herrors.ConfigInvalid(fmt.Sprintf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.TimeoutMS <= 0 {
		return herrors.ConfigInvalid("api.timeout_ms must be positive")
	}
	if c.API.RetryMax < 0 {
		return herrors.ConfigInvalid("api.retry_max must not be negative")
	}
	if c.Sync.DebounceMS < 0 {
		return herrors.ConfigInvalid("sync.debounce_ms must not be negative")
	}
	if c.Catalog.Concurrency <= 0 {
		return herrors.ConfigInvalid("catalog.concurrency must be positive")
	}
	for name := range c.Catalog.Endpoints {
		if _, ok := domain.ParseCategory(name); !ok {
			return herrors.ConfigInvalid(fmt.Sprintf("catalog.endpoints: unknown category %q", name))
		}
	}
	return nil
}

// ApplyEnv overlays environment overrides
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(logging.EnvLevel); v != "" {
		c.Log.Level = v
	}
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath is $XDG_CONFIG_HOME/harmoniq/config.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "harmoniq", "config.toml")
}

// NewConfigService creates a config service for the given path, or the default path when empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration from file. A missing file is created with defaults.
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cs.Save(cfg); err != nil {
			return nil, err
		}
		cs.publishLoaded()
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}
	cs.publishLoaded()
	return cfg, nil
}

func (cs *configService) publishLoaded() {
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	}
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, herrors.ConfigNotFound(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, herrors.Wrap(err, herrors.ErrCodeConfigInvalid, "failed to parse config").
			WithDetail("path", path)
	}

	if cfg.Catalog.Endpoints == nil {
		cfg.Catalog.Endpoints = make(map[string]string)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:   "http://localhost:8000",
			TimeoutMS: 10000,
			RetryMax:  2,
		},
		Sync: SyncSettings{
			DebounceMS: 800,
		},
		Catalog: CatalogSettings{
			Concurrency: 5,
			Endpoints:   make(map[string]string),
		},
		Log: logging.Config{
			Level:  "info",
			Format: "text",
			File:   "harmoniq.log",
		},
		UISettings: UISettings{
			AutosaveOnExit: true,
			ConfirmDelete:  true,
		},
	}
}
