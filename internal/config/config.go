// Package config handles the XDG configuration directory, file paths and
// settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Environments select logging output.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Settings are read from config.yaml and overridden by TASKDECK_* variables.
type Settings struct {
	// Env selects the log format: local (console), dev or prod (JSON).
	Env string `yaml:"env" env:"TASKDECK_ENV" env-default:"prod"`

	// APIURL is the REST backend base URL.
	APIURL string `yaml:"api_url" env:"TASKDECK_API_URL" env-default:"http://localhost:8000"`

	// Timeout bounds every backend call.
	Timeout time.Duration `yaml:"timeout" env:"TASKDECK_TIMEOUT" env-default:"5s"`

	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level" env:"TASKDECK_LOG_LEVEL" env-default:"warn"`

	// LocalOrder keeps same-column reorders local instead of persisting
	// the new position to the backend.
	LocalOrder bool `yaml:"local_order" env:"TASKDECK_LOCAL_ORDER" env-default:"false"`

	// OAuthScopes are requested by login.
	OAuthScopes []string `yaml:"oauth_scopes" env:"TASKDECK_OAUTH_SCOPES" env-separator:","`

	// ArticlePageSize is the default page size for article listings.
	ArticlePageSize int `yaml:"article_page_size" env:"TASKDECK_ARTICLE_PAGE_SIZE" env-default:"10"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings Settings
}

// New creates a new Config with the default or specified config directory
// and loads its settings.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.LoadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSettings reads config.yaml when present, then the environment.
func (c *Config) LoadSettings() error {
	var s Settings
	var err error
	if c.HasSettingsFile() {
		err = cleanenv.ReadConfig(c.SettingsPath(), &s)
	} else {
		err = cleanenv.ReadEnv(&s)
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	c.Settings = s
	return nil
}

// Validate checks settings that cleanenv cannot.
func (s Settings) Validate() error {
	switch s.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("invalid configuration: unknown env: %s", s.Env)
	}
	if s.APIURL == "" {
		return errors.New("invalid configuration: api_url is empty")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("invalid configuration: timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSettingsFile checks if config.yaml exists.
func (c *Config) HasSettingsFile() bool {
	_, err := os.Stat(c.SettingsPath())
	return err == nil
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
