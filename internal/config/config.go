// Package config loads nutrimirror settings from file, environment,
// and defaults, and supports hot reload of the remote endpoint.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	// UserID identifies the account in the remote store.
	UserID string `mapstructure:"user_id"`

	// DataDir holds the local database and logs.
	DataDir string `mapstructure:"data_dir"`

	// RemoteBaseURL is the remote store API root.
	RemoteBaseURL string `mapstructure:"remote_base_url"`

	// APIKey authenticates against the remote store.
	APIKey string `mapstructure:"api_key"`

	// RequestTimeout bounds each remote round trip.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// RetryMax is the transport-level retry count.
	RetryMax int `mapstructure:"retry_max"`

	// WriteWindowDays is the trailing period during which diary
	// entries are mirrored locally.
	WriteWindowDays int `mapstructure:"write_window_days"`

	// Restrictions are dietary restriction tags ("gluten", "nuts"...)
	// checked against consumed products.
	Restrictions []string `mapstructure:"restrictions"`

	// LogFile enables rotated file logging when non-empty.
	LogFile string `mapstructure:"log_file"`
}

// DatabasePath returns the local SQLite file location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "nutrimirror.db")
}

// Loader owns the viper instance so a Watch can rebuild the Config
// after the file changes on disk.
type Loader struct {
	v  *viper.Viper
	mu sync.Mutex
}

// NewLoader prepares a loader. path may be empty, in which case
// $HOME/.nutrimirror/config.yaml is used when present.
func NewLoader(path string) *Loader {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".nutrimirror"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("NUTRI")
	v.AutomaticEnv()

	setDefaults(v)
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	v.SetDefault("user_id", "")
	v.SetDefault("data_dir", filepath.Join(home, ".nutrimirror"))
	v.SetDefault("remote_base_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("request_timeout", 12*time.Second)
	v.SetDefault("retry_max", 0)
	v.SetDefault("write_window_days", 3)
	v.SetDefault("restrictions", []string{})
	v.SetDefault("log_file", "")
}

// Load reads the configuration. A missing config file is fine; the
// defaults and environment cover a fresh install.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Watch re-loads the configuration whenever the file changes and
// hands the fresh Config to onChange. Reload failures are silently
// dropped; the previous configuration stays in effect.
func (l *Loader) Watch(onChange func(*Config)) {
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := l.Load()
		if err != nil {
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// WriteDefault writes a commented starter config to path, refusing
// to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	starter := `# nutrimirror configuration
user_id: ""
remote_base_url: ""
api_key: ""
request_timeout: 12s
retry_max: 0
write_window_days: 3
restrictions: []
# log_file: nutrimirror.log
`
	if err := os.WriteFile(path, []byte(starter), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
