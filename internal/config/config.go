package config

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zhubert/moodring/internal/errors"
)

// Configuration keys. These are the YAML keys in the config file; the
// environment form is MOODRING_ followed by the upper-cased key.
const (
	KeyServerURL            = "server_url"
	KeyTheme                = "theme"
	KeyNotificationsEnabled = "notifications_enabled"
	KeyRequestTimeout       = "request_timeout"
	KeyLogFile              = "log_file"
)

// Defaults
const (
	DefaultServerURL      = "http://localhost:8000"
	DefaultTheme          = "dark-purple"
	DefaultRequestTimeout = 60 * time.Second
	EnvPrefix             = "MOODRING"
)

// Flag names bound onto configuration keys when present in the flag set.
var flagBindings = map[string]string{
	KeyServerURL: "server",
	KeyTheme:     "theme",
	KeyLogFile:   "log-file",
}

// Config holds the application configuration
type Config struct {
	ServerURL            string
	Theme                string
	NotificationsEnabled bool
	RequestTimeout       time.Duration // zero disables the deadline
	LogFile              string

	mu       sync.RWMutex
	filePath string
}

// LoadOptions controls where Load reads from.
type LoadOptions struct {
	// Path is an explicit config file. Empty means ~/.moodring/config.yaml.
	Path string
	// EnvFile is a dotenv file loaded into the environment before reading
	// MOODRING_* variables. Empty means ".env"; a missing file is ignored.
	EnvFile string
	// Flags, when set, override file and environment values for the flags
	// the user actually passed.
	Flags *pflag.FlagSet
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".moodring"), nil
}

// DefaultPath returns the config file used when no --config is given.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default returns a config holding only built-in defaults.
func Default() *Config {
	return &Config{
		ServerURL:      DefaultServerURL,
		Theme:          DefaultTheme,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Load layers defaults, the config file, the environment and flags, in
// increasing order of precedence. A missing config file is not an error.
func Load(opts LoadOptions) (*Config, error) {
	path := opts.Path
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.ConfigLoadFailed("~/.moodring", err)
		}
		path = p
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return nil, errors.ConfigLoadFailed(envFile, err)
	}

	v := viper.New()
	v.SetDefault(KeyServerURL, DefaultServerURL)
	v.SetDefault(KeyTheme, DefaultTheme)
	v.SetDefault(KeyNotificationsEnabled, false)
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(KeyLogFile, "")

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) && !stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.ConfigLoadFailed(path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range flagBindings {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.ConfigLoadFailed(path, err)
				}
			}
		}
	}

	cfg := &Config{
		ServerURL:            strings.TrimSpace(v.GetString(KeyServerURL)),
		Theme:                v.GetString(KeyTheme),
		NotificationsEnabled: v.GetBool(KeyNotificationsEnabled),
		RequestTimeout:       v.GetDuration(KeyRequestTimeout),
		LogFile:              v.GetString(KeyLogFile),
		filePath:             path,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the server URL is an absolute http(s) URL and that
// the request timeout is not negative.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := ValidateServerURL(c.ServerURL); err != nil {
		return err
	}
	if c.RequestTimeout < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("request_timeout must not be negative, got %s", c.RequestTimeout))
	}
	if c.Theme == "" {
		return errors.ConfigInvalid("theme must not be empty")
	}
	return nil
}

// ValidateServerURL reports whether raw is usable as the chat server address.
func ValidateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("invalid server_url %q: %v", raw, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.ConfigInvalid(fmt.Sprintf("server_url %q must use http or https", raw))
	}
	if u.Host == "" {
		return errors.ConfigInvalid(fmt.Sprintf("server_url %q has no host", raw))
	}
	return nil
}

// Save writes the config file. Values that came from the environment or
// flags are written too, since Config no longer knows their origin.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.filePath == "" {
		return errors.ConfigSaveFailed("", fmt.Errorf("config has no file path"))
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}

	data, err := yaml.Marshal(fileForm{
		ServerURL:            c.ServerURL,
		Theme:                c.Theme,
		NotificationsEnabled: c.NotificationsEnabled,
		RequestTimeout:       c.RequestTimeout.String(),
		LogFile:              c.LogFile,
	})
	if err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return errors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// fileForm is the on-disk YAML layout. Durations are written as strings
// ("1m0s") so they read back through viper unchanged.
type fileForm struct {
	ServerURL            string `yaml:"server_url"`
	Theme                string `yaml:"theme"`
	NotificationsEnabled bool   `yaml:"notifications_enabled"`
	RequestTimeout       string `yaml:"request_timeout"`
	LogFile              string `yaml:"log_file,omitempty"`
}

// Path returns the file Save writes to.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// SetPath changes the file Save writes to.
func (c *Config) SetPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filePath = path
}

// GetServerURL returns the chat server address
func (c *Config) GetServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ServerURL
}

// SetServerURL sets the chat server address
func (c *Config) SetServerURL(serverURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerURL = strings.TrimSpace(serverURL)
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetRequestTimeout returns the per-request deadline; zero means none.
func (c *Config) GetRequestTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RequestTimeout
}

// GetLogFile returns the configured log path, or "" for the default.
func (c *Config) GetLogFile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LogFile
}
