package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates runtime configuration for the client.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Authz   AuthzConfig
	Logger  LoggerConfig
}

// APIConfig controls how the backend is reached.
type APIConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
	LoginPath             string
}

// SessionConfig controls token persistence.
type SessionConfig struct {
	TokenPath string
}

// AuthzConfig controls the authorization poll loop.
type AuthzConfig struct {
	PollIntervalSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from an optional yaml file and the
// environment, applying defaults so the client works with no config at
// all.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")
	v.AutomaticEnv()

	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.request_timeout_seconds", 0)
	v.SetDefault("api.login_path", "/login")
	v.SetDefault("session.token_path", defaultTokenPath())
	v.SetDefault("authz.poll_interval_seconds", 30)
	v.SetDefault("logger.level", "info")

	// Config file is optional; only a present-but-broken file is fatal.
	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:               v.GetString("api.base_url"),
			RequestTimeoutSeconds: v.GetInt("api.request_timeout_seconds"),
			LoginPath:             v.GetString("api.login_path"),
		},
		Session: SessionConfig{
			TokenPath: v.GetString("session.token_path"),
		},
		Authz: AuthzConfig{
			PollIntervalSeconds: v.GetInt("authz.poll_interval_seconds"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
		},
	}

	return cfg, nil
}

// RequestTimeout returns the transport timeout; zero means none, a hung
// request stays pending until the transport itself gives up.
func (a APIConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PollInterval returns the authorization reconciliation interval.
func (a AuthzConfig) PollInterval() time.Duration {
	if a.PollIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.PollIntervalSeconds) * time.Second
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mattaxpro/token"
	}
	return filepath.Join(home, ".mattaxpro", "token")
}
