package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the runtime parameters of the API process.
type Config struct {
	HTTPAddress         string        `mapstructure:"http_address"`
	LogLevel            string        `mapstructure:"log_level"`
	DatabaseURL         string        `mapstructure:"database_url"`
	RedisURL            string        `mapstructure:"redis_url"`
	JWTSecret           string        `mapstructure:"jwt_secret"`
	TokenTTL            time.Duration `mapstructure:"token_ttl"`
	UsersCacheTTL       time.Duration `mapstructure:"users_cache_ttl"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
}

const (
	defaultHTTPAddress         = "0.0.0.0:8080"
	defaultLogLevel            = "info"
	defaultRedisURL            = "redis://localhost:6379/0"
	defaultTokenTTL            = 7 * 24 * time.Hour
	defaultUsersCacheTTL       = 30 * time.Second
	defaultShutdownGracePeriod = 10 * time.Second
)

// Load reads configuration from the provided file path (if any) and the
// environment. Environment variables are prefixed with CHATAPP_ and override
// file values, e.g. CHATAPP_DATABASE_URL, CHATAPP_JWT_SECRET.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHATAPP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("http_address", defaultHTTPAddress)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("redis_url", defaultRedisURL)
	v.SetDefault("token_ttl", defaultTokenTTL.String())
	v.SetDefault("users_cache_ttl", defaultUsersCacheTTL.String())
	v.SetDefault("shutdown_grace_period", defaultShutdownGracePeriod.String())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	// Viper leaves durations as strings; normalize them here.
	for key, dst := range map[string]*time.Duration{
		"token_ttl":             &cfg.TokenTTL,
		"users_cache_ttl":       &cfg.UsersCacheTTL,
		"shutdown_grace_period": &cfg.ShutdownGracePeriod,
	} {
		dur, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = dur
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database_url is required (set CHATAPP_DATABASE_URL)")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt_secret is required (set CHATAPP_JWT_SECRET)")
	}

	return cfg, nil
}
