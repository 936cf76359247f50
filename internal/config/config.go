// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Engine   EngineConfig   `yaml:"engine" mapstructure:"engine"`
	Feeds    FeedsConfig    `yaml:"feeds" mapstructure:"feeds"`
	Places   PlacesConfig   `yaml:"places" mapstructure:"places"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// EngineConfig configures the grouping engine.
type EngineConfig struct {
	// Sentinels are textual values upstream exports use to mean "absent".
	Sentinels []string `yaml:"sentinels" mapstructure:"sentinels"`
	// Mode is the default grouping mode: "exact" or "base".
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// FeedsConfig configures feed ingestion.
type FeedsConfig struct {
	// AdapterFile optionally points at a YAML adapter-set overriding the
	// compiled-in per-feed projections.
	AdapterFile string `yaml:"adapter_file" mapstructure:"adapter_file"`
}

// PlacesConfig holds nearby-search provider settings.
type PlacesConfig struct {
	Key                 string  `yaml:"key" mapstructure:"key"`
	BaseURL             string  `yaml:"base_url" mapstructure:"base_url"`
	DefaultRadiusMeters int     `yaml:"default_radius_meters" mapstructure:"default_radius_meters"`
	RateLimitPerSec     float64 `yaml:"rate_limit_per_sec" mapstructure:"rate_limit_per_sec"`
}

// ClassifyConfig holds classification provider settings.
type ClassifyConfig struct {
	AnthropicKey string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	Model        string `yaml:"model" mapstructure:"model"`
	// Offline forces the keyword rule classifier regardless of credentials.
	Offline bool `yaml:"offline" mapstructure:"offline"`
}

// CacheConfig configures the request-layer TTL cache.
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CARENAV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("engine.sentinels", []string{"null"})
	v.SetDefault("engine.mode", "exact")
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("places.default_radius_meters", 5000)
	v.SetDefault("places.rate_limit_per_sec", 5.0)
	v.SetDefault("classify.model", "claude-haiku-4-5-20251001")
	v.SetDefault("cache.ttl_seconds", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
