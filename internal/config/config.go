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
	Terms TermsConfig `yaml:"terms" mapstructure:"terms"`
	Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
	Batch BatchConfig `yaml:"batch" mapstructure:"batch"`
	Log   LogConfig   `yaml:"log" mapstructure:"log"`
}

// TermsConfig selects the term dictionary. An empty path uses the built-in one.
type TermsConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CacheConfig configures the normalization and query caches.
type CacheConfig struct {
	Enabled   bool `yaml:"enabled" mapstructure:"enabled"`
	FoldSize  int  `yaml:"fold_size" mapstructure:"fold_size"`
	QuerySize int  `yaml:"query_size" mapstructure:"query_size"`
}

// BatchConfig configures batch classification.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. With an empty path it
// looks for an optional legalname.yaml in the working directory; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("legalname")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("LEGALNAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("terms.path", "")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.fold_size", 100_000)
	v.SetDefault("cache.query_size", 1_000)
	v.SetDefault("batch.workers", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	var problems []string
	if c.Cache.Enabled {
		if c.Cache.FoldSize <= 0 {
			problems = append(problems, "cache.fold_size must be > 0")
		}
		if c.Cache.QuerySize <= 0 {
			problems = append(problems, "cache.query_size must be > 0")
		}
	}
	if c.Batch.Workers <= 0 {
		problems = append(problems, "batch.workers must be > 0")
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		problems = append(problems, `log.format must be "json" or "console"`)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
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
