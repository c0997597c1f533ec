// Package config loads toolkit configuration from YAML and environment.
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
	Ingest IngestConfig `yaml:"ingest" mapstructure:"ingest"`
	Sample SampleConfig `yaml:"sample" mapstructure:"sample"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// IngestConfig configures tabular and shapefile ingestion.
type IngestConfig struct {
	TypeLabel    string `yaml:"type_label" mapstructure:"type_label"`
	IDColumn     string `yaml:"id_column" mapstructure:"id_column"`
	Sheet        string `yaml:"sheet" mapstructure:"sheet"`
	KeepExisting bool   `yaml:"keep_existing" mapstructure:"keep_existing"`
	Concurrency  int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// SampleConfig configures random sampling.
type SampleConfig struct {
	Seed int64 `yaml:"seed" mapstructure:"seed"`
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
	v.SetEnvPrefix("ASSETINV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ingest.type_label", "building")
	v.SetDefault("ingest.concurrency", 4)
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
