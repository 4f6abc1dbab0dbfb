package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries the server's runtime settings. The probe command does
// not read config; its target address is passed explicitly.
type Config struct {
	Listen ListenConf `mapstructure:"listen"`
	Status StatusConf `mapstructure:"status"`
	Log    LogConf    `mapstructure:"log"`
}

type ListenConf struct {
	Address string `mapstructure:"address"`
}

// StatusConf controls the optional HTTP status endpoint that runs
// alongside the TCP listener.
type StatusConf struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from mcpserver.yaml in the working directory
// (if present) and MCPSERVER_* environment variables, on top of defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("listen.address", "127.0.0.1:8080")
	v.SetDefault("status.enabled", false)
	v.SetDefault("status.address", "127.0.0.1:8081")
	v.SetDefault("log.level", "info")

	v.SetConfigName("mcpserver")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("mcpserver")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
