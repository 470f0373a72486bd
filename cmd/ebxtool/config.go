package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the ebxtool configuration file (~/.config/ebxtool/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Decoding and output
	MaxDepth   *int    `yaml:"max_depth"`
	GUIDFormat string  `yaml:"guid_format"`
	Indent     *string `yaml:"indent"`

	// Server
	ServerAddress string `yaml:"server_address"`
	CacheSize     *int   `yaml:"cache_size"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ebxtool", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyLoggingConfig applies config file defaults to the root logging flags
// when the corresponding CLI flag was not explicitly set.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

func applyDecodeConfig(c *cli.Command, cfg Config, s *decodeSettings) {
	if cfg.MaxDepth != nil && !c.IsSet("max-depth") {
		s.maxDepth = *cfg.MaxDepth
	}
	if cfg.GUIDFormat != "" && !c.IsSet("guid-format") {
		s.guidFormat = cfg.GUIDFormat
	}
}

func applyDumpConfig(c *cli.Command, cfg Config, indent *string) {
	if cfg.Indent != nil && !c.IsSet("indent") {
		*indent = *cfg.Indent
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, cacheSize *int) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.CacheSize != nil && !c.IsSet("cache-size") {
		*cacheSize = *cfg.CacheSize
	}
}
