// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Library LibraryConfig `toml:"library"`
	Auth    AuthConfig    `toml:"auth"`
	Tools   ToolsConfig   `toml:"tools"`
	History HistoryConfig `toml:"history"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type LibraryConfig struct {
	MediaPath     string `toml:"media_path"`
	PublicPrefix  string `toml:"public_prefix"`
	DataPath      string `toml:"data_path"`
	UploadLimitMB int64  `toml:"upload_limit_mb"`
}

type AuthConfig struct {
	Password string `toml:"password"`
}

type ToolsConfig struct {
	FFprobe string `toml:"ffprobe"`
	YTDLP   string `toml:"ytdlp"`
}

type HistoryConfig struct {
	Path string `toml:"path"` // empty disables the history log
}

// UploadLimitBytes returns the upload size limit in bytes.
func (c *Config) UploadLimitBytes() int64 {
	return c.Library.UploadLimitMB * 1024 * 1024
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Library.MediaPath == "" {
		cfg.Library.MediaPath = "./media"
	}
	if cfg.Library.PublicPrefix == "" {
		cfg.Library.PublicPrefix = "/media"
	}
	if cfg.Library.DataPath == "" {
		cfg.Library.DataPath = "./data/library.json"
	}
	if cfg.Library.UploadLimitMB == 0 {
		cfg.Library.UploadLimitMB = 16
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Library.UploadLimitMB < 1 {
		return fmt.Errorf("library.upload_limit_mb must be positive, got %d", c.Library.UploadLimitMB)
	}
	if c.Auth.Password == "" {
		return fmt.Errorf("auth.password is required")
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}

// Discover locates the config file. A ZONELIB_CONFIG override wins and must
// exist; otherwise the first hit among the search paths is used.
func Discover() (string, error) {
	if p := os.Getenv("ZONELIB_CONFIG"); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("ZONELIB_CONFIG=%s: %w", p, err)
		}
		return p, nil
	}

	candidates := searchPaths()
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no config file found (looked in %s)", strings.Join(candidates, ", "))
}

// searchPaths lists candidate locations in priority order: the working
// directory, the user config dir (XDG-aware), then the system dir.
func searchPaths() []string {
	paths := []string{"./config.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "zonelib", "config.toml"))
	}
	return append(paths, "/etc/zonelib/config.toml")
}
