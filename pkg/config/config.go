// Package config manages persistent CLI settings stored under
// ~/.config/archlinux-ai-cli/config.yaml.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	appDirName = "archlinux-ai-cli"

	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-2.5-flash"

	defaultHistoryLimit = 50
)

type Config struct {
	Model        string `mapstructure:"model" yaml:"model,omitempty"`
	Wiki         bool   `mapstructure:"wiki" yaml:"wiki"`
	HistoryLimit int    `mapstructure:"history_limit" yaml:"history_limit,omitempty"`
}

// dirOverride redirects all paths, used by tests
var dirOverride string

// Dir returns the configuration directory, honoring XDG_CONFIG_HOME
func Dir() string {
	if dirOverride != "" {
		return dirOverride
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appDirName
	}
	return filepath.Join(home, ".config", appDirName)
}

// Path returns the config file location
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// KeyFilePath returns the fallback API key file location
func KeyFilePath() string {
	return filepath.Join(Dir(), "api_key")
}

// HistoryPath returns the conversation history file location
func HistoryPath() string {
	return filepath.Join(Dir(), "history.json")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(Path())

	v.SetDefault("model", DefaultModel)
	v.SetDefault("wiki", true)
	v.SetDefault("history_limit", defaultHistoryLimit)

	v.SetEnvPrefix("ARCHLINUX_AI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Missing config file falls back to defaults
	_ = v.ReadInConfig()
	return v
}

func Load() (*Config, error) {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &cfg, nil
}

func Get(key string) (string, error) {
	v := newViper()
	switch key {
	case "model":
		return v.GetString(key), nil
	case "wiki":
		return strconv.FormatBool(v.GetBool(key)), nil
	case "history_limit":
		return strconv.Itoa(v.GetInt(key)), nil
	default:
		return "", fmt.Errorf("unknown config key: %s (valid: model, wiki, history_limit)", key)
	}
}

func Set(key, value string) error {
	cfg, err := Load()
	if err != nil {
		cfg = &Config{Model: DefaultModel, Wiki: true, HistoryLimit: defaultHistoryLimit}
	}

	switch key {
	case "model":
		cfg.Model = value
	case "wiki":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("wiki must be true or false, got %q", value)
		}
		cfg.Wiki = b
	case "history_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("history_limit must be a positive integer, got %q", value)
		}
		cfg.HistoryLimit = n
	default:
		return fmt.Errorf("unknown config key: %s (valid: model, wiki, history_limit)", key)
	}

	return Save(cfg)
}

func All() map[string]string {
	v := newViper()
	return map[string]string{
		"model":         v.GetString("model"),
		"wiki":          strconv.FormatBool(v.GetBool("wiki")),
		"history_limit": strconv.Itoa(v.GetInt("history_limit")),
	}
}

// Save writes the full config to disk
func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(Path(), buf.Bytes(), 0o644)
}

// SetDirForTest redirects the config directory (only use in tests)
func SetDirForTest(dir string) {
	dirOverride = dir
}
