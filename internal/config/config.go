package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/goutte-app/goutte/internal/infusion"
	"github.com/goutte-app/goutte/internal/validate"
)

const (
	appName        = "goutte"
	configFileName = "config.yaml"

	DefaultSoluteColor = "#007AFF"
	DefaultBloodColor  = "#FF3B30"
)

// Theme holds one color per mode.
type Theme struct {
	Solute string `yaml:"solute" validate:"omitempty,hexcolor"`
	Blood  string `yaml:"blood" validate:"omitempty,hexcolor"`
}

// Config represents the structure of the config file.
type Config struct {
	Mode          string   `yaml:"mode" validate:"required,infusion_mode"`
	Locale        string   `yaml:"locale" validate:"required,bcp47_language_tag"`
	Audio         bool     `yaml:"audio"`
	HapticCommand []string `yaml:"haptic_command" validate:"omitempty,dive,required"`
	Theme         Theme    `yaml:"theme"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Mode:   string(infusion.Solute),
		Locale: infusion.DefaultLocale.String(),
		Audio:  true,
		Theme: Theme{
			Solute: DefaultSoluteColor,
			Blood:  DefaultBloodColor,
		},
	}
}

// InitialMode returns the validated start-up mode.
func (c Config) InitialMode() infusion.Mode {
	m, err := infusion.ParseMode(c.Mode)
	if err != nil {
		return infusion.Solute
	}
	return m
}

// Color returns the configured color of a mode.
func (c Config) Color(m infusion.Mode) string {
	if m == infusion.Blood {
		return c.Theme.Blood
	}
	return c.Theme.Solute
}

// DefaultPath returns $XDG_CONFIG_HOME/goutte/config.yaml (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// Resolve expands a user-supplied path, falling back to DefaultPath when empty.
func Resolve(path string) (string, error) {
	if path == "" {
		return DefaultPath()
	}
	return expandTilde(path)
}

// Load reads the config file at path. A missing file yields Default().
// Absent fields keep their defaults; present fields must validate.
func Load(path string) (Config, error) {
	cfg := Default()
	logrus.Debug("Loading config file from: ", path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config yaml: %w", err)
	}
	applyThemeDefaults(&cfg)

	if err := validate.Struct(cfg); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logrus.Debug("Saving config file to: ", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // Config is not secret.
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func applyThemeDefaults(cfg *Config) {
	if cfg.Theme.Solute == "" {
		cfg.Theme.Solute = DefaultSoluteColor
	}
	if cfg.Theme.Blood == "" {
		cfg.Theme.Blood = DefaultBloodColor
	}
}

// expandTilde expands the tilde in a path to the user's home directory.
func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
