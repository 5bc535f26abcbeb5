package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations.
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("unknown report format %q (want text or yaml)", c.Output.Format)
	}
	names := map[string]string{
		"material_name":     c.Palette.MaterialName,
		"color_image":       c.Palette.ColorImage,
		"rough_metal_image": c.Palette.RoughMetalImage,
		"emission_image":    c.Palette.EmissionImage,
	}
	for key, v := range names {
		if v == "" {
			return fmt.Errorf("palette.%s must not be empty", key)
		}
	}
	if c.Palette.ColorImage == c.Palette.RoughMetalImage ||
		c.Palette.ColorImage == c.Palette.EmissionImage ||
		c.Palette.RoughMetalImage == c.Palette.EmissionImage {
		return fmt.Errorf("palette image names must be distinct")
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./autopalette.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "AutoPalette")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "AutoPalette")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "autopalette")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "autopalette")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
