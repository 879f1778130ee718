// Package config persists the CLI settings: organization URL, default
// project, the authenticated user's email and the personal access token.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	OrganizationURL string `yaml:"organization_url"`
	DefaultProject  string `yaml:"default_project"`
	UserEmail       string `yaml:"user_email"`
	PAT             string `yaml:"pat"`
}

// Path returns the settings file location, honoring XDG_CONFIG_HOME.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "azdo", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "azdo", "config.yaml"), nil
}

// Load reads the settings file and applies environment overrides. A missing
// file is not an error; env-only configurations are valid.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.OrganizationURL = envOrDefault("AZDO_ORG_URL", cfg.OrganizationURL)
	cfg.DefaultProject = envOrDefault("AZDO_PROJECT", cfg.DefaultProject)
	cfg.UserEmail = envOrDefault("AZDO_USER_EMAIL", cfg.UserEmail)
	cfg.PAT = envOrDefault("AZDO_PAT", cfg.PAT)
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Save writes the settings file, creating its directory when needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the remote commands can actually run.
func (c *Config) Validate() error {
	if c.OrganizationURL == "" {
		return fmt.Errorf("organization URL not configured (run 'azdo configure --org URL' or set AZDO_ORG_URL)")
	}
	if c.PAT == "" {
		return fmt.Errorf("personal access token not configured (run 'azdo configure --pat TOKEN' or set AZDO_PAT)")
	}
	return nil
}

// DisplayRows returns key/value pairs for the configure read table, with the
// token masked.
func (c *Config) DisplayRows() [][2]string {
	mask := ""
	if c.PAT != "" {
		mask = "***************"
	}
	return [][2]string{
		{"OrganizationUrl", c.OrganizationURL},
		{"DefaultProject", c.DefaultProject},
		{"UserEmail", c.UserEmail},
		{"PAT", mask},
	}
}
