// Package config loads the build configuration from an optional YAML
// file and applies CARDHUB_* environment overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// DBPath is the sqlite database holding the UUID cache and the
	// built card tables.
	DBPath string `yaml:"db_path"`

	// InputDir holds the raw and auxiliary input batches as JSON files
	// (see internal/provider for the expected file names).
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the per-set JSON files and the CSV exports.
	OutputDir string `yaml:"output_dir"`

	// Sets restricts the build to the given set codes; empty means all.
	Sets []string `yaml:"sets"`

	// PrettyJSON indents the per-set JSON output.
	PrettyJSON bool `yaml:"pretty_json"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`

	// ListenAddr is the api-server bind address.
	ListenAddr string `yaml:"listen_addr"`

	// AdminSecret signs admin JWTs; AdminPasswordHash is the bcrypt
	// hash the /admin/token endpoint checks against.
	AdminSecret       string `yaml:"admin_secret"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return Config{
		DBPath:     filepath.Join(home, ".cardhub", "data.db"),
		InputDir:   "data/in",
		OutputDir:  "data/out",
		ListenAddr: ":8080",
	}
}

// Load reads the YAML file at path (skipped when path is empty or the
// file does not exist) and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CARDHUB_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("CARDHUB_INPUT_DIR"); v != "" {
		c.InputDir = v
	}
	if v := os.Getenv("CARDHUB_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("CARDHUB_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("CARDHUB_ADMIN_SECRET"); v != "" {
		c.AdminSecret = v
	}
	if v := os.Getenv("CARDHUB_ADMIN_PASSWORD_HASH"); v != "" {
		c.AdminPasswordHash = v
	}
	if v := os.Getenv("CARDHUB_VERBOSE"); v == "1" || v == "true" {
		c.Verbose = true
	}
}
