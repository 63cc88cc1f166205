// Package config loads the ocictl configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no --config flag is
// given.
const EnvVar = "OCIGO_CONFIG"

// ErrNoConfig is returned by LoadFromEnv when no config file can be found.
var ErrNoConfig = errors.New("config: no config file found")

// Config is the ocictl configuration.
type Config struct {
	Client     ClientConfig     `toml:"client" yaml:"client"`
	Connection ConnectionConfig `toml:"connection" yaml:"connection"`
}

// ClientConfig selects the OCI client library and environment mode.
type ClientConfig struct {
	LibraryPath   string `toml:"library_path" yaml:"library_path"`
	EnableObjects bool   `toml:"enable_objects" yaml:"enable_objects"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
}

// ConnectionConfig holds the connect identifier and credentials. Password may
// reference an environment variable as $NAME or ${NAME}.
type ConnectionConfig struct {
	Address  string `toml:"address" yaml:"address"`
	Username string `toml:"username" yaml:"username"`
	Password string `toml:"password" yaml:"password"`
}

// Load reads the file at path. Files ending in .yaml or .yml are decoded as
// YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	return &cfg, nil
}

// LoadFromEnv loads the file named by OCIGO_CONFIG, falling back to
// ./ocictl.toml and ./ocictl.yaml.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		for _, p := range []string{"./ocictl.toml", "./ocictl.yaml", "./ocictl.yml"} {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return nil, fmt.Errorf("%w: set %s or pass --config", ErrNoConfig, EnvVar)
	}
	return Load(path)
}

// Validate reports missing connection settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Connection.Address == "" {
		errs = append(errs, errors.New("connection.address is required"))
	}
	if c.Connection.Username == "" {
		errs = append(errs, errors.New("connection.username is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	if c.Client.LogLevel == "" {
		c.Client.LogLevel = "info"
	}
}

func (c *Config) expandEnvVars() {
	c.Client.LibraryPath = os.ExpandEnv(c.Client.LibraryPath)
	c.Connection.Password = os.ExpandEnv(c.Connection.Password)
}
