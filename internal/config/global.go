// Package config loads sunbeam-release settings from
// ~/.sunbeam-release/config.yaml and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/canonical/sunbeam-release/internal/catalog"
	"github.com/canonical/sunbeam-release/internal/log"
	"github.com/canonical/sunbeam-release/internal/tool"
)

// Environment variables that override the config file.
const (
	EnvHome       = "SUNBEAM_RELEASE_HOME"
	EnvCatalog    = "SUNBEAM_RELEASE_CATALOG"
	EnvJobs       = "SUNBEAM_RELEASE_JOBS"
	EnvCharmcraft = "SUNBEAM_RELEASE_CHARMCRAFT"
	EnvSnap       = "SUNBEAM_RELEASE_SNAP"
	EnvSnapcraft  = "SUNBEAM_RELEASE_SNAPCRAFT"
)

// GlobalConfig holds settings from ~/.sunbeam-release/config.yaml.
type GlobalConfig struct {
	// DefaultRelease is used when --release is not given.
	DefaultRelease string `yaml:"default_release"`
	// Catalog is the path of a catalog file replacing the built-in one.
	Catalog string `yaml:"catalog,omitempty"`
	// Jobs is how many packages are checked at once.
	Jobs int `yaml:"jobs"`
	// Tools maps a tool name to a shell-quoted command, e.g. "sudo charmcraft".
	Tools map[string]string `yaml:"tools,omitempty"`
	Debug DebugConfig       `yaml:"debug"`
}

// DebugConfig holds debug logging settings.
type DebugConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

// DefaultGlobalConfig returns the default global configuration.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		DefaultRelease: "antelope",
		Jobs:           1,
		Debug: DebugConfig{
			RetentionDays: 14,
		},
	}
}

// LoadGlobal reads the config file, if any, and applies environment
// overrides. A malformed file is reported and the defaults are used.
func LoadGlobal() (*GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	path := filepath.Join(GlobalConfigDir(), "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Warn("ignoring malformed config file", "path", path, "error", err)
			cfg = DefaultGlobalConfig()
		}
	}

	if v := os.Getenv(EnvCatalog); v != "" {
		cfg.Catalog = v
	}
	if v := os.Getenv(EnvJobs); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			log.Warn("ignoring invalid jobs override", "env", EnvJobs, "value", v, "error", err)
		} else {
			cfg.Jobs = jobs
		}
	}
	for env, name := range map[string]string{
		EnvCharmcraft: tool.Charmcraft,
		EnvSnap:       tool.Snap,
		EnvSnapcraft:  tool.Snapcraft,
	} {
		if v := os.Getenv(env); v != "" {
			if cfg.Tools == nil {
				cfg.Tools = make(map[string]string)
			}
			cfg.Tools[name] = v
		}
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}

	return cfg, nil
}

// GlobalConfigDir returns $SUNBEAM_RELEASE_HOME or ~/.sunbeam-release.
func GlobalConfigDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".sunbeam-release")
	}
	return filepath.Join(homeDir, ".sunbeam-release")
}

// DebugDir returns the directory holding debug log files.
func DebugDir() string {
	return filepath.Join(GlobalConfigDir(), "debug")
}

// ToolSet returns the commands used to invoke each external tool.
func (c *GlobalConfig) ToolSet() (tool.Tools, error) {
	tools := tool.DefaultTools()
	for name, command := range c.Tools {
		if _, ok := tools[name]; !ok {
			return nil, fmt.Errorf("tools: unknown tool %q", name)
		}
		if err := tools.Set(name, command); err != nil {
			return nil, fmt.Errorf("tools: %w", err)
		}
	}
	return tools, nil
}

// LoadCatalog returns the configured catalog, or the built-in one when no
// catalog file is configured.
func (c *GlobalConfig) LoadCatalog() (*catalog.Catalog, error) {
	if c.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(c.Catalog)
}
