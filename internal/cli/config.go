package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFile = "config.toml"

// Config holds settings read from the TOML config file. Command-line flags
// override every value.
//
//	cost_key = "h"
//	memoize = true
//	max_depth = 0
//	max_visits = 0
//
//	[server]
//	addr = "localhost:8080"
//	max_nodes = 100000
//	max_visits = 1000000
//
//	[render]
//	detailed = true
//	formats = ["svg"]
type Config struct {
	CostKey   string       `toml:"cost_key"`
	Memoize   *bool        `toml:"memoize"`
	MaxDepth  int          `toml:"max_depth"`
	MaxVisits int          `toml:"max_visits"`
	Server    ServerConfig `toml:"server"`
	Render    RenderConfig `toml:"render"`
}

// ServerConfig is the [server] table.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	MaxNodes  int    `toml:"max_nodes"`
	MaxEdges  int    `toml:"max_edges"`
	MaxVisits int    `toml:"max_visits"`
}

// RenderConfig is the [render] table.
type RenderConfig struct {
	Detailed bool     `toml:"detailed"`
	Formats  []string `toml:"formats"`
}

// memoize reports whether memoization is enabled; it is unless the file
// turns it off.
func (c Config) memoize() bool {
	return c.Memoize == nil || *c.Memoize
}

// configDir returns the config directory using XDG standard (~/.config/aostar/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads the config file at path. An empty path means the default
// location, which may be absent; an explicitly named file must exist.
// Unknown keys are rejected so typos do not pass silently.
func loadConfig(path string) (Config, string, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, "", nil
		}
		path = filepath.Join(dir, configFile)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, "", nil
		}
		return Config{}, "", fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, "", fmt.Errorf("read config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.MaxDepth < 0 {
		return Config{}, "", fmt.Errorf("read config %s: max_depth must not be negative", path)
	}
	if cfg.MaxVisits < 0 || cfg.Server.MaxVisits < 0 {
		return Config{}, "", fmt.Errorf("read config %s: max_visits must not be negative", path)
	}
	return cfg, path, nil
}
