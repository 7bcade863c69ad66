package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/gomilk/rtmagent"
	"github.com/gomilk/rtmagent/api"
)

// Config carries the optional on-disk settings for constructing an Agent.
type Config struct {
	APIKey    string
	APISecret string
	StateFile string
	Trace     api.Trace
}

const defaultConfigPath = "~/.config/rtmagent/config.toml"

// Load locates and parses the config file. A missing file is not an error;
// it yields a zero Config so embedding callers can supply credentials
// programmatically instead.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIKey    string   `toml:"api_key"`
		APISecret string   `toml:"api_secret"`
		StateFile string   `toml:"state_file"`
		Trace     []string `toml:"trace"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(raw.APIKey)
	cfg.APISecret = strings.TrimSpace(raw.APISecret)
	cfg.StateFile = strings.TrimSpace(raw.StateFile)
	if cfg.StateFile != "" {
		cfg.StateFile = mustExpand(cfg.StateFile)
	}

	for _, flag := range raw.Trace {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case "outgoing":
			cfg.Trace |= api.TraceOutgoing
		case "incoming":
			cfg.Trace |= api.TraceIncoming
		case "":
		default:
			return Config{}, fmt.Errorf("parse config: unknown trace flag %q", flag)
		}
	}

	return cfg, nil
}

// Options maps the loaded config onto agent construction options.
func (c Config) Options() rtmagent.Options {
	return rtmagent.Options{
		APIKey:    c.APIKey,
		APISecret: c.APISecret,
		StatePath: c.StateFile,
		Trace:     c.Trace,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
