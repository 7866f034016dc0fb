package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoHomeDir is returned when the user's home directory cannot be determined.
var ErrNoHomeDir = errors.New("cannot determine home directory")

const (
	// DefaultEndpoint is the public Hugging Face Hub.
	DefaultEndpoint = "https://huggingface.co"

	// EnvEndpoint overrides Endpoint, matching the huggingface_hub variable.
	EnvEndpoint = "HF_ENDPOINT"

	// EnvConfigPath points at an alternative config file.
	EnvConfigPath = "FOLDERUP_CONFIG"
)

// Symlink policies accepted in the config file.
const (
	SymlinksFollow = "follow"
	SymlinksSkip   = "skip"
)

type LogConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

type HistoryConfig struct {
	KeepLast int `yaml:"keep_last"`
}

type Config struct {
	Endpoint      string        `yaml:"endpoint"`
	Revision      string        `yaml:"revision"`
	WorkDir       string        `yaml:"work_dir"`
	KeepArchive   bool          `yaml:"keep_archive"`
	Symlinks      string        `yaml:"symlinks"`
	Exclude       []string      `yaml:"exclude"`
	TokenPath     string        `yaml:"token_path"`
	SaveToken     bool          `yaml:"save_token"`
	UploadTimeout time.Duration `yaml:"upload_timeout"`
	Log           LogConfig     `yaml:"log"`
	History       HistoryConfig `yaml:"history"`
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHomeDir
	}
	return home, nil
}

// Dir returns the folderup state directory (~/.folderup).
func Dir() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".folderup"), nil
}

func DefaultConfig() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Endpoint:  DefaultEndpoint,
		Revision:  "main",
		Symlinks:  SymlinksFollow,
		Exclude:   []string{},
		SaveToken: true,
		Log: LogConfig{
			Level:     "info",
			File:      filepath.Join(dir, "folderup.log"),
			MaxSizeMB: 10,
		},
		History: HistoryConfig{KeepLast: 100},
	}, nil
}

// ConfigPath returns the config file location, honoring FOLDERUP_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return ExpandPath(p)
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// HistoryPath returns the location of the upload history log.
func HistoryPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

func Load() (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// Use defaults
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if ep := os.Getenv(EnvEndpoint); ep != "" {
		cfg.Endpoint = ep
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid endpoint %q", c.Endpoint)
	}
	switch c.Symlinks {
	case "", SymlinksFollow, SymlinksSkip:
	default:
		return fmt.Errorf("invalid symlinks policy %q (want %q or %q)", c.Symlinks, SymlinksFollow, SymlinksSkip)
	}
	if c.UploadTimeout < 0 {
		return fmt.Errorf("upload_timeout must not be negative")
	}
	if c.History.KeepLast < 0 {
		return fmt.Errorf("history.keep_last must not be negative")
	}
	if c.Log.MaxSizeMB < 0 {
		return fmt.Errorf("log.max_size_mb must not be negative")
	}
	return nil
}

// EndpointURL returns the endpoint without a trailing slash.
func (c *Config) EndpointURL() string {
	return strings.TrimRight(c.Endpoint, "/")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
