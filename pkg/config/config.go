// Package config loads the optional bumpversion configuration file.
package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bcomnes/bumpversion/pkg/buildnum"
	"github.com/bcomnes/bumpversion/pkg/errors"
)

// DefaultFileNames are searched, in order, in the working directory when no
// config path is given.
var DefaultFileNames = []string{"bumpversion.json", "bumpversion.yaml", "bumpversion.yml"}

// Config is the decoded configuration file.
type Config struct {
	Provider       string         `json:"provider,omitempty" yaml:"provider,omitempty"`
	Build          BuildConfig    `json:"build,omitempty" yaml:"build,omitempty"`
	ProviderConfig ProviderConfig `json:"providerConfig,omitempty" yaml:"providerConfig,omitempty"`

	// Path is the file the config was loaded from, empty when none was found.
	Path string `json:"-" yaml:"-"`
}

// BuildConfig selects how build numbers are generated.
type BuildConfig struct {
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Layout   string `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// ProviderConfig holds per-provider settings.
type ProviderConfig struct {
	Fastlane FastlaneConfig `json:"fastlane,omitempty" yaml:"fastlane,omitempty"`
	Go       GoConfig       `json:"go,omitempty" yaml:"go,omitempty"`
	File     FileConfig     `json:"file,omitempty" yaml:"file,omitempty"`
}

// FastlaneConfig configures the fastlane provider.
type FastlaneConfig struct {
	Xcodeproj string `json:"xcodeproj,omitempty" yaml:"xcodeproj,omitempty"`
}

// GoConfig configures the go provider.
type GoConfig struct {
	VersionFile string `json:"versionFile,omitempty" yaml:"versionFile,omitempty"`
	Commit      bool   `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// FileConfig configures the file provider.
type FileConfig struct {
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// Load reads the config file at path. With an empty path the default file
// names are tried in dir and a missing file yields an empty Config. A
// relative path is resolved against dir, and a missing explicit path is an
// error.
func Load(dir, path string) (*Config, error) {
	if path == "" {
		for _, name := range DefaultFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			slog.Debug("no config file found", "dir", dir)
			return &Config{}, nil
		}
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithContext(errors.ErrCodeConfigNotFound, "config file not found", err,
				map[string]any{"path": path})
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "failed to read config file", err)
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	slog.Debug("loaded config", "path", path, "provider", cfg.Provider)
	return cfg, nil
}

// Parse decodes data, choosing YAML for .yaml/.yml names and JSON otherwise,
// and validates the result.
func Parse(name string, data []byte) (*Config, error) {
	var cfg Config
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "config file is not valid YAML", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "config file is not valid JSON", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// KnownProviders lists the provider names Validate accepts.
var KnownProviders = []string{"node", "fastlane", "agvtool", "go", "file"}

// Validate checks provider and build strategy names.
func (c *Config) Validate() error {
	if c.Provider != "" && !slices.Contains(KnownProviders, c.Provider) {
		return errors.NewWithContext(errors.ErrCodeInvalidConfig, "unknown provider "+c.Provider,
			map[string]any{"known": KnownProviders})
	}
	if _, err := buildnum.New(c.Build.Strategy, c.Build.Layout); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid build configuration", err)
	}
	return nil
}
