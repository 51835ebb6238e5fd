package provider

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/mod/semver"

	"github.com/bcomnes/bumpversion/pkg/config"
	"github.com/bcomnes/bumpversion/pkg/errors"
	"github.com/bcomnes/bumpversion/pkg/runner"
	"github.com/bcomnes/bumpversion/pkg/version"
)

// DefaultProvider is used when neither the command line nor the config
// file names one.
const DefaultProvider = "node"

// Provider knows how to read and persist the version of one kind of project.
type Provider interface {
	Name() string
	Bump(ctx context.Context, req Request) (Result, error)
}

// Request describes a bump. Exactly one of Instruction and NewVersion is set.
type Request struct {
	Instruction *version.Instruction
	NewVersion  string
	// DryRun computes the result without running commands or writing files.
	DryRun bool
}

func (r Request) validate() error {
	switch {
	case r.Instruction == nil && r.NewVersion == "":
		return errors.New(errors.ErrCodeArgument, "one of the bump types must be specified")
	case r.Instruction != nil && r.NewVersion != "":
		return errors.New(errors.ErrCodeArgument, "a bump switch and --new-version cannot be combined")
	}
	return nil
}

// Result reports what a bump did, or would do on a dry run.
type Result struct {
	Provider   string
	OldVersion string // empty when the provider does not read the version
	NewVersion string // empty when the external tool computes it
	// Command is the argv that persists the version, if any.
	Command      []string
	UpdatedFiles []string
}

// Env holds what every provider needs from its surroundings.
type Env struct {
	// Dir is the working directory; project files are located from here.
	Dir    string
	Runner runner.Runner
	// Builds generates build tokens for build increments.
	Builds version.BuildGenerator
}

// resolve computes the next version from the current version string.
func resolve(current string, req Request, builds version.BuildGenerator) (version.Version, version.Version, error) {
	old, err := version.Parse(current)
	if err != nil {
		return version.Version{}, version.Version{}, errors.WrapWithContext(errors.ErrCodeInvalidVersion,
			"cannot understand project version", err, map[string]any{"version": current})
	}

	var next version.Version
	if req.NewVersion != "" {
		next, err = version.Parse(req.NewVersion)
		if err != nil {
			return version.Version{}, version.Version{}, errors.Wrap(errors.ErrCodeArgument, "version is invalid", err)
		}
	} else {
		next, err = version.Apply(old, *req.Instruction, builds)
		if err != nil {
			var ae *version.ArgumentError
			if stderrors.As(err, &ae) {
				return version.Version{}, version.Version{}, errors.Wrap(errors.ErrCodeArgument, "invalid bump", err)
			}
			return version.Version{}, version.Version{}, errors.Wrap(errors.ErrCodeInternal, "failed to generate build number", err)
		}
	}

	if next.String() == old.String() {
		return version.Version{}, version.Version{}, errors.Newf(errors.ErrCodeArgument,
			"new version (%s) is the same as the current version", next)
	}
	if semver.Compare("v"+old.String(), "v"+next.String()) > 0 {
		slog.Warn("new version has lower precedence than the current version", "old", old.String(), "new", next.String())
	}
	return old, next, nil
}

// findUp walks up from dir until it finds name and returns the directory
// containing it.
func findUp(dir, name string) (string, error) {
	d, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(d, name)); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return "", os.ErrNotExist
}

// Registry maps provider names to providers.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

// Default returns a registry holding every built-in provider configured
// from cfg.
func Default(env Env, cfg *config.Config) *Registry {
	if cfg == nil {
		cfg = &config.Config{}
	}
	r := NewRegistry()
	r.Register(NewNode(env))
	r.Register(NewFastlane(env, cfg.ProviderConfig.Fastlane))
	r.Register(NewAgvtool(env))
	r.Register(NewGo(env, cfg.ProviderConfig.Go))
	r.Register(NewFile(env, cfg.ProviderConfig.File))
	return r
}

// Register adds p, replacing any provider with the same name.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns the provider called name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeArgument, "unknown provider "+name,
			map[string]any{"known": r.Names()})
	}
	return p, nil
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select picks the provider name: the flag wins over the config file, which
// wins over DefaultProvider.
func Select(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg != nil && cfg.Provider != "" {
		return cfg.Provider
	}
	return DefaultProvider
}
