package provider

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bcomnes/bumpversion/pkg/errors"
)

// Agvtool bumps an Xcode project through Apple generic versioning.
type Agvtool struct {
	env Env
}

// NewAgvtool returns the agvtool provider.
func NewAgvtool(env Env) *Agvtool {
	return &Agvtool{env: env}
}

// Name implements Provider.
func (p *Agvtool) Name() string { return "agvtool" }

// Bump implements Provider.
func (p *Agvtool) Bump(ctx context.Context, req Request) (Result, error) {
	res := Result{Provider: p.Name()}
	if err := req.validate(); err != nil {
		return res, err
	}
	if _, err := p.env.Runner.LookPath("agvtool"); err != nil {
		return res, err
	}

	current, err := p.currentVersion(ctx)
	if err != nil {
		return res, err
	}
	res.OldVersion = current

	_, next, err := resolve(current, req, p.env.Builds)
	if err != nil {
		return res, err
	}
	res.NewVersion = next.String()

	args := []string{"agvtool", "new-version", "-all", res.NewVersion}
	res.Command = append([]string{"xcrun"}, args...)

	slog.Info("bumping project version", "old", res.OldVersion, "new", res.NewVersion)
	if req.DryRun {
		return res, nil
	}
	return res, p.env.Runner.Run(ctx, "xcrun", args...)
}

// currentVersion returns the last non-empty line printed by
// `agvtool what-version`.
func (p *Agvtool) currentVersion(ctx context.Context) (string, error) {
	out, err := p.env.Runner.Output(ctx, "xcrun", "agvtool", "what-version")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeVersionNotFound, "cannot find project version", err)
	}
	var last string
	for _, line := range strings.Split(out, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			last = s
		}
	}
	if last == "" {
		return "", errors.New(errors.ErrCodeVersionNotFound, "cannot find project version")
	}
	return last, nil
}
