package provider

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bcomnes/bumpversion/pkg/errors"
)

// Node bumps package.json through yarn or npm.
type Node struct {
	env Env
}

// NewNode returns the node provider.
func NewNode(env Env) *Node {
	return &Node{env: env}
}

// Name implements Provider.
func (p *Node) Name() string { return "node" }

// Bump implements Provider.
func (p *Node) Bump(ctx context.Context, req Request) (Result, error) {
	res := Result{Provider: p.Name()}
	if err := req.validate(); err != nil {
		return res, err
	}

	root, err := findUp(p.env.Dir, "package.json")
	if err != nil {
		return res, errors.Wrap(errors.ErrCodeVersionNotFound, "cannot find project root to determine project version", err)
	}
	manifest := filepath.Join(root, "package.json")
	current, err := readPackageVersion(manifest)
	if err != nil {
		return res, err
	}
	res.OldVersion = current

	_, next, err := resolve(current, req, p.env.Builds)
	if err != nil {
		return res, err
	}
	res.NewVersion = next.String()

	name, args, err := p.command(res.NewVersion)
	if err != nil {
		return res, err
	}
	res.Command = append([]string{name}, args...)
	res.UpdatedFiles = []string{manifest}

	slog.Info("bumping node package", "manifest", manifest, "old", res.OldVersion, "new", res.NewVersion, "tool", name)
	if req.DryRun {
		return res, nil
	}
	return res, p.env.Runner.Run(ctx, name, args...)
}

// command prefers yarn and falls back to npm.
func (p *Node) command(v string) (string, []string, error) {
	if _, err := p.env.Runner.LookPath("yarn"); err == nil {
		return "yarn", []string{"version", "--new-version", v}, nil
	}
	if _, err := p.env.Runner.LookPath("npm"); err == nil {
		return "npm", []string{"version", "--no-git-tag-version", "--no-commit-hooks", v}, nil
	}
	return "", nil, errors.New(errors.ErrCodeExecutableNotFound, "`yarn` or `npm` must be installed")
}

func readPackageVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeVersionNotFound, "cannot read package.json", err)
	}
	var pkg struct {
		Version *string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", errors.Wrap(errors.ErrCodeVersionNotFound, "package.json is not valid JSON", err)
	}
	if pkg.Version == nil {
		return "", errors.NewWithContext(errors.ErrCodeVersionNotFound, "package.json has no version field",
			map[string]any{"path": path})
	}
	return *pkg.Version, nil
}
