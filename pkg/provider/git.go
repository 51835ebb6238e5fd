package provider

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bcomnes/bumpversion/pkg/errors"
	"github.com/bcomnes/bumpversion/pkg/runner"
)

// git runs git commands against the repository containing dir.
type git struct {
	r   runner.Runner
	dir string
}

func (g git) output(ctx context.Context, args ...string) (string, error) {
	return g.r.Output(ctx, "git", append([]string{"-C", g.dir}, args...)...)
}

// latestTag returns the most recent tag without its "v" prefix.
func (g git) latestTag(ctx context.Context) (string, error) {
	out, err := g.output(ctx, "describe", "--tags", "--abbrev=0")
	if err != nil {
		return "", err
	}
	tag := strings.TrimSpace(out)
	if tag == "" {
		return "", errors.New(errors.ErrCodeVersionNotFound, "no tags found")
	}
	return strings.TrimPrefix(tag, "v"), nil
}

// checkClean fails when files other than allowed have uncommitted changes.
// Porcelain paths are relative to the repository root.
func (g git) checkClean(ctx context.Context, allowed []string) error {
	top, err := g.output(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return err
	}
	top = strings.TrimSpace(top)

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to resolve path "+f, err)
		}
		allowedSet[abs] = struct{}{}
	}

	out, err := g.output(ctx, "status", "--porcelain")
	if err != nil {
		return err
	}
	var dirty []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		if _, ok := allowedSet[filepath.Join(top, filepath.FromSlash(path))]; !ok {
			dirty = append(dirty, path)
		}
	}
	if len(dirty) > 0 {
		return errors.NewWithContext(errors.ErrCodeArgument,
			"working directory is dirty; uncommitted files not included in commit",
			map[string]any{"files": dirty})
	}
	return nil
}

// commit stages files, commits with the version as message and tags the
// commit with "v" + version.
func (g git) commit(ctx context.Context, version string, files []string) error {
	if _, err := g.output(ctx, append([]string{"add", "--"}, files...)...); err != nil {
		return err
	}
	if _, err := g.output(ctx, "commit", "-m", version); err != nil {
		return err
	}
	_, err := g.output(ctx, "tag", "v"+version)
	return err
}
