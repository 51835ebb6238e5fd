package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/bumpversion/pkg/errors"
	"github.com/bcomnes/bumpversion/pkg/runner/runnertest"
	"github.com/bcomnes/bumpversion/pkg/version"
)

func nodeProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), manifest)
	return dir
}

func TestNodeBumpWithYarn(t *testing.T) {
	dir := nodeProject(t, `{"name": "app", "version": "1.2.3"}`)
	fake := runnertest.New("yarn", "npm")
	p := NewNode(Env{Dir: dir, Runner: fake})

	res, err := p.Bump(context.Background(), bump(version.Minor))
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", res.OldVersion)
	assert.Equal(t, "1.3.0", res.NewVersion)
	assert.Equal(t, []string{"yarn version --new-version 1.3.0"}, fake.Commands())
}

func TestNodeBumpFallsBackToNpm(t *testing.T) {
	dir := nodeProject(t, `{"version": "1.2.3"}`)
	fake := runnertest.New("npm")
	p := NewNode(Env{Dir: dir, Runner: fake})

	res, err := p.Bump(context.Background(), bump(version.Major))
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", res.NewVersion)
	assert.Equal(t, []string{"npm version --no-git-tag-version --no-commit-hooks 2.0.0"}, fake.Commands())
}

func TestNodeBuildIncrement(t *testing.T) {
	dir := nodeProject(t, `{"version": "1.2.3-beta.1"}`)
	fake := runnertest.New("npm")
	p := NewNode(Env{Dir: dir, Runner: fake, Builds: fixedBuild("20240102030405")})

	res, err := p.Bump(context.Background(), bump(version.Build))
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-beta.1+20240102030405", res.NewVersion)
}

func TestNodeFindsManifestInParent(t *testing.T) {
	dir := nodeProject(t, `{"version": "0.1.0"}`)
	sub := filepath.Join(dir, "src", "lib")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	fake := runnertest.New("npm")

	res, err := NewNode(Env{Dir: sub, Runner: fake}).Bump(context.Background(), bump(version.Patch))
	require.NoError(t, err)
	assert.Equal(t, "0.1.1", res.NewVersion)
	require.Len(t, res.UpdatedFiles, 1)
	assert.Equal(t, "package.json", filepath.Base(res.UpdatedFiles[0]))
}

func TestNodeErrors(t *testing.T) {
	tests := []struct {
		name      string
		manifest  string
		installed []string
		req       Request
		code      errors.ErrorCode
	}{
		{name: "no version field", manifest: `{"name": "app"}`, installed: []string{"npm"}, req: bump(version.Major), code: errors.ErrCodeVersionNotFound},
		{name: "invalid json", manifest: `{`, installed: []string{"npm"}, req: bump(version.Major), code: errors.ErrCodeVersionNotFound},
		{name: "invalid version", manifest: `{"version": "latest"}`, installed: []string{"npm"}, req: bump(version.Major), code: errors.ErrCodeInvalidVersion},
		{name: "no tool", manifest: `{"version": "1.0.0"}`, req: bump(version.Major), code: errors.ErrCodeExecutableNotFound},
		{name: "no-op", manifest: `{"version": "1.0.0"}`, installed: []string{"npm"}, req: Request{NewVersion: "1.0.0"}, code: errors.ErrCodeArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := nodeProject(t, tt.manifest)
			fake := runnertest.New(tt.installed...)
			_, err := NewNode(Env{Dir: dir, Runner: fake}).Bump(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Empty(t, fake.Commands())
		})
	}
}

func TestNodeSubcommandFailure(t *testing.T) {
	dir := nodeProject(t, `{"version": "1.0.0"}`)
	fake := runnertest.New("npm")
	fake.Fail = []string{"npm version --no-git-tag-version --no-commit-hooks 1.0.1"}

	_, err := NewNode(Env{Dir: dir, Runner: fake}).Bump(context.Background(), bump(version.Patch))
	require.Error(t, err)
	assert.Equal(t, errors.ExitSubcommand, errors.ExitCode(err))
}
