package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/bumpversion/pkg/config"
	"github.com/bcomnes/bumpversion/pkg/errors"
	"github.com/bcomnes/bumpversion/pkg/runner/runnertest"
	"github.com/bcomnes/bumpversion/pkg/version"
)

var (
	_ Provider = (*Node)(nil)
	_ Provider = (*Fastlane)(nil)
	_ Provider = (*Agvtool)(nil)
	_ Provider = (*Go)(nil)
	_ Provider = (*File)(nil)
)

func bump(c version.Component) Request {
	in := version.IncrementOf(c)
	return Request{Instruction: &in}
}

func set(c version.Component, v string) Request {
	in := version.SetTo(c, v)
	return Request{Instruction: &in}
}

func fixedBuild(token string) version.BuildGenerator {
	return version.BuildGeneratorFunc(func([]string) (string, error) { return token, nil })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRequestValidate(t *testing.T) {
	assert.Equal(t, errors.ErrCodeArgument, errors.CodeOf(Request{}.validate()))

	r := bump(version.Major)
	r.NewVersion = "2.0.0"
	assert.Equal(t, errors.ErrCodeArgument, errors.CodeOf(r.validate()))

	assert.NoError(t, bump(version.Minor).validate())
	assert.NoError(t, Request{NewVersion: "1.0.0"}.validate())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		current string
		req     Request
		want    string
		code    errors.ErrorCode
	}{
		{name: "major", current: "1.2.3", req: bump(version.Major), want: "2.0.0"},
		{name: "short form", current: "1.2", req: bump(version.Patch), want: "1.2.1"},
		{name: "build", current: "1.2.3", req: bump(version.Build), want: "1.2.3+42"},
		{name: "set minor", current: "1.2.3-rc.1", req: set(version.Minor, "7"), want: "1.7.3-rc.1"},
		{name: "explicit", current: "1.2.3", req: Request{NewVersion: "3.0.0-beta"}, want: "3.0.0-beta"},
		{name: "lower precedence still allowed", current: "2.0.0", req: Request{NewVersion: "1.0.0"}, want: "1.0.0"},
		{name: "bad current", current: "not-a-version", req: bump(version.Major), code: errors.ErrCodeInvalidVersion},
		{name: "bad explicit", current: "1.0.0", req: Request{NewVersion: "1.0.0.0"}, code: errors.ErrCodeArgument},
		{name: "no-op", current: "1.0.0", req: Request{NewVersion: "1.0"}, code: errors.ErrCodeArgument},
		{name: "set same value", current: "1.0.0", req: set(version.Major, "1"), code: errors.ErrCodeArgument},
		{name: "bad set value", current: "1.0.0", req: set(version.Major, "x"), code: errors.ErrCodeArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, next, err := resolve(tt.current, tt.req, fixedBuild("42"))
			if tt.code != "" {
				require.Error(t, err)
				assert.Equal(t, tt.code, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.String())
		})
	}
}

func TestResolveNoOpMessage(t *testing.T) {
	_, _, err := resolve("1.0.0", Request{NewVersion: "1.0.0"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new version (1.0.0) is the same as the current version")
}

func TestRegistry(t *testing.T) {
	r := Default(Env{Runner: runnertest.New()}, nil)
	assert.Equal(t, []string{"agvtool", "fastlane", "file", "go", "node"}, r.Names())

	p, err := r.Get("fastlane")
	require.NoError(t, err)
	assert.Equal(t, "fastlane", p.Name())

	_, err = r.Get("cargo")
	require.Error(t, err)
	assert.Equal(t, errors.ExitArgument, errors.ExitCode(err))
}

func TestRegistryMatchesKnownProviders(t *testing.T) {
	r := Default(Env{Runner: runnertest.New()}, &config.Config{})
	assert.ElementsMatch(t, config.KnownProviders, r.Names())
}

func TestSelect(t *testing.T) {
	assert.Equal(t, "node", Select("", nil))
	assert.Equal(t, "node", Select("", &config.Config{}))
	assert.Equal(t, "go", Select("", &config.Config{Provider: "go"}))
	assert.Equal(t, "agvtool", Select("agvtool", &config.Config{Provider: "go"}))
}

func TestFindUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{}`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	dir, err := findUp(nested, "package.json")
	require.NoError(t, err)
	want, _ := filepath.Abs(root)
	assert.Equal(t, want, dir)

	_, err = findUp(nested, "bumpversion-missing.marker")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDryRunRunsNothing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"version": "1.0.0"}`)
	fake := runnertest.New("npm", "fastlane", "agvtool", "xcrun")
	fake.Outputs["xcrun agvtool what-version"] = "1.0.0\n"
	env := Env{Dir: dir, Runner: fake, Builds: fixedBuild("1")}

	for _, name := range []string{"node", "fastlane", "agvtool"} {
		p, err := Default(env, nil).Get(name)
		require.NoError(t, err)
		req := bump(version.Minor)
		req.DryRun = true
		res, err := p.Bump(context.Background(), req)
		require.NoError(t, err, name)
		assert.NotEmpty(t, res.Command, name)
	}
	assert.Equal(t, []string{"xcrun agvtool what-version"}, fake.Commands())
}
