package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/bumpversion/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingDefault(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigNotFound, errors.CodeOf(err))
	assert.Equal(t, errors.ExitConfigNotFound, errors.ExitCode(err))
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bumpversion.json", `{
  "provider": "fastlane",
  "build": {"strategy": "counter"},
  "providerConfig": {
    "fastlane": {"xcodeproj": "App.xcodeproj"},
    "file": {"files": ["VERSION", "README.md"]}
  }
}`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "fastlane", cfg.Provider)
	assert.Equal(t, "counter", cfg.Build.Strategy)
	assert.Equal(t, "App.xcodeproj", cfg.ProviderConfig.Fastlane.Xcodeproj)
	assert.Equal(t, []string{"VERSION", "README.md"}, cfg.ProviderConfig.File.Files)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bumpversion.yml", `provider: go
providerConfig:
  go:
    versionFile: internal/version.go
    commit: true
`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "go", cfg.Provider)
	assert.Equal(t, "internal/version.go", cfg.ProviderConfig.Go.VersionFile)
	assert.True(t, cfg.ProviderConfig.Go.Commit)
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bumpversion.json", `{"provider": "node"}`)
	writeFile(t, dir, "bumpversion.yaml", `provider: agvtool`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "node", cfg.Provider)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad json", "bumpversion.json", `{"provider": `},
		{"bad yaml", "bumpversion.yaml", "provider: [node"},
		{"unknown provider", "bumpversion.json", `{"provider": "gradle"}`},
		{"unknown strategy", "bumpversion.json", `{"build": {"strategy": "random"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := Load(dir, path)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err))
		})
	}
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	cfg, err := Parse("bumpversion.json", []byte(`{"provider": "node", "extra": 1}`))
	require.NoError(t, err)
	assert.Equal(t, "node", cfg.Provider)
}
