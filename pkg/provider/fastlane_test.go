package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/bumpversion/pkg/config"
	"github.com/bcomnes/bumpversion/pkg/errors"
	"github.com/bcomnes/bumpversion/pkg/runner/runnertest"
	"github.com/bcomnes/bumpversion/pkg/version"
)

func TestFastlaneCommands(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.FastlaneConfig
		req  Request
		want string
	}{
		{name: "major", req: bump(version.Major), want: "fastlane run increment_version_number bump_type:major"},
		{name: "minor", req: bump(version.Minor), want: "fastlane run increment_version_number bump_type:minor"},
		{name: "patch", req: bump(version.Patch), want: "fastlane run increment_version_number bump_type:patch"},
		{name: "build", req: bump(version.Build), want: "fastlane run increment_build_number"},
		{name: "build set", req: set(version.Build, "77"), want: "fastlane run increment_build_number build_number:77"},
		{name: "new version", req: Request{NewVersion: "2.1"}, want: "fastlane run increment_version_number version_number:2.1.0"},
		{
			name: "xcodeproj",
			cfg:  config.FastlaneConfig{Xcodeproj: "App.xcodeproj"},
			req:  bump(version.Patch),
			want: "fastlane run increment_version_number bump_type:patch xcodeproj:App.xcodeproj",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := runnertest.New("fastlane")
			_, err := NewFastlane(Env{Runner: fake}, tt.cfg).Bump(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, fake.Commands())
		})
	}
}

func TestFastlaneErrors(t *testing.T) {
	tests := []struct {
		name      string
		installed []string
		req       Request
		code      errors.ErrorCode
	}{
		{name: "not installed", req: bump(version.Major), code: errors.ErrCodeExecutableNotFound},
		{name: "set major", installed: []string{"fastlane"}, req: set(version.Major, "3"), code: errors.ErrCodeArgument},
		{name: "bad build", installed: []string{"fastlane"}, req: set(version.Build, "a.b"), code: errors.ErrCodeArgument},
		{name: "bad new version", installed: []string{"fastlane"}, req: Request{NewVersion: "v1"}, code: errors.ErrCodeArgument},
		{name: "nothing requested", installed: []string{"fastlane"}, req: Request{}, code: errors.ErrCodeArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := runnertest.New(tt.installed...)
			_, err := NewFastlane(Env{Runner: fake}, config.FastlaneConfig{}).Bump(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Empty(t, fake.Commands())
		})
	}
}

func TestFastlaneDoesNotReadVersion(t *testing.T) {
	fake := runnertest.New("fastlane")
	res, err := NewFastlane(Env{Runner: fake}, config.FastlaneConfig{}).Bump(context.Background(), bump(version.Minor))
	require.NoError(t, err)
	assert.Empty(t, res.OldVersion)
	assert.Empty(t, res.NewVersion)
}
