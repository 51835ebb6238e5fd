// Package provider reads and persists project versions.
//
// Each Provider handles one kind of project:
//
//	node      package.json, persisted with yarn or npm
//	fastlane  iOS/Android projects, bumped entirely by fastlane actions
//	agvtool   Xcode projects using Apple generic versioning
//	go        a Go version file, plus go.mod and self-imports on major bumps
//	file      the main version reference in arbitrary text files
//
// Providers run external tools through a runner.Runner so they can be
// exercised with runnertest.Fake.
package provider
