// Package main implements the bumpversion CLI tool.
//
// bumpversion reads the current semantic version of a project, applies a
// single bump and persists the result through a provider. Providers either
// call the project's own tooling (npm or yarn, fastlane, agvtool) or rewrite
// files directly (a Go version file, or arbitrary text files).
//
// Command Usage:
//
//	bumpversion [options] <bump>
//
// Bumps (exactly one is required):
//
//	--major[=N]:      Increment the major version, resetting minor and patch,
//	                  or set the major version to N.
//	--minor[=N]:      Increment the minor version, resetting patch, or set it to N.
//	--patch[=N]:      Increment the patch version, or set it to N.
//	--build[=V]:      Generate a new build number with the configured strategy,
//	                  or set the build to V.
//	--new-version=V:  Replace the whole version with V.
//
// Increments drop the prerelease and build. Setting a number keeps the
// prerelease and drops the build.
//
// Options:
//
//	-p, --provider:   node (default), fastlane, agvtool, go or file.
//	-c, --config:     Configuration file (default: bumpversion.json, then
//	                  bumpversion.yaml and bumpversion.yml).
//	--build-strategy: timestamp (default) or counter.
//	-n, --dry-run:    Report the new version and the command or files that
//	                  would change, without changing anything.
//	-l, --log-level:  debug, info, warn (default) or error.
//	--log-format:     text (default) or json.
//
// Examples:
//
//	# Bump the minor version of a node package (1.2.3 -> 1.3.0)
//	bumpversion --minor
//
//	# Set the major version, keeping the prerelease (1.2.3-beta -> 5.2.3-beta)
//	bumpversion --major=5
//
//	# Stamp a build number (1.2.3 -> 1.2.3+20240102030405)
//	bumpversion --build
//
//	# Bump an iOS project through fastlane
//	bumpversion -p fastlane --patch
//
//	# Bump version.go, follow the major version in go.mod, commit and tag
//	bumpversion -p go --major
//
// A configuration file selects the provider and its settings:
//
//	{
//	  "provider": "file",
//	  "build": {"strategy": "counter"},
//	  "providerConfig": {
//	    "file": {"files": ["VERSION", "package.json", "Cargo.toml"]}
//	  }
//	}
//
// Exit status is 0 on success, 1 for invalid arguments, 2 when an explicit
// config file is missing, 3 for an invalid config, 4 when a required tool is
// not installed, 5 when no current version is found, 6 when the current
// version cannot be parsed and 255 when a provider's tool fails.
package main
