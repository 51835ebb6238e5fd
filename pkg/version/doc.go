// Package version parses, formats and bumps semantic version numbers.
//
// A Version is parsed from MAJOR[.MINOR[.PATCH]][-PRERELEASE][+BUILD] and
// formatted back in canonical MAJOR.MINOR.PATCH form. Apply produces a new
// Version from an Instruction:
//
//	v := version.MustParse("1.2.3-beta.1")
//	next, err := version.Apply(v, version.IncrementOf(version.Patch), nil)
//	// next.String() == "1.2.4"
//
// Build increments need a BuildGenerator; see package buildnum for the
// timestamp and counter strategies.
package version
