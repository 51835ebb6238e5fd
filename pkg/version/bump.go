package version

import (
	"math"
	"strconv"
	"strings"
)

// Component names the part of a version an instruction acts on.
type Component string

const (
	Major Component = "major"
	Minor Component = "minor"
	Patch Component = "patch"
	Build Component = "build"
)

// Components lists every component in order of decreasing significance.
var Components = []Component{Major, Minor, Patch, Build}

// Mode selects between incrementing a component and setting it.
type Mode string

const (
	Increment Mode = "increment"
	Set       Mode = "set"
)

// Instruction describes a single bump. Value is only read in Set mode: a
// non-negative decimal integer for major, minor and patch, an identifier for
// build.
type Instruction struct {
	Component Component
	Mode      Mode
	Value     string
}

// IncrementOf returns an instruction incrementing c.
func IncrementOf(c Component) Instruction {
	return Instruction{Component: c, Mode: Increment}
}

// SetTo returns an instruction setting c to value.
func SetTo(c Component, value string) Instruction {
	return Instruction{Component: c, Mode: Set, Value: value}
}

func (in Instruction) String() string {
	if in.Mode == Set {
		return string(in.Component) + "=" + in.Value
	}
	return string(in.Component) + "++"
}

// ParseComponent converts a user-supplied name into a Component.
func ParseComponent(s string) (Component, error) {
	c := Component(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case Major, Minor, Patch, Build:
		return c, nil
	}
	return "", argumentErrorf("unknown version component %q", s)
}

// BuildGenerator produces a fresh build metadata token. prev is the build
// metadata of the version being bumped and may be empty.
type BuildGenerator interface {
	NextBuild(prev []string) (string, error)
}

// BuildGeneratorFunc adapts a function to BuildGenerator.
type BuildGeneratorFunc func(prev []string) (string, error)

// NextBuild calls f(prev).
func (f BuildGeneratorFunc) NextBuild(prev []string) (string, error) {
	return f(prev)
}

// Apply returns the result of applying in to v. v is never modified and the
// returned Version shares no memory with it. gen is consulted only for a
// build increment.
//
// Setting major, minor or patch keeps the prerelease and drops build
// metadata; incrementing them drops both.
func Apply(v Version, in Instruction, gen BuildGenerator) (Version, error) {
	out := v.Clone()

	switch in.Component {
	case Major, Minor, Patch:
		switch in.Mode {
		case Increment:
			if err := increment(&out, in.Component); err != nil {
				return Version{}, err
			}
			out.Prerelease = nil
			out.Build = nil
		case Set:
			n, err := parseValue(in)
			if err != nil {
				return Version{}, err
			}
			*numberOf(&out, in.Component) = n
			out.Build = nil
		default:
			return Version{}, argumentErrorf("unknown bump mode %q", in.Mode)
		}
	case Build:
		switch in.Mode {
		case Increment:
			if gen == nil {
				return Version{}, argumentErrorf("no build number generator configured")
			}
			token, err := gen.NextBuild(cloneTokens(v.Build))
			if err != nil {
				return Version{}, err
			}
			if !IsIdentifier(token) {
				return Version{}, argumentErrorf("generated build token %q is not a valid identifier", token)
			}
			out.Build = []string{token}
		case Set:
			if !IsIdentifier(in.Value) {
				return Version{}, argumentErrorf("build value %q must match [0-9A-Za-z-]+", in.Value)
			}
			out.Build = []string{in.Value}
		default:
			return Version{}, argumentErrorf("unknown bump mode %q", in.Mode)
		}
	default:
		return Version{}, argumentErrorf("unknown version component %q", in.Component)
	}

	return out, nil
}

func increment(v *Version, c Component) error {
	p := numberOf(v, c)
	if *p == math.MaxUint64 {
		return argumentErrorf("%s component %d cannot be incremented", c, *p)
	}
	*p++
	switch c {
	case Major:
		v.Minor = 0
		v.Patch = 0
	case Minor:
		v.Patch = 0
	}
	return nil
}

func numberOf(v *Version, c Component) *uint64 {
	switch c {
	case Major:
		return &v.Major
	case Minor:
		return &v.Minor
	default:
		return &v.Patch
	}
}

func parseValue(in Instruction) (uint64, error) {
	s := in.Value
	if s == "" {
		return 0, argumentErrorf("%s value is required", in.Component)
	}
	if strings.HasPrefix(s, "-") {
		return 0, argumentErrorf("%s value %q must not be negative", in.Component, s)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, argumentErrorf("%s value %q is not an integer", in.Component, s)
	}
	return n, nil
}
