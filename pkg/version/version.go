package version

import (
	"regexp"
	"strconv"
	"strings"
)

// versionRegex is the semver.org grammar with optional minor and patch parts.
var versionRegex = regexp.MustCompile(`^(?P<major>0|[1-9]\d*)(?:\.(?P<minor>0|[1-9]\d*)(?:\.(?P<patch>0|[1-9]\d*))?)?(?:-(?P<prerelease>(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+(?P<build>[0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

var identifierRegex = regexp.MustCompile(`^[0-9A-Za-z-]+$`)

// Version is a parsed semantic version. Treat it as a value: functions in
// this package never modify a Version they are given.
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease []string
	Build      []string
}

// Parse parses a version string of the form MAJOR[.MINOR[.PATCH]][-PRERELEASE][+BUILD].
// Missing minor and patch parts default to 0.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, &ParseError{Input: s, Reason: "empty version string"}
	}
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &ParseError{Input: s, Reason: "does not match MAJOR[.MINOR[.PATCH]][-PRERELEASE][+BUILD]"}
	}

	var v Version
	var err error
	if v.Major, err = parseNumber(s, m[versionRegex.SubexpIndex("major")]); err != nil {
		return Version{}, err
	}
	if v.Minor, err = parseNumber(s, m[versionRegex.SubexpIndex("minor")]); err != nil {
		return Version{}, err
	}
	if v.Patch, err = parseNumber(s, m[versionRegex.SubexpIndex("patch")]); err != nil {
		return Version{}, err
	}
	if pre := m[versionRegex.SubexpIndex("prerelease")]; pre != "" {
		v.Prerelease = strings.Split(pre, ".")
	}
	if build := m[versionRegex.SubexpIndex("build")]; build != "" {
		v.Build = strings.Split(build, ".")
	}
	return v, nil
}

// MustParse is like Parse but panics if the string cannot be parsed.
// Only use it with literals.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseNumber(input, part string) (uint64, error) {
	if part == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(part, 10, 64)
	if err != nil {
		return 0, &ParseError{Input: input, Reason: "component " + part + " is out of range"}
	}
	return n, nil
}

// Format returns the canonical string form of v.
func Format(v Version) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(v.Major, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Minor, 10))
	b.WriteByte('.')
	b.WriteString(strconv.FormatUint(v.Patch, 10))
	if len(v.Prerelease) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.Prerelease, "."))
	}
	if len(v.Build) > 0 {
		b.WriteByte('+')
		b.WriteString(strings.Join(v.Build, "."))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (v Version) String() string {
	return Format(v)
}

// Clone returns a copy of v that shares no memory with it.
func (v Version) Clone() Version {
	return Version{
		Major:      v.Major,
		Minor:      v.Minor,
		Patch:      v.Patch,
		Prerelease: cloneTokens(v.Prerelease),
		Build:      cloneTokens(v.Build),
	}
}

// Equal reports whether v and o have identical components. A nil and an
// empty token list are equal.
func (v Version) Equal(o Version) bool {
	return v.Major == o.Major &&
		v.Minor == o.Minor &&
		v.Patch == o.Patch &&
		equalTokens(v.Prerelease, o.Prerelease) &&
		equalTokens(v.Build, o.Build)
}

func cloneTokens(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsIdentifier reports whether s is a valid build metadata identifier.
func IsIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
}
