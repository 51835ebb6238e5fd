package provider

import (
	"cmp"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bcomnes/bumpversion/pkg/config"
	"github.com/bcomnes/bumpversion/pkg/errors"
	"github.com/bcomnes/bumpversion/pkg/version"
)

// semverExpr matches a full MAJOR.MINOR.PATCH version with optional
// prerelease and build. Identifiers are dot separated, so a trailing "."
// ending a sentence is not part of the version. An optional leading "v" is
// left outside the group so replacements keep it.
const semverExpr = `v?(?P<ver>\d+\.\d+\.\d+` +
	`(?:-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?` +
	`(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?)`

// VersionPattern is a named regexp with a "ver" group around the version.
type VersionPattern struct {
	Name  string
	Regex *regexp.Regexp
}

func pattern(name, expr string) VersionPattern {
	return VersionPattern{Name: name, Regex: regexp.MustCompile(strings.ReplaceAll(expr, "SEMVER", semverExpr))}
}

// MainVersionPatterns identify the version a file declares for itself:
// top-level manifest fields and version assignments at the start of a line.
var MainVersionPatterns = []VersionPattern{
	pattern("json-top-level", `(?m)^[ \t]{0,2}"version"\s*:\s*"SEMVER"`),
	pattern("toml-version", `(?m)^version\s*=\s*["']SEMVER["']`),
	pattern("yaml-version", `(?m)^version:\s*["']?SEMVER`),
	pattern("go-version", `(?m)^\s*(?:const\s+|var\s+)?Version\s*=\s*"SEMVER"`),
	pattern("version-assignment", `(?mi)^\s*(?:export\s+)?VERSION\s*[:=]\s*["']?SEMVER`),
	pattern("bare-version-file", `\A\s*SEMVER\s*\z`),
}

// CommonVersionPatterns are tried when no main pattern matches.
var CommonVersionPatterns = []VersionPattern{
	pattern("json-field", `"version"\s*:\s*"SEMVER"`),
	pattern("xml-version", `<version>SEMVER</version>`),
	pattern("python-version", `__version__\s*=\s*["']SEMVER["']`),
	pattern("annotation", `@version\s+SEMVER`),
	pattern("markdown-header", `(?m)^#+\s*(?:[Vv]ersion\s+)?SEMVER`),
	pattern("labelled", `(?i)\b(?:current\s+)?version:?\s+SEMVER`),
	pattern("package-at", `[\w/-]@SEMVER`),
	pattern("bare", `\bSEMVER`),
}

// VersionMatch locates a version inside a file's content.
type VersionMatch struct {
	Line    int // 1-based
	Start   int // byte offset of the version, after any "v"
	End     int
	Version string
	Pattern string
}

// FindVersions returns every version the patterns find in content, in file
// order. Text that matches a pattern but is not a valid version is skipped.
func FindVersions(content string, patterns []VersionPattern) []VersionMatch {
	var out []VersionMatch
	seen := map[int]bool{}
	for _, p := range patterns {
		group := p.Regex.SubexpIndex("ver")
		for _, loc := range p.Regex.FindAllStringSubmatchIndex(content, -1) {
			start, end := loc[2*group], loc[2*group+1]
			if start < 0 || seen[start] {
				continue
			}
			s := content[start:end]
			if _, err := version.Parse(s); err != nil {
				continue
			}
			seen[start] = true
			out = append(out, VersionMatch{
				Line:    strings.Count(content[:start], "\n") + 1,
				Start:   start,
				End:     end,
				Version: s,
				Pattern: p.Name,
			})
		}
	}
	slices.SortFunc(out, func(a, b VersionMatch) int { return cmp.Compare(a.Start, b.Start) })
	return out
}

// FindMainVersion returns the version a file most likely declares for
// itself, or nil when it contains none.
func FindMainVersion(content string) *VersionMatch {
	if ms := FindVersions(content, MainVersionPatterns); len(ms) > 0 {
		return &ms[0]
	}
	if ms := FindVersions(content, CommonVersionPatterns); len(ms) > 0 {
		return &ms[0]
	}
	return nil
}

// ReplaceVersion swaps the matched version for newVersion.
func ReplaceVersion(content string, m VersionMatch, newVersion string) string {
	return content[:m.Start] + newVersion + content[m.End:]
}

// File rewrites the version found in arbitrary text files. The first
// listed file is the source of the current version.
type File struct {
	env Env
	cfg config.FileConfig
}

// NewFile returns the file provider.
func NewFile(env Env, cfg config.FileConfig) *File {
	return &File{env: env, cfg: cfg}
}

// Name implements Provider.
func (p *File) Name() string { return "file" }

func (p *File) paths() []string {
	out := make([]string, 0, len(p.cfg.Files))
	for _, f := range p.cfg.Files {
		if !filepath.IsAbs(f) {
			f = filepath.Join(p.env.Dir, f)
		}
		out = append(out, f)
	}
	return out
}

// Bump implements Provider.
func (p *File) Bump(_ context.Context, req Request) (Result, error) {
	res := Result{Provider: p.Name()}
	if err := req.validate(); err != nil {
		return res, err
	}
	paths := p.paths()
	if len(paths) == 0 {
		return res, errors.New(errors.ErrCodeVersionNotFound, "no files configured for the file provider")
	}

	contents := make([]string, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return res, errors.WrapWithContext(errors.ErrCodeVersionNotFound, "cannot read file", err,
				map[string]any{"path": path})
		}
		contents[i] = string(data)
	}

	first := FindMainVersion(contents[0])
	if first == nil {
		return res, errors.NewWithContext(errors.ErrCodeVersionNotFound, "no version found in file",
			map[string]any{"path": paths[0]})
	}
	res.OldVersion = first.Version

	_, next, err := resolve(first.Version, req, p.env.Builds)
	if err != nil {
		return res, err
	}
	res.NewVersion = next.String()

	for i, path := range paths {
		m := FindMainVersion(contents[i])
		if m == nil {
			slog.Warn("no version found, skipping", "path", path)
			continue
		}
		slog.Info("updating version", "path", path, "line", m.Line, "old", m.Version, "new", res.NewVersion)
		res.UpdatedFiles = append(res.UpdatedFiles, path)
		if req.DryRun {
			continue
		}
		if err := writeFilePreservingMode(path, ReplaceVersion(contents[i], *m, res.NewVersion)); err != nil {
			return res, err
		}
	}
	return res, nil
}

func writeFilePreservingMode(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write file", err,
			map[string]any{"path": path})
	}
	return nil
}
