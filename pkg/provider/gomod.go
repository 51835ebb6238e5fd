package provider

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"

	"github.com/bcomnes/bumpversion/pkg/config"
	"github.com/bcomnes/bumpversion/pkg/errors"
)

// DefaultVersionFile is the go provider's version file when none is
// configured.
const DefaultVersionFile = "version.go"

var goVersionRe = regexp.MustCompile(`Version\s*=\s*"([^"]+)"`)

// Go keeps the version in a Go source file and follows major versions in
// go.mod and the module's own imports.
type Go struct {
	env Env
	cfg config.GoConfig
}

// NewGo returns the go provider.
func NewGo(env Env, cfg config.GoConfig) *Go {
	return &Go{env: env, cfg: cfg}
}

// Name implements Provider.
func (p *Go) Name() string { return "go" }

func (p *Go) versionFile() string {
	path := p.cfg.VersionFile
	if path == "" {
		path = DefaultVersionFile
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.env.Dir, path)
	}
	return path
}

// Bump implements Provider.
func (p *Go) Bump(ctx context.Context, req Request) (Result, error) {
	res := Result{Provider: p.Name()}
	if err := req.validate(); err != nil {
		return res, err
	}
	path := p.versionFile()
	g := git{r: p.env.Runner, dir: filepath.Dir(path)}

	if p.cfg.Commit && !req.DryRun {
		if _, err := p.env.Runner.LookPath("git"); err != nil {
			return res, err
		}
	}

	current, err := p.readCurrentVersion(ctx, path, g)
	if err != nil {
		return res, err
	}
	res.OldVersion = current
	if current == "dev" {
		current = "0.0.0"
	}

	_, next, err := resolve(strings.TrimPrefix(current, "v"), req, p.env.Builds)
	if err != nil {
		return res, err
	}
	res.NewVersion = next.String()
	files := []string{path}

	var modDir, oldMod, newMod string
	var imports []string
	if dir, err := locateGoModDir(filepath.Dir(path)); err == nil {
		gomod := filepath.Join(dir, "go.mod")
		oldMod, err = readModulePath(gomod)
		if err != nil {
			return res, err
		}
		newMod = majorModulePath(oldMod, res.NewVersion)
		if newMod != oldMod {
			modDir = dir
			files = append(files, gomod)
			imports, err = scanSelfImports(modDir, oldMod)
			if err != nil {
				return res, errors.Wrap(errors.ErrCodeInternal, "failed to scan imports", err)
			}
			files = append(files, imports...)
		}
	}
	res.UpdatedFiles = files

	slog.Info("bumping go version", "path", path, "old", res.OldVersion, "new", res.NewVersion, "module", newMod)
	if req.DryRun {
		return res, nil
	}

	if p.cfg.Commit {
		if err := g.checkClean(ctx, files); err != nil {
			return res, err
		}
	}
	if err := writeVersionFile(path, res.NewVersion); err != nil {
		return res, err
	}
	if modDir != "" {
		if err := updateGoMod(filepath.Join(modDir, "go.mod"), newMod); err != nil {
			return res, err
		}
		if _, err := updateSelfImports(imports, oldMod, newMod); err != nil {
			return res, errors.Wrap(errors.ErrCodeInternal, "failed to rewrite imports", err)
		}
	}
	if p.cfg.Commit {
		if err := g.commit(ctx, res.NewVersion, files); err != nil {
			return res, err
		}
	}
	return res, nil
}

// readCurrentVersion reads Version = "x" from path. A missing file falls
// back to the latest git tag, then to "dev".
func (p *Go) readCurrentVersion(ctx context.Context, path string, g git) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if _, lerr := p.env.Runner.LookPath("git"); lerr == nil {
			if tag, terr := g.latestTag(ctx); terr == nil {
				return tag, nil
			}
		}
		slog.Debug("no version file, starting from dev", "path", path)
		return "dev", nil
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeVersionNotFound, "failed to read version file", err)
	}
	m := goVersionRe.FindSubmatch(data)
	if m == nil {
		return "", errors.NewWithContext(errors.ErrCodeVersionNotFound, "failed to find version string in file",
			map[string]any{"path": path})
	}
	return string(m[1]), nil
}

// determinePackageName returns the package clause of path, or of the first
// non-test Go file next to it, defaulting to "version".
func determinePackageName(path string) string {
	if data, err := os.ReadFile(path); err == nil {
		if f, err := parser.ParseFile(token.NewFileSet(), path, data, parser.PackageClauseOnly); err == nil {
			return f.Name.Name
		}
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		return "version"
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(token.NewFileSet(), filepath.Join(filepath.Dir(path), name), nil, parser.PackageClauseOnly)
		if err == nil {
			return f.Name.Name
		}
	}
	return "version"
}

// writeVersionFile writes the version file, keeping its package name.
func writeVersionFile(path, v string) error {
	content := fmt.Sprintf("package %s\n\nvar (\n\tVersion = %q\n)\n", determinePackageName(path), v)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create directory", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to write version file", err)
	}
	return nil
}

// locateGoModDir walks up from dir to the directory holding go.mod.
func locateGoModDir(dir string) (string, error) {
	return findUp(dir, "go.mod")
}

func readModulePath(gomod string) (string, error) {
	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "reading go.mod", err)
	}
	f, err := modfile.ParseLax(gomod, data, nil)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "parsing go.mod", err)
	}
	if f.Module == nil {
		return "", errors.New(errors.ErrCodeInternal, "module directive not found in go.mod")
	}
	return f.Module.Mod.Path, nil
}

// majorModulePath returns modPath with the /vN suffix matching v. Major
// versions 0 and 1 have no suffix. gopkg.in paths always carry a .vN suffix.
func majorModulePath(modPath, v string) string {
	base, _, ok := module.SplitPathVersion(modPath)
	if !ok {
		base = modPath
	}
	maj := semver.Major("v" + v)
	if maj == "" {
		return modPath
	}
	if strings.HasPrefix(base, "gopkg.in/") {
		return base + "." + maj
	}
	if maj == "v0" || maj == "v1" {
		return base
	}
	return base + "/" + maj
}

func updateGoMod(gomod, newMod string) error {
	data, err := os.ReadFile(gomod)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "reading go.mod", err)
	}
	f, err := modfile.Parse(gomod, data, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "parsing go.mod", err)
	}
	if err := f.AddModuleStmt(newMod); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "setting module path", err)
	}
	out, err := f.Format()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "formatting go.mod", err)
	}
	if err := os.WriteFile(gomod, out, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "writing go.mod", err)
	}
	return nil
}

func isSelfImport(p, mod string) bool {
	return p == mod || strings.HasPrefix(p, mod+"/")
}

// scanSelfImports lists the .go files under modDir importing oldMod or one
// of its packages. Vendor directories and unparsable files are skipped.
func scanSelfImports(modDir, oldMod string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(modDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != modDir && (d.Name() == "vendor" || strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ImportsOnly)
		if err != nil {
			return nil
		}
		for _, imp := range f.Imports {
			if p, err := strconv.Unquote(imp.Path.Value); err == nil && isSelfImport(p, oldMod) {
				matches = append(matches, path)
				break
			}
		}
		return nil
	})
	return matches, err
}

// updateSelfImports rewrites oldMod imports to newMod in files.
func updateSelfImports(files []string, oldMod, newMod string) ([]string, error) {
	var modified []string
	for _, path := range files {
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return modified, err
		}
		changed := false
		for _, imp := range f.Imports {
			p, err := strconv.Unquote(imp.Path.Value)
			if err != nil || !isSelfImport(p, oldMod) {
				continue
			}
			imp.Path.Value = strconv.Quote(newMod + strings.TrimPrefix(p, oldMod))
			changed = true
		}
		if !changed {
			continue
		}
		var buf bytes.Buffer
		if err := format.Node(&buf, fset, f); err != nil {
			return modified, err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return modified, err
		}
		modified = append(modified, path)
	}
	return modified, nil
}
