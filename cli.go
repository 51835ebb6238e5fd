package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"reflect"
	"slices"
	"strings"

	"github.com/fatih/color"
	flags "github.com/jessevdk/go-flags"

	"github.com/bcomnes/bumpversion/pkg/buildnum"
	"github.com/bcomnes/bumpversion/pkg/config"
	"github.com/bcomnes/bumpversion/pkg/errors"
	"github.com/bcomnes/bumpversion/pkg/logging"
	"github.com/bcomnes/bumpversion/pkg/provider"
	"github.com/bcomnes/bumpversion/pkg/runner"
	"github.com/bcomnes/bumpversion/pkg/version"
)

// incrementValue is what go-flags stores for a bump switch given without
// a value. It can never be a valid number or build identifier.
const incrementValue = "+"

// CLI struct
type CLI struct {
	outStream, errStream io.Writer
	// dir overrides the working directory.
	dir string

	Provider      string  `long:"provider" short:"p" arg:"(node|fastlane|agvtool|go|file)" description:"Version provider (default: node, or the config file's provider)"`
	Config        string  `long:"config" short:"c" arg:"path" description:"Path to configuration file (default: bumpversion.json)"`
	Major         *string `long:"major" optional:"yes" optional-value:"+" arg:"N" description:"Increment the major version, or set it to N"`
	Minor         *string `long:"minor" optional:"yes" optional-value:"+" arg:"N" description:"Increment the minor version, or set it to N"`
	Patch         *string `long:"patch" optional:"yes" optional-value:"+" arg:"N" description:"Increment the patch version, or set it to N"`
	Build         *string `long:"build" optional:"yes" optional-value:"+" arg:"V" description:"Generate a new build number, or set it to V"`
	NewVersion    string  `long:"new-version" arg:"version" description:"Replace the whole version"`
	BuildStrategy string  `long:"build-strategy" arg:"(timestamp|counter)" description:"How --build generates build numbers (default: timestamp)"`
	DryRun        bool    `long:"dry-run" short:"n" description:"Show what would change without running anything"`
	LogLevel      string  `long:"log-level" short:"l" arg:"(debug|info|warn|error)" description:"Level displayed as log (default: warn)"`
	LogFormat     string  `long:"log-format" arg:"(text|json)" description:"Log output format (default: text)"`
	Help          bool    `long:"help" short:"h" description:"show this help message and exit"`
	Version       bool    `long:"version" short:"v" description:"prints the version number"`
}

// RunCLI runs as CLI
func RunCLI(o, e io.Writer, a []string) int {
	cli := &CLI{outStream: o, errStream: e}
	return cli.run(a)
}

func (c *CLI) buildHelp(names []string) []string {
	var help []string
	t := reflect.TypeOf(CLI{})

	for _, name := range names {
		f, ok := t.FieldByName(name)
		if !ok {
			continue
		}

		tag := f.Tag
		if tag == "" {
			continue
		}

		var o, a string
		if a = tag.Get("arg"); a != "" {
			if tag.Get("optional") == "yes" {
				a = fmt.Sprintf("[=%s]", a)
			} else {
				a = fmt.Sprintf("=%s", a)
			}
		}
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s%s", tag.Get("short"), tag.Get("long"), a)
		} else {
			o = fmt.Sprintf("    --%s%s", tag.Get("long"), a)
		}

		desc := tag.Get("description")
		if i := strings.Index(desc, "\n"); i >= 0 {
			var buf bytes.Buffer
			buf.WriteString(desc[:i+1])
			desc = desc[i+1:]
			const indent = "                                           "
			for {
				if i = strings.Index(desc, "\n"); i >= 0 {
					buf.WriteString(indent)
					buf.WriteString(desc[:i+1])
					desc = desc[i+1:]
					continue
				}
				break
			}
			if len(desc) > 0 {
				buf.WriteString(indent)
				buf.WriteString(desc)
			}
			desc = buf.String()
		}
		help = append(help, fmt.Sprintf("  %-40s %s", o, desc))
	}

	return help
}

func (c *CLI) showHelp() {
	bumps := strings.Join(c.buildHelp([]string{
		"Major",
		"Minor",
		"Patch",
		"Build",
		"NewVersion",
	}), "\n")
	opts := strings.Join(c.buildHelp([]string{
		"Provider",
		"Config",
		"BuildStrategy",
		"DryRun",
		"LogLevel",
		"LogFormat",
		"Help",
		"Version",
	}), "\n")

	help := `
Usage: %s [options] <bump>

Bumps the project version through the selected provider. Exactly one bump
switch is required.

Bumps:
%s

Options:
%s

Examples:
  %[1]s --minor                 1.2.3 -> 1.3.0
  %[1]s --major=5               1.2.3-beta -> 5.2.3-beta
  %[1]s --build                 1.2.3 -> 1.2.3+20240102030405
  %[1]s -p go --new-version=2.0.0
`
	fmt.Fprintf(c.outStream, help, name, bumps, opts)
}

func (c *CLI) printError(err error) int {
	color.New(color.FgRed).Fprintf(c.errStream, "Error: %s\n", err)
	return errors.ExitCode(err)
}

func (c *CLI) run(a []string) int {
	p := flags.NewParser(c, flags.PassDoubleDash)
	args, err := p.ParseArgs(a)
	if err != nil {
		code := c.printError(errors.Wrap(errors.ErrCodeArgument, "invalid arguments", err))
		c.showHelp()
		return code
	}

	if c.Help {
		c.showHelp()
		return errors.ExitOK
	}

	if c.Version {
		fmt.Fprintf(c.outStream, "%s version %s\n", name, Version)
		return errors.ExitOK
	}

	if len(args) > 0 {
		return c.printError(errors.Newf(errors.ErrCodeArgument, "unexpected argument %q%s", args[0], valueHint(a, args[0])))
	}

	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	logging.SetDefault(c.LogLevel, c.LogFormat, c.errStream)

	req, err := c.request()
	if err != nil {
		return c.printError(err)
	}

	dir := c.dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return c.printError(errors.Wrap(errors.ErrCodeInternal, "cannot determine working directory", err))
		}
	}

	conf, err := config.Load(dir, c.Config)
	if err != nil {
		return c.printError(err)
	}

	strategy := conf.Build.Strategy
	if c.BuildStrategy != "" {
		strategy = c.BuildStrategy
	}
	builds, err := buildnum.New(strategy, conf.Build.Layout)
	if err != nil {
		return c.printError(errors.Wrap(errors.ErrCodeArgument, "invalid build strategy", err))
	}

	r := runner.New(dir)
	r.Stdout = c.outStream
	r.Stderr = c.errStream
	env := provider.Env{Dir: dir, Runner: r, Builds: builds}
	prov, err := provider.Default(env, conf).Get(provider.Select(c.Provider, conf))
	if err != nil {
		return c.printError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := prov.Bump(ctx, req)
	if err != nil {
		return c.printError(err)
	}
	c.printResult(res, req.DryRun)
	return errors.ExitOK
}

// request turns the bump switches into a provider request. Exactly one of
// them must be given.
func (c *CLI) request() (provider.Request, error) {
	req := provider.Request{DryRun: c.DryRun}

	switches := map[version.Component]*string{
		version.Major: c.Major,
		version.Minor: c.Minor,
		version.Patch: c.Patch,
		version.Build: c.Build,
	}
	var given []string
	for _, comp := range version.Components {
		value := switches[comp]
		if value == nil {
			continue
		}
		given = append(given, "--"+string(comp))
		in := version.IncrementOf(comp)
		if *value != incrementValue {
			in = version.SetTo(comp, *value)
		}
		req.Instruction = &in
	}
	if c.NewVersion != "" {
		given = append(given, "--new-version")
		req.NewVersion = c.NewVersion
	}

	switch len(given) {
	case 0:
		return req, errors.New(errors.ErrCodeArgument,
			"one of the bump types must be specified: --major, --minor, --patch, --build or --new-version")
	case 1:
		return req, nil
	}
	return req, errors.NewWithContext(errors.ErrCodeArgument,
		"only one bump type may be specified, got "+strings.Join(given, ", "),
		map[string]any{"given": given})
}

// valueHint suggests the --switch=value form when a stray argument directly
// follows a bump switch. Optional values cannot be space separated.
func valueHint(a []string, arg string) string {
	i := slices.Index(a, arg)
	if i < 1 || !strings.HasPrefix(a[i-1], "--") {
		return ""
	}
	comp, err := version.ParseComponent(strings.TrimPrefix(a[i-1], "--"))
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" (use --%s=%s to set a value)", comp, arg)
}

func (c *CLI) printResult(res provider.Result, dryRun bool) {
	if dryRun {
		color.New(color.FgYellow).Fprintln(c.outStream, "Dry run complete, nothing was changed.")
	} else {
		color.New(color.FgGreen).Fprintln(c.outStream, "Version bump successful!")
	}
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(c.outStream, "Provider:    %s\n", res.Provider)
	if res.OldVersion != "" {
		fmt.Fprintf(c.outStream, "Old Version: %s\n", res.OldVersion)
	}
	if res.NewVersion != "" {
		fmt.Fprintf(c.outStream, "New Version: %s\n", bold(res.NewVersion))
	}
	if len(res.Command) > 0 {
		fmt.Fprintf(c.outStream, "Command:     %s\n", runner.CommandLine(res.Command[0], res.Command[1:]...))
	}
	if len(res.UpdatedFiles) > 0 {
		if dryRun {
			fmt.Fprintln(c.outStream, "Files that would be updated:")
		} else {
			fmt.Fprintln(c.outStream, "Files updated:")
		}
		for _, f := range res.UpdatedFiles {
			fmt.Fprintf(c.outStream, "  %s\n", f)
		}
	}
}
