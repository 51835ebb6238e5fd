// Package runner runs the external tools that persist a version.
package runner

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/cli/safeexec"

	"github.com/bcomnes/bumpversion/pkg/errors"
)

// Runner locates and runs external commands.
type Runner interface {
	// LookPath reports the path of an executable, or an
	// EXECUTABLE_NOT_FOUND error.
	LookPath(name string) (string, error)
	// Run runs a command attached to the runner's stdio. A non-zero exit
	// is a SUBCOMMAND error.
	Run(ctx context.Context, name string, args ...string) error
	// Output runs a command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// Exec runs commands on the host.
type Exec struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Exec attached to the process stdio.
func New(dir string) *Exec {
	return &Exec{
		Dir:    dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// LookPath implements Runner. It does not resolve executables from the
// current directory on Windows.
func (e *Exec) LookPath(name string) (string, error) {
	path, err := safeexec.LookPath(name)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeExecutableNotFound, "`"+name+"` must be installed", err,
			map[string]any{"executable": name})
	}
	return path, nil
}

func (e *Exec) command(ctx context.Context, name string, args []string) (*exec.Cmd, error) {
	path, err := e.LookPath(name)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = e.Dir
	return cmd, nil
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd, err := e.command(ctx, name, args)
	if err != nil {
		return err
	}
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	slog.Debug("running command", "cmd", name, "args", args, "dir", e.Dir)
	if err := cmd.Run(); err != nil {
		return errors.WrapWithContext(errors.ErrCodeSubcommand, "command run unsuccessful", err,
			map[string]any{"cmd": name, "args": args})
	}
	return nil
}

// Output implements Runner.
func (e *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd, err := e.command(ctx, name, args)
	if err != nil {
		return "", err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Debug("capturing command output", "cmd", name, "args", args, "dir", e.Dir)
	out, err := cmd.Output()
	if err != nil {
		msg := "command run unsuccessful"
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			msg += ": " + detail
		}
		return "", errors.WrapWithContext(errors.ErrCodeSubcommand, msg, err,
			map[string]any{"cmd": name, "args": args})
	}
	return string(out), nil
}

// CommandLine renders name and args for display.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
