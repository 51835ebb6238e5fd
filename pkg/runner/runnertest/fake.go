// Package runnertest provides a recording runner.Runner for tests.
package runnertest

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	bverrors "github.com/bcomnes/bumpversion/pkg/errors"
)

// Call is one recorded Run or Output invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Fake records commands instead of running them.
type Fake struct {
	mu sync.Mutex

	// Installed lists the executables LookPath finds.
	Installed []string
	// Outputs maps a rendered command line to the stdout Output returns.
	Outputs map[string]string
	// Fail makes Run and Output fail for the rendered command lines listed.
	Fail []string

	Calls []Call
}

// New returns a Fake with the given executables installed.
func New(installed ...string) *Fake {
	return &Fake{Installed: installed, Outputs: map[string]string{}}
}

// LookPath implements runner.Runner.
func (f *Fake) LookPath(name string) (string, error) {
	if slices.Contains(f.Installed, name) {
		return "/usr/bin/" + name, nil
	}
	return "", bverrors.Wrap(bverrors.ErrCodeExecutableNotFound, "`"+name+"` must be installed", errors.New("executable file not found in $PATH"))
}

func (f *Fake) record(name string, args []string) (Call, error) {
	if _, err := f.LookPath(name); err != nil {
		return Call{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := Call{Name: name, Args: slices.Clone(args)}
	f.Calls = append(f.Calls, c)
	if slices.Contains(f.Fail, c.String()) {
		return c, bverrors.Wrap(bverrors.ErrCodeSubcommand, "command run unsuccessful", errors.New("exit status 1"))
	}
	return c, nil
}

// Run implements runner.Runner.
func (f *Fake) Run(_ context.Context, name string, args ...string) error {
	_, err := f.record(name, args)
	return err
}

// Output implements runner.Runner.
func (f *Fake) Output(_ context.Context, name string, args ...string) (string, error) {
	c, err := f.record(name, args)
	if err != nil {
		return "", err
	}
	return f.Outputs[c.String()], nil
}

// Commands returns the recorded calls as command lines.
func (f *Fake) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}
