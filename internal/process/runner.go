package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCommandFailed is wrapped by every ExitError.
var ErrCommandFailed = errors.New("command failed")

// Command describes one external tool invocation.
type Command struct {
	// Name is the executable, resolved through PATH.
	Name string
	// Args are passed verbatim, without shell interpretation.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// String renders the command line for logs.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is the outcome of a finished command.
type Result struct {
	// ExitCode is the process exit status, -1 if it never ran or was killed.
	ExitCode int
	// Stdout holds everything the command wrote to standard output.
	Stdout []byte
	// Stderr holds everything the command wrote to standard error.
	Stderr []byte
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	// Name is the executable that failed.
	Name string
	// ExitCode is the non-zero exit status.
	ExitCode int
	// Stderr is the trimmed error output of the command.
	Stderr string
}

// Error implements error.
func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Name, e.ExitCode)
	}

	return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.ExitCode, e.Stderr)
}

// Unwrap lets callers match ErrCommandFailed.
func (e *ExitError) Unwrap() error {
	return ErrCommandFailed
}

// Runner runs external tools. Tests substitute fakes for ExecRunner.
type Runner interface {
	// LookPath resolves an executable name on PATH.
	LookPath(name string) (string, error)
	// Run executes the command and blocks until it exits.
	Run(ctx context.Context, cmd *Command) (*Result, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// NewExecRunner returns a Runner that spawns real processes.
func NewExecRunner() *ExecRunner {
	return new(ExecRunner)
}

// LookPath implements Runner.
func (*ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements Runner. No timeout is applied; only ctx cancellation stops the process.
func (*ExecRunner) Run(ctx context.Context, cmd *Command) (*Result, error) {
	var stdout, stderr bytes.Buffer

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()

	result := &Result{
		ExitCode: -1,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}

	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}

	if err == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("run %s: %w", cmd.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return result, &ExitError{
			Name:     cmd.Name,
			ExitCode: result.ExitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}

	return result, fmt.Errorf("run %s: %w", cmd.Name, err)
}
