// Package runner starts the external commands dog builds and reports how
// they ended.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/mmr-tortoise/dog/internal/command"
	"github.com/mmr-tortoise/dog/internal/logging"
	"github.com/mmr-tortoise/dog/internal/model"
)

// Launcher executes invocations.
type Launcher interface {
	// Exec hands the terminal over to inv. On POSIX hosts the dog process
	// is replaced and Exec only returns on failure; elsewhere inv runs as
	// a child and its exit code is returned.
	Exec(ctx context.Context, inv command.Invocation) (int, error)

	// Run starts inv with the terminal attached, or with output discarded
	// when quiet is set, and waits for it.
	Run(ctx context.Context, inv command.Invocation, quiet bool) (int, error)

	// Output runs inv and returns what it wrote to stdout. Its stderr is
	// discarded.
	Output(ctx context.Context, inv command.Invocation) (string, int, error)
}

// Interrupted is the error reported when the user pressed Ctrl+C while an
// external command was running.
func Interrupted() *model.CLIError {
	return model.NewCLIError(model.ExitInterrupted, "Dog received Ctrl+C")
}

// Process launches real operating system processes.
type Process struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewProcess returns a launcher wired to the standard streams.
func NewProcess() *Process {
	return &Process{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run implements Launcher. The child is not killed when ctx is cancelled:
// it shares the terminal and receives the same Ctrl+C, so dog waits for it
// to finish and then reports the interrupt.
func (p *Process) Run(ctx context.Context, inv command.Invocation, quiet bool) (int, error) {
	cmd, err := p.command(inv)
	if err != nil {
		return 0, err
	}
	cmd.Stdin = p.Stdin
	if !quiet {
		cmd.Stdout = p.Stdout
		cmd.Stderr = p.Stderr
	}
	return wait(ctx, cmd, inv)
}

// Output implements Launcher.
func (p *Process) Output(ctx context.Context, inv command.Invocation) (string, int, error) {
	cmd, err := p.command(inv)
	if err != nil {
		return "", 0, err
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	code, err := wait(ctx, cmd, inv)
	return stdout.String(), code, err
}

func (p *Process) command(inv command.Invocation) (*exec.Cmd, error) {
	if len(inv.Args) == 0 {
		return nil, model.NewCLIError(model.ExitGeneralError, "empty command line")
	}
	logging.LogCommand(inv.Args[0], inv.Args[1:])

	cmd := exec.Command(inv.Args[0], inv.Args[1:]...)
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}
	return cmd, nil
}

func wait(ctx context.Context, cmd *exec.Cmd, inv command.Invocation) (int, error) {
	if err := cmd.Start(); err != nil {
		return 0, model.WrapCLIError(model.ExitToolError,
			fmt.Sprintf("%s failed to run", inv.Program()), err)
	}
	err := cmd.Wait()
	if ctx.Err() != nil {
		return 0, Interrupted()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return 0, model.WrapCLIError(model.ExitToolError,
				fmt.Sprintf("%s failed to run", inv.Program()), err)
		}
	}
	return exitCode(cmd), nil
}

// exitCode maps a finished process to an exit status. A child killed by a
// signal has no exit code of its own and is reported as 255.
func exitCode(cmd *exec.Cmd) int {
	code := cmd.ProcessState.ExitCode()
	if code < 0 {
		return int(model.ExitInterrupted)
	}
	return code
}
