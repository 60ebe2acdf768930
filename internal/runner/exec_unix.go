//go:build unix

package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/mmr-tortoise/dog/internal/command"
	"github.com/mmr-tortoise/dog/internal/logging"
	"github.com/mmr-tortoise/dog/internal/model"
)

// Exec implements Launcher by replacing the dog process with inv.
func (p *Process) Exec(_ context.Context, inv command.Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return 0, model.NewCLIError(model.ExitGeneralError, "empty command line")
	}
	path, err := exec.LookPath(inv.Args[0])
	if err != nil {
		return 0, model.WrapCLIError(model.ExitToolError,
			fmt.Sprintf("%s failed to run", inv.Program()), err)
	}
	logging.LogCommand(path, inv.Args[1:])

	if f, ok := p.Stdout.(*os.File); ok {
		_ = f.Sync()
	}
	if f, ok := p.Stderr.(*os.File); ok {
		_ = f.Sync()
	}

	env := append(os.Environ(), inv.Env...)
	err = unix.Exec(path, inv.Args, env)
	return 0, model.WrapCLIError(model.ExitToolError,
		fmt.Sprintf("%s failed to run", inv.Program()), err)
}
