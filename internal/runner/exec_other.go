//go:build !unix

package runner

import (
	"context"

	"github.com/mmr-tortoise/dog/internal/command"
)

// Exec implements Launcher. Without exec(2) the command runs as a child
// with the terminal attached.
func (p *Process) Exec(ctx context.Context, inv command.Invocation) (int, error) {
	return p.Run(ctx, inv, false)
}
