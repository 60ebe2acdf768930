package logging

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is a terminal, so that colors are only
// used interactively.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
