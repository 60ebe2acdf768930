package cli

import (
	"context"
	"io"
	"os"

	"github.com/adrg/xdg"

	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/docker"
	"github.com/mmr-tortoise/dog/internal/host"
	"github.com/mmr-tortoise/dog/internal/resolve"
	"github.com/mmr-tortoise/dog/internal/runner"
	"github.com/mmr-tortoise/dog/internal/usb"
)

// ListerFactory returns the container name lister to use for cfg and a
// function releasing it.
type ListerFactory func(ctx context.Context, cfg config.Config, launcher runner.Launcher) (docker.NameLister, func(), error)

// App holds everything one dog invocation talks to outside of its own
// memory. NewApp wires the real collaborators; tests replace them.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	// LookupEnv reads host environment variables.
	LookupEnv config.LookupEnv

	// Facts gathers the identity and working directory of the invocation.
	Facts func(config.LookupEnv) (host.Facts, error)

	// Home is the host home directory holding the user config file.
	Home string

	FS       host.FileSystem
	USB      resolve.DeviceProvider
	Launcher runner.Launcher
	Lister   ListerFactory
}

// NewApp returns an App for the current process.
func NewApp() *App {
	return &App{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
		Facts:     host.Gather,
		Home:      xdg.Home,
		FS:        host.OSFileSystem{},
		USB:       usb.NewSysfs(),
		Launcher:  runner.NewProcess(),
		Lister:    docker.NewLister,
	}
}
