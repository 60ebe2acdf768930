package docker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mmr-tortoise/dog/internal/command"
	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/logging"
	"github.com/mmr-tortoise/dog/internal/model"
	"github.com/mmr-tortoise/dog/internal/runner"
)

// NameLister lists the names of all containers known to the runtime,
// including stopped ones.
type NameLister interface {
	ContainerNames(ctx context.Context) ([]string, error)
}

// ContainerNames lists every container through the Engine API. The All
// flag includes stopped containers: a stopped helper still provides its
// volumes.
func (c *Client) ContainerNames(ctx context.Context) ([]string, error) {
	summaries, err := c.inner.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitToolError, "failed to list Docker containers", err)
	}
	return namesOf(summaries), nil
}

// namesOf flattens the names of all containers. The Engine API reports
// names with a leading "/" (e.g., "/sdk"), which is not part of the name
// used on the command line.
func namesOf(summaries []container.Summary) []string {
	var names []string
	for _, s := range summaries {
		for _, n := range s.Names {
			names = append(names, strings.TrimPrefix(n, "/"))
		}
	}
	return names
}

// CLILister lists container names by running
// "<runtime> container ls -a --format={{.Names}}". It works for podman and
// for Docker daemons the SDK cannot reach.
type CLILister struct {
	Config   config.Config
	Launcher runner.Launcher
}

// ContainerNames implements NameLister. A failing listing yields no names,
// so every helper is treated as missing and creating it reports the
// actual problem.
func (l CLILister) ContainerNames(ctx context.Context) ([]string, error) {
	inv, err := command.ListContainers(l.Config)
	if err != nil {
		return nil, err
	}
	out, code, err := l.Launcher.Output(ctx, inv)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, nil
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// NewLister picks how to list containers for cfg. The Engine API is used
// for the docker runtime when a daemon answers a ping; otherwise the
// runtime CLI is asked. The returned function releases the SDK client.
func NewLister(ctx context.Context, cfg config.Config, launcher runner.Launcher) (NameLister, func(), error) {
	cli := CLILister{Config: cfg, Launcher: launcher}

	usePodman, err := cfg.Flag(config.KeyUsePodman)
	if err != nil {
		return nil, nil, err
	}
	useSudo, err := cfg.Flag(config.KeySudoOutsideDocker)
	if err != nil {
		return nil, nil, err
	}
	// A daemon that needs sudo is not reachable with our own credentials.
	if usePodman || useSudo {
		return cli, func() {}, nil
	}

	logger := logging.GetLogger("docker")
	c, err := NewClient()
	if err != nil {
		logger.Debug().Err(err).Msg("Docker SDK unavailable, listing containers through the CLI")
		return cli, func() {}, nil
	}
	if err := c.Ping(ctx); err != nil {
		logger.Debug().Err(err).Msg("Docker daemon unreachable through the SDK, listing containers through the CLI")
		c.Close()
		return cli, func() {}, nil
	}
	return c, func() { c.Close() }, nil
}

// MaterializeVolumesFrom creates every volumes-from helper container that
// does not exist yet. Helpers are started concurrently and all of them are
// awaited before returning. Unless volumes-from-silent is set, a notice is
// written to out for each helper about to be created.
//
// A helper whose creation exits nonzero is logged and otherwise ignored:
// the main run reports the missing container in its own words.
func MaterializeVolumesFrom(ctx context.Context, cfg config.Config, lister NameLister, launcher runner.Launcher, out io.Writer) error {
	helpers, err := command.Helpers(cfg)
	if err != nil || len(helpers) == 0 {
		return err
	}

	existing, err := lister.ContainerNames(ctx)
	if err != nil {
		return err
	}
	missing := missingHelpers(helpers, existing)
	if len(missing) == 0 {
		return nil
	}

	silent, err := cfg.Flag(config.KeyVolumesFromSilent)
	if err != nil {
		return err
	}
	if !silent {
		for _, h := range missing {
			fmt.Fprintf(out, "Dog creating volumes_from container: %s ...\n", h.Name)
		}
	}

	logger := logging.GetLogger("docker")
	var g errgroup.Group
	for _, h := range missing {
		h := h
		inv, err := command.VolumesFromHelper(cfg, h)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return createHelper(ctx, launcher, inv, h, logger)
		})
	}
	return g.Wait()
}

func createHelper(ctx context.Context, launcher runner.Launcher, inv command.Invocation, h command.Helper, logger zerolog.Logger) error {
	code, err := launcher.Run(ctx, inv, true)
	if err != nil {
		return err
	}
	if code != 0 {
		logger.Warn().
			Str("container", h.Name).
			Str("image", h.Image).
			Int("exit_code", code).
			Msg("Creating volumes_from container failed")
	}
	return nil
}

// missingHelpers returns the helpers whose name is not in existing, in
// declaration order and without duplicates.
func missingHelpers(helpers []command.Helper, existing []string) []command.Helper {
	seen := make(map[string]bool, len(existing))
	for _, name := range existing {
		seen[name] = true
	}
	var missing []command.Helper
	for _, h := range helpers {
		if seen[h.Name] {
			continue
		}
		seen[h.Name] = true
		missing = append(missing, h)
	}
	return missing
}
