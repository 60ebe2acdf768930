package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mmr-tortoise/dog/internal/command"
	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/docker"
	"github.com/mmr-tortoise/dog/internal/host"
	"github.com/mmr-tortoise/dog/internal/logging"
	"github.com/mmr-tortoise/dog/internal/model"
	"github.com/mmr-tortoise/dog/internal/resolve"
)

// run performs one invocation: sanity check, pull, then either the compose
// run or the volumes-from helpers followed by the container run.
func (a *App) run(ctx context.Context, opts *options, overrides config.Config) error {
	logging.Setup(a.Stderr, opts.verbose)

	layers, cfg, err := a.readConfig(overrides)
	if err != nil {
		return err
	}

	verbose, err := cfg.Flag(config.KeyVerbose)
	if err != nil {
		return err
	}
	if verbose {
		logging.Setup(a.Stderr, true)
		if err := dumpLayers(a.Stdout, layers, cfg); err != nil {
			return err
		}
	}

	sanityCheck, err := cfg.Flag(config.KeySanityCheck)
	if err != nil {
		return err
	}
	always, err := cfg.Flag(config.KeySanityCheckAlways)
	if err != nil {
		return err
	}
	if sanityCheck || always {
		if err := a.sanityCheck(ctx, cfg); err != nil {
			return err
		}
		if sanityCheck {
			return nil
		}
	}

	pull, err := cfg.Flag(config.KeyPull)
	if err != nil {
		return err
	}
	if pull {
		if err := a.pull(ctx, cfg, verbose); err != nil {
			return err
		}
	}

	if command.IsCompose(cfg) {
		return a.composeRun(ctx, cfg, verbose)
	}

	autoRun, err := cfg.Flag(config.KeyAutoRunVolumesFrom)
	if err != nil {
		return err
	}
	if autoRun {
		if err := a.materializeVolumesFrom(ctx, cfg); err != nil {
			return err
		}
	}
	return a.containerRun(ctx, cfg, verbose)
}

// readConfig gathers and merges every configuration layer and resolves
// the dependent values. The layers are returned for the verbose dump.
func (a *App) readConfig(overrides config.Config) (config.Layers, config.Config, error) {
	facts, err := a.Facts(a.LookupEnv)
	if err != nil {
		return config.Layers{}, config.Config{}, err
	}
	pathing := host.PathingFor(facts)

	layers := config.Layers{
		Defaults:    config.Defaults(),
		Environment: host.Snapshot(facts, pathing),
		CommandLine: overrides,
	}

	userPath := config.UserConfigPath(a.Home)
	if info, err := os.Stat(userPath); err == nil && info.Mode().IsRegular() {
		if layers.User, err = config.ReadChain(userPath, a.LookupEnv); err != nil {
			return config.Layers{}, config.Config{}, err
		}
	}

	projectPath, err := config.FindProjectConfig(facts.Cwd)
	if err != nil {
		return config.Layers{}, config.Config{}, err
	}
	if layers.Project, err = config.ReadChain(projectPath, a.LookupEnv); err != nil {
		return config.Layers{}, config.Config{}, err
	}

	cfg, err := resolve.Resolve(layers.Merge(), resolve.Deps{
		Pathing:  pathing,
		FS:       a.FS,
		USB:      a.USB,
		HostHome: a.Home,
	})
	if err != nil {
		return config.Layers{}, config.Config{}, err
	}
	return layers, cfg, nil
}

// sanityCheck verifies that the tool cfg runs with is at least the
// configured minimum version.
func (a *App) sanityCheck(ctx context.Context, cfg config.Config) error {
	q, err := command.ToolVersion(cfg)
	if err != nil {
		return err
	}
	minimum, err := cfg.Text(q.MinimumKey)
	if err != nil {
		return err
	}

	out, code, err := a.Launcher.Output(ctx, q.Invocation)
	if err != nil {
		return err
	}
	if code != 0 {
		return model.NewCLIErrorf(model.ExitToolError, "%s failed to run", q.Tool)
	}
	version, ok := command.ParseToolVersion(out)
	if !ok {
		return model.NewCLIErrorf(model.ExitToolError, "Could not parse version info from %s", q.Tool)
	}
	if command.VersionLess(version, minimum) {
		return model.NewCLIErrorf(model.ExitToolError,
			"Version of %s (%s) is less than the minimum required version (%s)",
			q.Tool, version, minimum)
	}
	logger := logging.GetLogger("cli")
	logger.Debug().
		Str("tool", q.Tool).
		Str("version", version).
		Str("minimum", minimum).
		Msg("Sanity check passed")
	return nil
}

// pull fetches the image before the run. A failed pull ends dog with the
// exit code of the pull.
func (a *App) pull(ctx context.Context, cfg config.Config, verbose bool) error {
	inv, err := command.Pull(cfg)
	if err != nil {
		return err
	}
	a.echo(verbose, inv)
	code, err := a.Launcher.Run(ctx, inv, false)
	if err != nil {
		return err
	}
	if code != 0 {
		fmt.Fprintf(a.Stdout, "ERROR %d while pulling:\n", code)
		return &model.ExitStatus{Code: code}
	}
	return nil
}

// composeRun runs the compose service and then removes what the run left
// behind, whatever its outcome.
func (a *App) composeRun(ctx context.Context, cfg config.Config, verbose bool) error {
	inv, err := command.Compose(cfg)
	if err != nil {
		return err
	}
	cleanup, err := command.ComposeCleanup(cfg)
	if err != nil {
		return err
	}
	file, err := command.ComposeFile(cfg)
	if err != nil {
		return err
	}
	service, err := cfg.String(config.KeyComposeService)
	if err != nil {
		return err
	}
	if err := docker.ValidateComposeService(file, service); err != nil {
		return err
	}

	a.echo(verbose, inv)
	code, runErr := a.Launcher.Run(ctx, inv, false)

	// The cleanup also runs after Ctrl+C.
	if _, err := a.Launcher.Run(context.WithoutCancel(ctx), cleanup, !verbose); err != nil {
		logger := logging.GetLogger("cli")
		logger.Warn().Err(err).Msg("Compose cleanup failed")
	}

	if runErr != nil {
		return runErr
	}
	if code != 0 {
		return &model.ExitStatus{Code: code}
	}
	return nil
}

func (a *App) materializeVolumesFrom(ctx context.Context, cfg config.Config) error {
	helpers, err := command.Helpers(cfg)
	if err != nil || len(helpers) == 0 {
		return err
	}
	lister, release, err := a.Lister(ctx, cfg, a.Launcher)
	if err != nil {
		return err
	}
	defer release()
	return docker.MaterializeVolumesFrom(ctx, cfg, lister, a.Launcher, a.Stdout)
}

// containerRun hands the terminal over to the container run. Where the
// dog process is replaced this only returns on failure.
func (a *App) containerRun(ctx context.Context, cfg config.Config, verbose bool) error {
	inv, err := command.Run(cfg)
	if err != nil {
		return err
	}
	a.echo(verbose, inv)
	code, err := a.Launcher.Exec(ctx, inv)
	if err != nil {
		return err
	}
	if code != 0 {
		return &model.ExitStatus{Code: code}
	}
	return nil
}

// echo prints a command line in verbose mode.
func (a *App) echo(verbose bool, inv command.Invocation) {
	if verbose {
		fmt.Fprintln(a.Stdout, inv.String())
	}
}
