// Package cli implements the dog command line: flag parsing with cobra,
// the layered configuration read, and the sequence of external commands
// that make up one invocation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/logging"
	"github.com/mmr-tortoise/dog/internal/model"
)

// NewRootCommand creates the dog command. dog has no subcommands: every
// positional argument belongs to the command run in the container.
func (a *App) NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "dog [flags] [--] command [args...]",
		Short: "Run a command inside the docker image configured in dog.config",
		Long: `dog runs a command inside a container. The image, volumes, ports,
devices and user mapping are read from the nearest dog.config, merged with
~/.dog.config and the flags given here.

Everything after the first argument that does not start with "-" is passed
to the container unchanged.`,

		// Errors are printed by Main in dog's own format.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: strconv.Itoa(config.Version),

		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case opts.sanityCheck && len(args) > 0:
				return usageErrorf("argument --sanity-check: not allowed with a command")
			case !opts.sanityCheck && len(args) == 0:
				return usageErrorf("one of the arguments command --sanity-check is required")
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), opts, opts.overrides(cmd.Flags(), args))
		},
	}

	rootCmd.SetVersionTemplate("dog version {{.Version}}\n")
	rootCmd.SetOut(a.Stdout)
	rootCmd.SetErr(a.Stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return model.WrapCLIError(model.ExitUsage, "invalid arguments", err)
	})

	flags := rootCmd.Flags()
	flags.SetInterspersed(false)
	opts.register(flags)
	rootCmd.MarkFlagsMutuallyExclusive("interactive", "not-interactive")
	rootCmd.MarkFlagsMutuallyExclusive("terminal", "no-terminal")

	return rootCmd
}

func usageErrorf(format string, args ...any) error {
	return model.NewCLIErrorf(model.ExitUsage, format, args...)
}

// Main runs dog with argv as received by the process (program name
// first) and returns the exit code.
func (a *App) Main(ctx context.Context, argv []string) int {
	ownName, rest := "dog", []string(nil)
	if len(argv) > 0 {
		ownName, rest = filepath.Base(argv[0]), argv[1:]
	}

	rootCmd := a.NewRootCommand()
	rootCmd.SetArgs(PrepareArgs(ownName, rest))
	return a.report(rootCmd.ExecuteContext(ctx))
}

// report prints err in dog's format and maps it to an exit code.
//
// The exit status of a wrapped command is returned silently. Errors that
// are not a CLIError come from the flag parser and are usage errors.
func (a *App) report(err error) int {
	var status *model.ExitStatus
	if err == nil || errors.As(err, &status) {
		return model.ExitCodeOf(err)
	}

	var cliErr *model.CLIError
	if !errors.As(err, &cliErr) {
		cliErr = model.WrapCLIError(model.ExitUsage, "invalid arguments", err)
		err = cliErr
	}

	switch cliErr.Code {
	case model.ExitInterrupted:
		fmt.Fprintln(a.Stdout, cliErr.Message)
	case model.ExitUsage:
		a.printError(cliErr.Error())
		fmt.Fprintln(a.Stderr, "Run 'dog --help' for usage.")
	default:
		a.printError(cliErr.Error())
	}
	return model.ExitCodeOf(err)
}

func (a *App) printError(message string) {
	prefix := color.New(color.FgRed, color.Bold)
	if logging.IsTerminal(a.Stderr) {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}
	fmt.Fprintf(a.Stderr, "%s %s\n", prefix.Sprint("ERROR[dog]:"), message)
}

// Execute runs dog for the current process and exits with its result.
// This is the main entry point called from main.go.
func Execute() {
	// Ctrl+C cancels the context; the command being waited for receives
	// the same signal from the terminal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := NewApp().Main(ctx, os.Args)
	stop()
	os.Exit(code)
}
