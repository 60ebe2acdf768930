package cli

import (
	"github.com/spf13/pflag"

	"github.com/mmr-tortoise/dog/internal/config"
)

// options holds the wrapper flags. Each tri-state setting is split into
// a pair of mutually exclusive flags.
type options struct {
	pull           bool
	interactive    bool
	notInteractive bool
	terminal       bool
	noTerminal     bool
	asRoot         bool
	verbose        bool
	sanityCheck    bool
	version        bool
}

func (o *options) register(fs *pflag.FlagSet) {
	fs.BoolVar(&o.pull, "pull", false, "Pull the latest version of the docker image")
	fs.BoolVarP(&o.interactive, "interactive", "i", false, "Run interactive (keep stdin open)")
	fs.BoolVar(&o.notInteractive, "not-interactive", false, "Do not run interactive")
	fs.BoolVarP(&o.terminal, "terminal", "t", false, "Allocate a pseudo terminal")
	fs.BoolVar(&o.noTerminal, "no-terminal", false, "Do not allocate a pseudo terminal")
	fs.BoolVar(&o.asRoot, "as-root", false, "Run as root inside the docker")
	fs.BoolVar(&o.verbose, "verbose", false, "Provide more dog output (useful for debugging)")
	fs.BoolVar(&o.sanityCheck, "sanity-check", false,
		"Perform sanity check, i.e. is required docker-compose version available")
	fs.BoolVar(&o.version, "version", false, "Show program's version number and exit")
}

// overrides builds the command line layer. Settings whose flags were not
// given are left out so they do not hide values from config files; the
// command to run is always part of the layer.
func (o *options) overrides(fs *pflag.FlagSet, args []string) config.Config {
	cfg := config.New().With(config.KeyArgs, config.ListValue(args...))

	set := func(key string, v bool) {
		cfg = cfg.With(key, config.BoolValue(v))
	}
	if fs.Changed("pull") {
		set(config.KeyPull, o.pull)
	}
	switch {
	case fs.Changed("interactive"):
		set(config.KeyInteractive, o.interactive)
	case fs.Changed("not-interactive"):
		set(config.KeyInteractive, !o.notInteractive)
	}
	switch {
	case fs.Changed("terminal"):
		set(config.KeyTerminal, o.terminal)
	case fs.Changed("no-terminal"):
		set(config.KeyTerminal, !o.noTerminal)
	}
	if fs.Changed("as-root") {
		set(config.KeyAsRoot, o.asRoot)
	}
	if fs.Changed("verbose") {
		set(config.KeyVerbose, o.verbose)
	}
	if fs.Changed("sanity-check") {
		set(config.KeySanityCheck, o.sanityCheck)
	}
	return cfg
}
