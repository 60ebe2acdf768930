// Package resolve derives the values of a merged configuration that
// depend on other values: ${...} substitution, the auto-mounted working
// directory, the full image reference, USB device nodes and the final
// volume set.
//
// Each step is a pure function from Config to Config and they always run
// in the same order, because each may read what the previous ones wrote.
package resolve

import (
	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/host"
	"github.com/mmr-tortoise/dog/internal/logging"
)

// DeviceProvider finds the device nodes of attached USB devices.
type DeviceProvider interface {
	BusPaths(vendorProduct string) []string
}

// Deps are the host collaborators the passes need.
type Deps struct {
	Pathing host.HostPathing
	FS      host.FileSystem
	USB     DeviceProvider

	// HostHome replaces a leading ~ in host paths of volumes.
	HostHome string
}

// Pass is one named resolution step.
type Pass struct {
	Name  string
	Apply func(config.Config) (config.Config, error)
}

// Passes returns the resolution steps in the order they must run.
func Passes(deps Deps) []Pass {
	return []Pass{
		{Name: "substitute", Apply: Substitute},
		{Name: "auto-mount", Apply: func(c config.Config) (config.Config, error) {
			return AutoMount(c, deps.Pathing, deps.FS)
		}},
		{Name: "image", Apply: ComposeImage},
		{Name: "usb-devices", Apply: func(c config.Config) (config.Config, error) {
			return ResolveUSB(c, deps.USB)
		}},
		{Name: "volumes", Apply: func(c config.Config) (config.Config, error) {
			return NormalizeVolumes(c, deps.Pathing, deps.FS, deps.HostHome)
		}},
	}
}

// Resolve runs every pass over cfg. The first failing pass aborts
// resolution.
func Resolve(cfg config.Config, deps Deps) (config.Config, error) {
	logger := logging.GetLogger("resolve")
	for _, pass := range Passes(deps) {
		done := logging.LogOperationStart(logger, pass.Name)
		next, err := pass.Apply(cfg)
		if err != nil {
			return config.Config{}, err
		}
		done()
		cfg = next
	}
	return cfg, nil
}

// mappingOrEmpty returns the mapping under key, or an empty one when the
// key is unset.
func mappingOrEmpty(cfg config.Config, key string) (config.Mapping, error) {
	if !cfg.Has(key) {
		return config.Mapping{}, nil
	}
	return cfg.Mapping(key)
}
