package resolve

import (
	"strings"

	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/host"
	"github.com/mmr-tortoise/dog/internal/model"
)

// AutoMount adds the mount point holding the working directory to the
// volumes, unless auto-mount is off.
func AutoMount(cfg config.Config, pathing host.HostPathing, fs host.FileSystem) (config.Config, error) {
	enabled, err := cfg.Flag(config.KeyAutoMount)
	if err != nil || !enabled {
		return cfg, err
	}

	// Drive-letter hosts keep the native working directory separately.
	cwdKey := config.KeyCwd
	if cfg.Has(config.KeyWin32Cwd) {
		cwdKey = config.KeyWin32Cwd
	}
	cwd, err := cfg.String(cwdKey)
	if err != nil {
		return config.Config{}, err
	}

	volumes, err := mappingOrEmpty(cfg, config.KeyVolumes)
	if err != nil {
		return config.Config{}, err
	}
	hostPath, containerPath := pathing.AutoMount(cwd, fs)
	volumes.Set(containerPath, hostPath)
	return cfg.With(config.KeyVolumes, config.MappingValue(volumes)), nil
}

// ComposeImage checks that exactly one of compose mode and image mode is
// configured and fills in full-image for image mode. An explicit
// full-image is kept as it is.
func ComposeImage(cfg config.Config) (config.Config, error) {
	if cfg.Has(config.KeyComposeFile) {
		if cfg.Has(config.KeyFullImage) || cfg.Has(config.KeyImage) {
			return config.Config{}, model.NewCLIErrorf(model.ExitConfigError,
				"%s and %s both found in %s", config.KeyComposeFile, config.KeyImage, config.FileName)
		}
		if !cfg.Has(config.KeyComposeService) {
			return config.Config{}, model.NewCLIErrorf(model.ExitConfigError,
				"%s must be specified when %s is in %s",
				config.KeyComposeService, config.KeyComposeFile, config.FileName)
		}
		return cfg, nil
	}

	if cfg.Has(config.KeyFullImage) {
		return cfg, nil
	}
	if !cfg.Has(config.KeyImage) {
		return config.Config{}, model.NewCLIErrorf(model.ExitConfigError,
			"No %s specified in %s", config.KeyImage, config.FileName)
	}
	image, err := cfg.String(config.KeyImage)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Has(config.KeyRegistry) {
		registry, err := cfg.String(config.KeyRegistry)
		if err != nil {
			return config.Config{}, err
		}
		image = registry + "/" + image
	}
	return cfg.With(config.KeyFullImage, config.StringValue(image)), nil
}

// ResolveUSB appends the device nodes of every usb-devices entry to the
// device list, in declaration order and without removing duplicates.
func ResolveUSB(cfg config.Config, provider DeviceProvider) (config.Config, error) {
	usb, err := mappingOrEmpty(cfg, config.KeyUSBDevices)
	if err != nil || usb.Len() == 0 || provider == nil {
		return cfg, err
	}

	var found []string
	for _, e := range usb.Entries() {
		found = append(found, provider.BusPaths(e.Value)...)
	}
	if len(found) == 0 {
		return cfg, nil
	}

	var devices []string
	if cfg.Has(config.KeyDevice) {
		if devices, err = cfg.List(config.KeyDevice); err != nil {
			return config.Config{}, err
		}
	}
	return cfg.With(config.KeyDevice, config.ListValue(append(devices, found...)...)), nil
}

// NormalizeVolumes strips the optional marker from container paths,
// expands ~ in host paths and drops optional volumes whose host path does
// not exist.
func NormalizeVolumes(cfg config.Config, pathing host.HostPathing, fs host.FileSystem, home string) (config.Config, error) {
	volumes, err := mappingOrEmpty(cfg, config.KeyVolumes)
	if err != nil {
		return config.Config{}, err
	}

	var out config.Mapping
	for _, e := range volumes.Entries() {
		containerPath, optional := strings.CutPrefix(e.Key, "?")
		hostPath := pathing.ExpandHome(e.Value, home)
		if optional && !fs.Exists(hostPath) {
			continue
		}
		out.Set(containerPath, hostPath)
	}
	return cfg.With(config.KeyVolumes, config.MappingValue(out)), nil
}
