package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/host"
	"github.com/mmr-tortoise/dog/internal/model"
)

// fakeFS is a FileSystem backed by fixed path sets.
type fakeFS struct {
	existing map[string]bool
	mounts   map[string]bool
}

func (f fakeFS) Exists(path string) bool       { return f.existing[path] }
func (f fakeFS) IsMountPoint(path string) bool { return f.mounts[path] }

// fakeUSB maps vendor:product to device nodes.
type fakeUSB map[string][]string

func (f fakeUSB) BusPaths(vendorProduct string) []string { return f[vendorProduct] }

// baseConfig returns a merged configuration as the reader and merger
// would hand it over: defaults, a host layer and one v2 file.
func baseConfig() config.Config {
	return config.MergeAll(
		config.Defaults(),
		config.New().
			With(config.KeyCwd, config.StringValue("/work/repo/src")).
			With(config.KeyHome, config.StringValue("/home/alex")).
			With(config.KeyUser, config.StringValue("alex")),
		config.New().
			With(config.KeyConfigFileVersion, config.IntValue(2)).
			With(config.KeyImage, config.StringValue("debian:latest")),
	)
}

func requireCode(t *testing.T, err error, code model.ExitCode) *model.CLIError {
	t.Helper()
	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr), "expected CLIError, got %T", err)
	assert.Equal(t, code, cliErr.Code)
	return cliErr
}

func volumeEntries(t *testing.T, cfg config.Config) []config.Entry {
	t.Helper()
	volumes, err := cfg.Mapping(config.KeyVolumes)
	require.NoError(t, err)
	return volumes.Entries()
}

// --- Substitute tests ---

// TestSubstitute_Values verifies substitution in plain values, including a
// reference to a value that itself contains a reference.
func TestSubstitute_Values(t *testing.T) {
	cfg := baseConfig().
		With("tools_root", config.StringValue("/opt/${user}")).
		With(config.KeyHostname, config.StringValue("${user}-${tools_root}")).
		With(config.KeyAdditionalRunParams, config.StringValue("--env UID=${uid} --env ROOT=${as-root}"))

	out, err := Substitute(cfg)
	require.NoError(t, err)

	hostname, _ := out.String(config.KeyHostname)
	assert.Equal(t, "alex-/opt/alex", hostname)
	root, _ := out.String("tools_root")
	assert.Equal(t, "/opt/alex", root)
	params, _ := out.String(config.KeyAdditionalRunParams)
	assert.Equal(t, "--env UID=1000 --env ROOT=False", params)
}

// TestSubstitute_KeysAndMappings verifies renaming of keys and
// substitution inside the mapping sections.
func TestSubstitute_KeysAndMappings(t *testing.T) {
	cfg := baseConfig().
		With("t1", config.StringValue("foo")).
		With("t2", config.StringValue("bar")).
		With("${t1}_${t2}", config.StringValue("baz")).
		With("sdk_version", config.StringValue("3.1")).
		With("usb_vendor", config.StringValue("1366")).
		With(config.KeyVolumes, config.MappingValue(config.MappingOf("${home}/.ssh", "~/.ssh"))).
		With(config.KeyVolumesFrom, config.MappingValue(config.MappingOf("sdk-${sdk_version}", "registry/sdk:${sdk_version}"))).
		With(config.KeyUSBDevices, config.MappingValue(config.MappingOf("jlink", "${usb_vendor}:0105")))

	out, err := Substitute(cfg)
	require.NoError(t, err)

	renamed, err := out.String("foo_bar")
	require.NoError(t, err)
	assert.Equal(t, "baz", renamed)
	assert.False(t, out.Has("${t1}_${t2}"))

	assert.Equal(t, []config.Entry{{Key: "/home/alex/.ssh", Value: "~/.ssh"}}, volumeEntries(t, out))

	volumesFrom, _ := out.Mapping(config.KeyVolumesFrom)
	assert.Equal(t, []config.Entry{{Key: "sdk-3.1", Value: "registry/sdk:3.1"}}, volumesFrom.Entries())

	usb, _ := out.Mapping(config.KeyUSBDevices)
	assert.Equal(t, []config.Entry{{Key: "jlink", Value: "1366:0105"}}, usb.Entries())
}

// TestSubstitute_Idempotent verifies that a second pass changes nothing.
func TestSubstitute_Idempotent(t *testing.T) {
	cfg := baseConfig().
		With("a", config.StringValue("${b}/x")).
		With("b", config.StringValue("${home}")).
		With(config.KeyVolumes, config.MappingValue(config.MappingOf("?${a}", "${b}")))

	once, err := Substitute(cfg)
	require.NoError(t, err)
	twice, err := Substitute(once)
	require.NoError(t, err)

	for _, key := range once.Keys() {
		a, _ := once.Lookup(key)
		b, ok := twice.Lookup(key)
		require.True(t, ok, key)
		assert.True(t, a.Equal(b), key)
		if text, ok := b.AsString(); ok {
			assert.NotContains(t, text, "${", key)
		}
	}
}

// TestSubstitute_V1OnlyVolumes verifies that v1 files only substitute
// inside volumes.
func TestSubstitute_V1OnlyVolumes(t *testing.T) {
	cfg := baseConfig().
		With(config.KeyConfigFileVersion, config.IntValue(1)).
		With(config.KeyHostname, config.StringValue("${user}")).
		With(config.KeyVolumes, config.MappingValue(config.MappingOf("${home}/.ssh", "/host/${user}")))

	out, err := Substitute(cfg)
	require.NoError(t, err)

	hostname, _ := out.String(config.KeyHostname)
	assert.Equal(t, "${user}", hostname)
	assert.Equal(t, []config.Entry{{Key: "/home/alex/.ssh", Value: "/host/alex"}}, volumeEntries(t, out))
}

// TestSubstitute_Errors verifies the fatal conditions.
func TestSubstitute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		message string
	}{
		{
			name:    "unknown key",
			cfg:     baseConfig().With(config.KeyHostname, config.StringValue("${nope}")),
			message: `"nope" used in "${nope}" not found in config`,
		},
		{
			name:    "unknown key in volumes",
			cfg:     baseConfig().With(config.KeyVolumes, config.MappingValue(config.MappingOf("/x", "${nope}"))),
			message: `"nope" used in "${nope}" not found in config`,
		},
		{
			name:    "mapping",
			cfg:     baseConfig().With(config.KeyHostname, config.StringValue("${ports}")),
			message: `"ports" used in "${ports}" is a mapping and cannot be substituted`,
		},
		{
			name: "cycle",
			cfg: baseConfig().
				With("a", config.StringValue("${b}")).
				With("b", config.StringValue("${a}")),
			message: "refers back to itself",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Substitute(tt.cfg)

			cliErr := requireCode(t, err, model.ExitConfigError)
			assert.Contains(t, cliErr.Message, tt.message)
		})
	}
}

// --- AutoMount tests ---

// TestAutoMount verifies the mount point mapping is present exactly when
// auto-mount is enabled.
func TestAutoMount(t *testing.T) {
	fs := fakeFS{mounts: map[string]bool{"/work": true}}

	on, err := AutoMount(baseConfig(), host.Posix{}, fs)
	require.NoError(t, err)
	assert.Equal(t, []config.Entry{{Key: "/work", Value: "/work"}}, volumeEntries(t, on))

	off, err := AutoMount(baseConfig().With(config.KeyAutoMount, config.BoolValue(false)), host.Posix{}, fs)
	require.NoError(t, err)
	assert.Empty(t, volumeEntries(t, off))
}

// TestAutoMount_DriveLetter verifies the drive root mapping.
func TestAutoMount_DriveLetter(t *testing.T) {
	cfg := baseConfig().
		With(config.KeyCwd, config.StringValue("/C/src/app")).
		With(config.KeyWin32Cwd, config.StringValue(`C:\src\app`))

	out, err := AutoMount(cfg, host.DriveLetter{}, fakeFS{})
	require.NoError(t, err)

	assert.Equal(t, []config.Entry{{Key: "/C", Value: `C:\`}}, volumeEntries(t, out))
}

// --- ComposeImage tests ---

func TestComposeImage(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "image only",
			cfg:  baseConfig(),
			want: "debian:latest",
		},
		{
			name: "with registry",
			cfg:  baseConfig().With(config.KeyRegistry, config.StringValue("registry.example.com")),
			want: "registry.example.com/debian:latest",
		},
		{
			name: "explicit full image",
			cfg:  baseConfig().With(config.KeyFullImage, config.StringValue("other/image:1")),
			want: "other/image:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ComposeImage(tt.cfg)
			require.NoError(t, err)

			full, err := out.String(config.KeyFullImage)
			require.NoError(t, err)
			assert.Equal(t, tt.want, full)
		})
	}
}

func TestComposeImage_Errors(t *testing.T) {
	compose := baseConfig().Without(config.KeyImage).
		With(config.KeyComposeFile, config.StringValue("docker-compose.yml"))

	tests := []struct {
		name    string
		cfg     config.Config
		message string
	}{
		{
			name:    "no image",
			cfg:     baseConfig().Without(config.KeyImage),
			message: "No image specified in dog.config",
		},
		{
			name:    "compose and image",
			cfg:     compose.With(config.KeyImage, config.StringValue("x")).With(config.KeyComposeService, config.StringValue("s")),
			message: "docker-compose-file and image both found in dog.config",
		},
		{
			name:    "compose without service",
			cfg:     compose,
			message: "docker-compose-service must be specified when docker-compose-file is in dog.config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComposeImage(tt.cfg)

			cliErr := requireCode(t, err, model.ExitConfigError)
			assert.Equal(t, tt.message, cliErr.Message)
		})
	}
}

// TestComposeImage_Compose verifies that compose mode gets no full-image.
func TestComposeImage_Compose(t *testing.T) {
	cfg := baseConfig().Without(config.KeyImage).
		With(config.KeyComposeFile, config.StringValue("docker-compose.yml")).
		With(config.KeyComposeService, config.StringValue("dev"))

	out, err := ComposeImage(cfg)
	require.NoError(t, err)

	assert.False(t, out.Has(config.KeyFullImage))
}

// --- ResolveUSB tests ---

// TestResolveUSB verifies that discovered nodes are appended in
// declaration order after configured devices.
func TestResolveUSB(t *testing.T) {
	usb := fakeUSB{
		"1366:0105": {"/dev/bus/usb/001/004", "/dev/bus/usb/001/012"},
		"0403:6001": {"/dev/bus/usb/002/007"},
	}
	cfg := baseConfig().
		With(config.KeyDevice, config.ListValue("/dev/ttyS0")).
		With(config.KeyUSBDevices, config.MappingValue(config.MappingOf(
			"ftdi", "0403:6001",
			"absent", "dead:beef",
			"jlink", "1366:0105",
		)))

	out, err := ResolveUSB(cfg, usb)
	require.NoError(t, err)

	devices, err := out.List(config.KeyDevice)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/dev/ttyS0",
		"/dev/bus/usb/002/007",
		"/dev/bus/usb/001/004",
		"/dev/bus/usb/001/012",
	}, devices)
}

// TestResolveUSB_NothingFound verifies that no device key is created when
// nothing is attached.
func TestResolveUSB_NothingFound(t *testing.T) {
	cfg := baseConfig().With(config.KeyUSBDevices, config.MappingValue(config.MappingOf("jlink", "1366:0105")))

	out, err := ResolveUSB(cfg, fakeUSB{})
	require.NoError(t, err)

	assert.False(t, out.Has(config.KeyDevice))
}

// --- NormalizeVolumes tests ---

func TestNormalizeVolumes(t *testing.T) {
	fs := fakeFS{existing: map[string]bool{"/home/host/.gitconfig": true}}
	cfg := baseConfig().With(config.KeyVolumes, config.MappingValue(config.MappingOf(
		"/src", "/work/src",
		"?/home/alex/.ssh", "~/.ssh",
		"?/home/alex/.gitconfig:ro", "~/.gitconfig",
		"/cache", "~",
	)))

	out, err := NormalizeVolumes(cfg, host.Posix{}, fs, "/home/host")
	require.NoError(t, err)

	assert.Equal(t, []config.Entry{
		{Key: "/src", Value: "/work/src"},
		{Key: "/home/alex/.gitconfig:ro", Value: "/home/host/.gitconfig"},
		{Key: "/cache", Value: "/home/host"},
	}, volumeEntries(t, out))
}

// --- Resolve tests ---

// TestResolve_MinimalRun verifies the full pipeline on a minimal config.
func TestResolve_MinimalRun(t *testing.T) {
	cfg := baseConfig().With(config.KeyAutoMount, config.BoolValue(false))
	deps := Deps{Pathing: host.Posix{}, FS: fakeFS{}, USB: fakeUSB{}, HostHome: "/home/alex"}

	out, err := Resolve(cfg, deps)
	require.NoError(t, err)

	full, _ := out.String(config.KeyFullImage)
	assert.Equal(t, "debian:latest", full)
	assert.Empty(t, volumeEntries(t, out))
}

// TestResolve_PassOrder verifies that later passes see what earlier ones
// produced: the auto-mounted volume and substituted optional volumes are
// both subject to normalization.
func TestResolve_PassOrder(t *testing.T) {
	cfg := baseConfig().
		With("data", config.StringValue("/mnt/data")).
		With(config.KeyVolumes, config.MappingValue(config.MappingOf("?/data", "${data}")))
	deps := Deps{
		Pathing:  host.Posix{},
		FS:       fakeFS{mounts: map[string]bool{"/work/repo": true}, existing: map[string]bool{"/mnt/data": true}},
		USB:      fakeUSB{},
		HostHome: "/home/alex",
	}

	out, err := Resolve(cfg, deps)
	require.NoError(t, err)

	assert.Equal(t, []config.Entry{
		{Key: "/data", Value: "/mnt/data"},
		{Key: "/work/repo", Value: "/work/repo"},
	}, volumeEntries(t, out))
}

// TestResolve_MissingImage verifies resolution fails before any command
// is built.
func TestResolve_MissingImage(t *testing.T) {
	cfg := baseConfig().Without(config.KeyImage)
	deps := Deps{Pathing: host.Posix{}, FS: fakeFS{}, USB: fakeUSB{}}

	_, err := Resolve(cfg, deps)

	cliErr := requireCode(t, err, model.ExitConfigError)
	assert.Contains(t, cliErr.Message, "No image specified")
}

func TestPasses_Order(t *testing.T) {
	var names []string
	for _, p := range Passes(Deps{}) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"substitute", "auto-mount", "image", "usb-devices", "volumes"}, names)
}
