package command

import (
	"path/filepath"
	"strings"

	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/model"
)

const (
	docker        = "docker"
	podman        = "podman"
	dockerCompose = "docker-compose"
	sudo          = "sudo"
)

// Runtime returns the container runtime binary: podman when use-podman
// is set, docker otherwise.
func Runtime(cfg config.Config) (string, error) {
	usePodman, err := cfg.Flag(config.KeyUsePodman)
	if err != nil {
		return "", err
	}
	if usePodman {
		return podman, nil
	}
	return docker, nil
}

// IsCompose reports whether cfg selects compose mode.
func IsCompose(cfg config.Config) bool {
	return cfg.Has(config.KeyComposeFile)
}

// runtimeCommand returns the runtime, prefixed with sudo when configured.
func runtimeCommand(cfg config.Config) ([]string, error) {
	args, err := sudoPrefix(cfg)
	if err != nil {
		return nil, err
	}
	rt, err := Runtime(cfg)
	if err != nil {
		return nil, err
	}
	return append(args, rt), nil
}

func sudoPrefix(cfg config.Config) ([]string, error) {
	useSudo, err := cfg.Flag(config.KeySudoOutsideDocker)
	if err != nil || !useSudo {
		return nil, err
	}
	return []string{sudo}, nil
}

// Run builds the direct container run.
func Run(cfg config.Config) (Invocation, error) {
	b := &builder{cfg: cfg}

	b.args = b.runtime()
	b.add("run", "--rm", "--hostname="+b.str(config.KeyHostname), "-w", b.str(config.KeyCwd))
	b.volumeAndPortFlags()
	for _, e := range b.mapping(config.KeyVolumesFrom).Entries() {
		b.add("--volumes-from", e.Key)
	}
	if b.flag(config.KeyInteractive) {
		b.add("-i")
	}
	if b.flag(config.KeyInit) {
		b.add("--init")
	}
	if b.flag(config.KeyTerminal) {
		b.add("-t")
	}
	if b.cfg.Has(config.KeyNetwork) {
		b.add("--network", b.str(config.KeyNetwork))
	}
	if b.cfg.Has(config.KeyMacAddress) {
		b.add("--mac-address", b.str(config.KeyMacAddress))
	}
	if b.cfg.Has(config.KeyDevice) {
		for _, device := range b.list(config.KeyDevice) {
			b.add("--device=" + device)
		}
	}
	b.envFlags()
	if cfg.Has(config.KeyAdditionalRunParams) {
		b.add(strings.Fields(b.str(config.KeyAdditionalRunParams))...)
	}
	b.add(b.str(config.KeyFullImage))
	b.add(b.list(config.KeyArgs)...)

	if b.err != nil {
		return Invocation{}, b.err
	}
	return Invocation{Args: b.args}, nil
}

// Compose builds the compose run. The compose tool also receives the
// exposed DOG_* variables in its environment, so compose files can use
// them for interpolation.
func Compose(cfg config.Config) (Invocation, error) {
	interactive, err := cfg.Flag(config.KeyInteractive)
	if err != nil {
		return Invocation{}, err
	}
	if !interactive {
		return Invocation{}, model.NewCLIErrorf(model.ExitConfigError,
			"non-interactive mode is not supported together with %s", config.KeyComposeFile)
	}

	b := &builder{cfg: cfg}
	b.args = b.composeTool()
	if b.flag(config.KeyVerbose) && !b.flag(config.KeyUseComposePlugin) {
		b.add("--verbose", "--log-level", "DEBUG")
	}
	b.add("run", "--rm", "-w", b.str(config.KeyCwd))
	if !b.flag(config.KeyTerminal) {
		b.add("-T")
	}
	b.volumeAndPortFlags()
	b.envFlags()
	b.add(b.str(config.KeyComposeService))
	b.add(b.list(config.KeyArgs)...)

	if b.err != nil {
		return Invocation{}, b.err
	}
	env, err := ExposedEnv(cfg)
	if err != nil {
		return Invocation{}, err
	}
	return Invocation{Args: b.args, Env: env}, nil
}

// ComposeCleanup builds the removal of containers a compose run left
// behind. It always follows Compose, whatever the run's outcome.
func ComposeCleanup(cfg config.Config) (Invocation, error) {
	b := &builder{cfg: cfg}
	b.args = b.composeTool()
	b.add("rm", "-f", b.str(config.KeyComposeService))
	if b.err != nil {
		return Invocation{}, b.err
	}
	return Invocation{Args: b.args}, nil
}

// ComposeFile returns the path of the compose file, relative to the
// directory of the dog.config that named it.
func ComposeFile(cfg config.Config) (string, error) {
	file, err := cfg.String(config.KeyComposeFile)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(file) {
		return file, nil
	}
	dir, err := cfg.String(config.KeyConfigPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, file), nil
}

// Pull builds the image pull. Compose mode has no single image to pull.
func Pull(cfg config.Config) (Invocation, error) {
	if IsCompose(cfg) {
		return Invocation{}, model.NewCLIErrorf(model.ExitConfigError,
			"%s is not compatible with pull", config.KeyComposeFile)
	}
	b := &builder{cfg: cfg}
	b.args = b.runtime()
	b.add("pull", b.str(config.KeyFullImage))
	if b.err != nil {
		return Invocation{}, b.err
	}
	return Invocation{Args: b.args}, nil
}

// ListContainers builds the query for the names of all containers.
func ListContainers(cfg config.Config) (Invocation, error) {
	b := &builder{cfg: cfg}
	b.args = b.runtime()
	b.add("container", "ls", "-a", "--format={{.Names}}")
	if b.err != nil {
		return Invocation{}, b.err
	}
	return Invocation{Args: b.args}, nil
}

// Helper is a volumes-from container and the image it is created from.
type Helper struct {
	Name  string
	Image string
}

// Helpers lists the volumes-from containers in declaration order. The
// mode suffix of an entry ("name:ro") is not part of the container name.
func Helpers(cfg config.Config) ([]Helper, error) {
	if !cfg.Has(config.KeyVolumesFrom) {
		return nil, nil
	}
	m, err := cfg.Mapping(config.KeyVolumesFrom)
	if err != nil {
		return nil, err
	}
	var helpers []Helper
	for _, e := range m.Entries() {
		name, _, _ := strings.Cut(e.Key, ":")
		helpers = append(helpers, Helper{Name: name, Image: e.Value})
	}
	return helpers, nil
}

// VolumesFromHelper builds the creation of one helper container. The
// container only exists to carry its volumes, so it gets no network.
func VolumesFromHelper(cfg config.Config, h Helper) (Invocation, error) {
	b := &builder{cfg: cfg}
	b.args = b.runtime()
	b.add("run", "--network", "none", "--name", h.Name, h.Image)
	if b.err != nil {
		return Invocation{}, b.err
	}
	return Invocation{Args: b.args}, nil
}

// builder accumulates arguments and keeps the first error, so that the
// argument order above reads top to bottom.
type builder struct {
	cfg  config.Config
	args []string
	err  error
}

func (b *builder) add(args ...string) {
	b.args = append(b.args, args...)
}

func (b *builder) keep(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

func (b *builder) str(key string) string {
	s, err := b.cfg.String(key)
	b.keep(err)
	return s
}

func (b *builder) flag(key string) bool {
	v, err := b.cfg.Flag(key)
	b.keep(err)
	return v
}

func (b *builder) list(key string) []string {
	l, err := b.cfg.List(key)
	b.keep(err)
	return l
}

func (b *builder) mapping(key string) config.Mapping {
	if !b.cfg.Has(key) {
		return config.Mapping{}
	}
	m, err := b.cfg.Mapping(key)
	b.keep(err)
	return m
}

func (b *builder) runtime() []string {
	args, err := runtimeCommand(b.cfg)
	b.keep(err)
	return args
}

func (b *builder) composeTool() []string {
	args, err := sudoPrefix(b.cfg)
	b.keep(err)
	if b.flag(config.KeyUseComposePlugin) {
		args = append(args, docker, "compose")
	} else {
		args = append(args, dockerCompose)
	}
	file, err := ComposeFile(b.cfg)
	b.keep(err)
	return append(args, "-f", file)
}

func (b *builder) volumeAndPortFlags() {
	for _, e := range b.mapping(config.KeyVolumes).Entries() {
		b.add("-v", e.Value+":"+e.Key)
	}
	for _, e := range b.mapping(config.KeyPorts).Entries() {
		b.add("-p", e.Value+":"+e.Key)
	}
}

func (b *builder) envFlags() {
	exposed, err := ExposedEnv(b.cfg)
	b.keep(err)
	for _, kv := range exposed {
		b.add("-e", kv)
	}
	for _, key := range []string{config.KeyUserEnvVars, config.KeyUserEnvVarsIfSet} {
		for _, e := range b.mapping(key).Entries() {
			b.add("-e", e.Key+"="+e.Value)
		}
	}
}
