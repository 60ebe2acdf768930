package host

import (
	"os"
	"os/user"
	"runtime"
	"strconv"

	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/model"
)

// Facts are the identity and platform facts of one invocation.
type Facts struct {
	UID      int
	GID      int
	User     string // empty when unknown
	Group    string
	Home     string // empty when unknown
	Hostname string

	// Cwd is the working directory in host notation.
	Cwd string

	// Windows selects drive-letter path handling.
	Windows bool
}

// Gather reads the facts of the current process. On Windows the identity
// is fixed to uid/gid 1000 and the user name comes from USERNAME.
func Gather(lookup config.LookupEnv) (Facts, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Facts{}, model.WrapCLIError(model.ExitEnvironmentError, "failed to read hostname", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return Facts{}, model.WrapCLIError(model.ExitEnvironmentError, "failed to read working directory", err)
	}

	if runtime.GOOS == "windows" {
		f := Facts{UID: 1000, GID: 1000, Group: "nodoggroup", Hostname: hostname, Cwd: cwd, Windows: true}
		if name, ok := lookup("USERNAME"); ok && name != "" {
			f.User = name
			f.Home = "/home/" + name
		}
		return f, nil
	}

	f := Facts{UID: os.Getuid(), GID: os.Getgid(), Hostname: hostname, Cwd: cwd}
	// A gid without a group entry is common in CI containers.
	f.Group = strconv.Itoa(f.GID)
	if group, err := user.LookupGroupId(f.Group); err == nil {
		f.Group = group.Name
	}
	if home, ok := lookup("HOME"); ok {
		f.Home = home
	}
	if name, ok := lookup("USER"); ok {
		f.User = name
	}
	return f, nil
}

// Snapshot turns facts into the environment configuration layer. User and
// home are only included when known so the defaults stay in effect
// otherwise.
func Snapshot(f Facts, pathing HostPathing) config.Config {
	cfg := config.New().
		With(config.KeyUID, config.IntValue(f.UID)).
		With(config.KeyGID, config.IntValue(f.GID)).
		With(config.KeyHostname, config.StringValue(f.Hostname)).
		With(config.KeyGroup, config.StringValue(f.Group)).
		With(config.KeyCwd, config.StringValue(pathing.ContainerPath(f.Cwd)))
	if f.Windows {
		cfg = cfg.With(config.KeyWin32Cwd, config.StringValue(f.Cwd))
	}
	if f.Home != "" {
		cfg = cfg.With(config.KeyHome, config.StringValue(f.Home))
	}
	if f.User != "" {
		cfg = cfg.With(config.KeyUser, config.StringValue(f.User))
	}
	return cfg
}
