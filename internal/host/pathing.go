package host

import (
	"path"
	"strings"
)

// HostPathing captures how host paths are written and how they appear
// inside a container.
type HostPathing interface {
	// ContainerPath converts a host path to the path it has in the container.
	ContainerPath(hostPath string) string

	// AutoMount returns the host directory to mount so that cwd is
	// reachable in the container, and where to mount it.
	AutoMount(cwd string, fs FileSystem) (hostPath, containerPath string)

	// ExpandHome replaces a leading ~ in hostPath with home.
	ExpandHome(hostPath, home string) string
}

// PathingFor returns the pathing matching the facts of the host.
func PathingFor(f Facts) HostPathing {
	if f.Windows {
		return DriveLetter{}
	}
	return Posix{}
}

// Posix handles hosts whose paths are used verbatim inside the container.
type Posix struct{}

func (Posix) ContainerPath(hostPath string) string {
	return hostPath
}

// AutoMount mounts the mount point holding cwd at the same location.
func (Posix) AutoMount(cwd string, fs FileSystem) (string, string) {
	m := FindMountPoint(cwd, fs)
	return m, m
}

func (Posix) ExpandHome(hostPath, home string) string {
	return expandHome(hostPath, home, "/")
}

// FindMountPoint walks up from dir until it reaches a mount point. It
// stops at the top level directory below /, so / itself is only returned
// when dir is /.
func FindMountPoint(dir string, fs FileSystem) string {
	dir = path.Clean(dir)
	for !fs.IsMountPoint(dir) && path.Dir(dir) != "/" {
		dir = path.Dir(dir)
	}
	return dir
}

// DriveLetter handles hosts with C:\ style paths. The drive holding the
// working directory is mounted as /C, and C:\src\app becomes /C/src/app.
type DriveLetter struct{}

func (DriveLetter) ContainerPath(hostPath string) string {
	p := strings.ReplaceAll(hostPath, `\`, "/")
	return "/" + strings.ReplaceAll(p, ":", "")
}

func (DriveLetter) AutoMount(cwd string, _ FileSystem) (string, string) {
	drive := "C"
	if len(cwd) >= 2 && cwd[1] == ':' {
		drive = strings.ToUpper(cwd[:1])
	}
	return drive + `:\`, "/" + drive
}

func (DriveLetter) ExpandHome(hostPath, home string) string {
	return expandHome(hostPath, home, `\`)
}

func expandHome(hostPath, home, sep string) string {
	if home == "" || !strings.HasPrefix(hostPath, "~") {
		return hostPath
	}
	rest := hostPath[1:]
	if rest == "" {
		if trimmed := strings.TrimRight(home, `/\`); trimmed != "" {
			return trimmed
		}
		return home
	}
	if rest[0] != '/' && rest[0] != '\\' {
		// ~user is not expanded.
		return hostPath
	}
	return strings.TrimRight(home, `/\`) + sep + strings.TrimLeft(rest, `/\`)
}
