package host

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/dog/internal/config"
)

// fakeFS is a FileSystem backed by fixed path sets.
type fakeFS struct {
	existing map[string]bool
	mounts   map[string]bool
}

func (f fakeFS) Exists(path string) bool       { return f.existing[path] }
func (f fakeFS) IsMountPoint(path string) bool { return f.mounts[path] }

// --- Snapshot tests ---

// TestSnapshot_Posix verifies the environment layer of a POSIX host.
func TestSnapshot_Posix(t *testing.T) {
	f := Facts{UID: 1234, GID: 100, User: "alex", Group: "users", Home: "/home/alex", Hostname: "box", Cwd: "/work/repo"}

	cfg := Snapshot(f, PathingFor(f))

	uid, err := cfg.Int(config.KeyUID)
	require.NoError(t, err)
	assert.Equal(t, 1234, uid)
	cwd, _ := cfg.String(config.KeyCwd)
	assert.Equal(t, "/work/repo", cwd)
	home, _ := cfg.String(config.KeyHome)
	assert.Equal(t, "/home/alex", home)
	group, _ := cfg.String(config.KeyGroup)
	assert.Equal(t, "users", group)
	assert.False(t, cfg.Has(config.KeyWin32Cwd))
}

// TestSnapshot_UnknownUser verifies that an unknown user and home are left
// out so defaults apply.
func TestSnapshot_UnknownUser(t *testing.T) {
	f := Facts{UID: 1, GID: 1, Group: "g", Hostname: "h", Cwd: "/"}

	cfg := Snapshot(f, Posix{})

	assert.False(t, cfg.Has(config.KeyUser))
	assert.False(t, cfg.Has(config.KeyHome))
}

// TestSnapshot_Windows verifies drive-letter hosts.
func TestSnapshot_Windows(t *testing.T) {
	f := Facts{UID: 1000, GID: 1000, User: "alex", Group: "nodoggroup", Home: "/home/alex", Hostname: "pc", Cwd: `C:\src\app`, Windows: true}

	cfg := Snapshot(f, PathingFor(f))

	cwd, _ := cfg.String(config.KeyCwd)
	assert.Equal(t, "/C/src/app", cwd)
	native, _ := cfg.String(config.KeyWin32Cwd)
	assert.Equal(t, `C:\src\app`, native)
}

// TestGather_Posix verifies identity facts read from the environment.
func TestGather_Posix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX identity")
	}
	lookup := func(name string) (string, bool) {
		switch name {
		case "HOME":
			return "/home/tester", true
		case "USER":
			return "tester", true
		}
		return "", false
	}

	f, err := Gather(lookup)
	require.NoError(t, err)

	assert.Equal(t, "/home/tester", f.Home)
	assert.Equal(t, "tester", f.User)
	assert.NotEmpty(t, f.Group)
	assert.NotEmpty(t, f.Cwd)
	assert.False(t, f.Windows)
}

// --- Pathing tests ---

// TestFindMountPoint verifies the upward walk and where it stops.
func TestFindMountPoint(t *testing.T) {
	fs := fakeFS{mounts: map[string]bool{"/": true, "/mnt/data": true}}

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{name: "below mount", dir: "/mnt/data/project/src", want: "/mnt/data"},
		{name: "at mount", dir: "/mnt/data", want: "/mnt/data"},
		{name: "root filesystem stops below root", dir: "/home/alex/src", want: "/home"},
		{name: "root itself", dir: "/", want: "/"},
		{name: "unclean", dir: "/mnt/data/x/../y/", want: "/mnt/data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindMountPoint(tt.dir, fs))
		})
	}
}

// TestPosix_AutoMount verifies that the mount point is mapped onto itself.
func TestPosix_AutoMount(t *testing.T) {
	fs := fakeFS{mounts: map[string]bool{"/work": true}}

	hostPath, containerPath := Posix{}.AutoMount("/work/repo", fs)

	assert.Equal(t, "/work", hostPath)
	assert.Equal(t, "/work", containerPath)
}

// TestDriveLetter verifies drive-letter conversions.
func TestDriveLetter(t *testing.T) {
	d := DriveLetter{}

	assert.Equal(t, "/C/Users/alex/src", d.ContainerPath(`C:\Users\alex\src`))

	hostPath, containerPath := d.AutoMount(`d:\work`, nil)
	assert.Equal(t, `D:\`, hostPath)
	assert.Equal(t, "/D", containerPath)

	hostPath, containerPath = d.AutoMount(`\\server\share`, nil)
	assert.Equal(t, `C:\`, hostPath)
	assert.Equal(t, "/C", containerPath)

	assert.Equal(t, `C:\Users\alex\.ssh`, d.ExpandHome(`~\.ssh`, `C:\Users\alex`))
}

// TestExpandHome verifies tilde expansion on POSIX hosts.
func TestExpandHome(t *testing.T) {
	p := Posix{}

	assert.Equal(t, "/home/alex/.ssh", p.ExpandHome("~/.ssh", "/home/alex"))
	assert.Equal(t, "/home/alex", p.ExpandHome("~", "/home/alex/"))
	assert.Equal(t, "/home/alex", p.ExpandHome("~", "/home/alex"))
	assert.Equal(t, "/", p.ExpandHome("~", "/"))
	assert.Equal(t, "/x", p.ExpandHome("~/x", "/"))
	assert.Equal(t, "~bob/x", p.ExpandHome("~bob/x", "/home/alex"))
	assert.Equal(t, "/abs/~", p.ExpandHome("/abs/~", "/home/alex"))
	assert.Equal(t, "~/x", p.ExpandHome("~/x", ""))
}
