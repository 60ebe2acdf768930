//go:build unix

package host

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// isMountPoint compares the device of path with that of its parent. A
// directory that is its own parent (/) is always a mount point.
func isMountPoint(path string) bool {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return false
	}
	if st.Mode&unix.S_IFMT == unix.S_IFLNK {
		return false
	}

	var parent unix.Stat_t
	if err := unix.Lstat(filepath.Join(path, ".."), &parent); err != nil {
		return false
	}
	if uint64(st.Dev) != uint64(parent.Dev) {
		return true
	}
	return st.Ino == parent.Ino
}
