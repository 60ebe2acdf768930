package host

import "os"

// FileSystem answers the questions resolution asks about host paths.
type FileSystem interface {
	Exists(path string) bool
	IsMountPoint(path string) bool
}

// OSFileSystem queries the real filesystem.
type OSFileSystem struct{}

// Exists reports whether path exists, following symlinks.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsMountPoint reports whether path is the root of a mounted filesystem.
func (OSFileSystem) IsMountPoint(path string) bool {
	return isMountPoint(path)
}
