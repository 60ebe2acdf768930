//go:build !unix && !windows

package host

func isMountPoint(path string) bool {
	return path == "/"
}
