//go:build windows

package host

import "path/filepath"

// isMountPoint reports whether path is a drive or share root.
func isMountPoint(path string) bool {
	clean := filepath.Clean(path)
	return clean == filepath.VolumeName(clean)+`\`
}
