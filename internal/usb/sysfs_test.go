package usb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDevice creates a fake sysfs device directory with its attributes.
func writeDevice(t *testing.T, dir string, attrs map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, value := range attrs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o644))
	}
}

// fakeSysfs builds a tree with two buses, a hub and an interface directory.
func fakeSysfs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	bus1 := filepath.Join(root, "usb1")
	writeDevice(t, bus1, map[string]string{"busnum": "1", "devnum": "1", "idVendor": "1d6b", "idProduct": "0002"})
	writeDevice(t, filepath.Join(bus1, "1-1"), map[string]string{"busnum": "1", "devnum": "4", "idVendor": "1366", "idProduct": "0105"})
	writeDevice(t, filepath.Join(bus1, "1-1", "1-1.3"), map[string]string{"busnum": "1", "devnum": "12", "idVendor": "1366", "idProduct": "0105"})
	// Interfaces carry no device attributes and must not be descended into.
	writeDevice(t, filepath.Join(bus1, "1-1:1.0"), map[string]string{"bInterfaceClass": "ff"})

	bus2 := filepath.Join(root, "usb2")
	writeDevice(t, bus2, map[string]string{"busnum": "2", "devnum": "1", "idVendor": "1d6b", "idProduct": "0003"})
	writeDevice(t, filepath.Join(bus2, "2-4"), map[string]string{"busnum": "2", "devnum": "7", "idVendor": "0403", "idProduct": "6001"})
	// Incomplete nodes are ignored.
	writeDevice(t, filepath.Join(bus2, "2-5"), map[string]string{"busnum": "2", "idVendor": "0403"})

	return root
}

// TestScan verifies discovery through nested hubs.
func TestScan(t *testing.T) {
	topo := Scan(fakeSysfs(t))

	assert.Equal(t, []string{"/dev/bus/usb/001/004", "/dev/bus/usb/001/012"}, topo.BusPaths("1366:0105"))
	assert.Equal(t, []string{"/dev/bus/usb/002/007"}, topo.BusPaths("0403:6001"))
	assert.Equal(t, []Device{{Bus: 2, Num: 7}}, topo.Devices("0403:6001"))
	assert.Empty(t, topo.BusPaths("dead:beef"))
}

// TestScan_CaseInsensitive verifies that ids are matched regardless of case.
func TestScan_CaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeDevice(t, filepath.Join(root, "usb3"), map[string]string{"busnum": "3", "devnum": "2", "idVendor": "0A5C", "idProduct": "21E8"})

	topo := Scan(root)

	assert.Equal(t, []string{"/dev/bus/usb/003/002"}, topo.BusPaths("0a5c:21e8"))
}

// TestScan_MissingRoot verifies that a host without sysfs has no devices.
func TestScan_MissingRoot(t *testing.T) {
	topo := Scan(filepath.Join(t.TempDir(), "missing"))

	assert.Empty(t, topo.BusPaths("1366:0105"))
}

// TestSysfs_ScansOnce verifies the lazy provider.
func TestSysfs_ScansOnce(t *testing.T) {
	root := fakeSysfs(t)
	s := &Sysfs{Root: root}

	first := s.BusPaths("0403:6001")
	// Devices attached after the first lookup are not seen.
	writeDevice(t, filepath.Join(root, "usb2", "2-6"), map[string]string{"busnum": "2", "devnum": "9", "idVendor": "0403", "idProduct": "6001"})
	second := s.BusPaths("0403:6001")

	assert.Equal(t, first, second)
	assert.Equal(t, "/dev/bus/usb/002/007", Device{Bus: 2, Num: 7}.Path())
}
