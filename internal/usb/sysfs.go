// Package usb discovers attached USB devices by walking the sysfs device
// tree, so that usb-devices entries can be turned into --device paths.
package usb

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// DefaultRoot is where Linux exposes USB devices.
const DefaultRoot = "/sys/bus/usb/devices"

// childPattern matches device directories such as 1-2 or 1-2.4.1, and not
// interface directories such as 1-2:1.0.
var childPattern = regexp.MustCompile(`^[0-9]+-[0-9]+(\.[0-9]+)*$`)

// Device is an attached device identified by bus and device number.
type Device struct {
	Bus int
	Num int
}

// Path returns the device node of d.
func (d Device) Path() string {
	return fmt.Sprintf("/dev/bus/usb/%03d/%03d", d.Bus, d.Num)
}

// Topology indexes attached devices by "vendor:product".
type Topology struct {
	devices map[string][]Device
}

// Scan walks the sysfs tree below root. Missing or unreadable attribute
// files make a node invisible rather than failing the scan, since devices
// come and go while it runs.
func Scan(root string) *Topology {
	t := &Topology{devices: make(map[string][]Device)}
	hubs, _ := filepath.Glob(filepath.Join(root, "usb*"))
	for _, hub := range hubs {
		t.add(hub)
	}
	return t
}

func (t *Topology) add(dir string) {
	busnum := readAttr(dir, "busnum")
	devnum := readAttr(dir, "devnum")
	vendor := readAttr(dir, "idVendor")
	product := readAttr(dir, "idProduct")

	if busnum != "" && devnum != "" && vendor != "" && product != "" {
		bus, errBus := strconv.Atoi(busnum)
		num, errNum := strconv.Atoi(devnum)
		if errBus == nil && errNum == nil {
			key := vendor + ":" + product
			t.devices[key] = append(t.devices[key], Device{Bus: bus, Num: num})
		}
	}

	if busnum == "" {
		return
	}
	children, _ := filepath.Glob(filepath.Join(dir, busnum+"-*"))
	for _, child := range children {
		if childPattern.MatchString(filepath.Base(child)) {
			t.add(child)
		}
	}
}

// Devices returns the devices matching vendorProduct ("1366:0105").
func (t *Topology) Devices(vendorProduct string) []Device {
	found := t.devices[strings.ToLower(vendorProduct)]
	devices := make([]Device, len(found))
	copy(devices, found)
	return devices
}

// BusPaths returns the device nodes of every device matching vendorProduct.
func (t *Topology) BusPaths(vendorProduct string) []string {
	var paths []string
	for _, d := range t.Devices(vendorProduct) {
		paths = append(paths, d.Path())
	}
	return paths
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimRight(string(data), " \t\r\n"))
}

// Sysfs scans Root the first time a device is asked for. Hosts without
// usb-devices entries never pay for the walk.
type Sysfs struct {
	Root string

	once sync.Once
	topo *Topology
}

// NewSysfs returns a provider reading the default sysfs location.
func NewSysfs() *Sysfs {
	return &Sysfs{Root: DefaultRoot}
}

// BusPaths implements the resolver's device lookup.
func (s *Sysfs) BusPaths(vendorProduct string) []string {
	s.once.Do(func() {
		s.topo = Scan(s.Root)
	})
	return s.topo.BusPaths(vendorProduct)
}
