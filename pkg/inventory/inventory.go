// Package inventory is a read-only view of the managed device list.
package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/netman-network/netman/pkg/simulator"
	"github.com/netman-network/netman/pkg/util"
)

// Inventory holds devices in file order.
type Inventory struct {
	path    string
	devices []simulator.DeviceInfo
	index   map[string]int
}

// Load reads the device list at path. JSON is expected unless the file ends
// in .yml or .yaml. A missing file is an empty inventory.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			util.WithSource(path).Debugf("inventory file not found, using empty inventory")
			return newInventory(path, nil)
		}
		return nil, fmt.Errorf("reading inventory: %w", err)
	}

	var devices []simulator.DeviceInfo
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &devices)
	default:
		err = json.Unmarshal(data, &devices)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing inventory %s: %w", path, err)
	}
	return newInventory(path, devices)
}

// New builds an inventory from an in-memory device list.
func New(devices []simulator.DeviceInfo) (*Inventory, error) {
	return newInventory("", devices)
}

func newInventory(path string, devices []simulator.DeviceInfo) (*Inventory, error) {
	inv := &Inventory{path: path, index: make(map[string]int, len(devices))}
	for _, d := range devices {
		if d.Hostname == "" {
			return nil, fmt.Errorf("inventory %s: device without hostname", path)
		}
		if _, dup := inv.index[d.Hostname]; dup {
			return nil, fmt.Errorf("inventory %s: duplicate hostname %s", path, d.Hostname)
		}
		inv.index[d.Hostname] = len(inv.devices)
		inv.devices = append(inv.devices, d)
	}
	return inv, nil
}

// Path returns the file the inventory was loaded from.
func (inv *Inventory) Path() string { return inv.path }

// Len returns the number of devices.
func (inv *Inventory) Len() int { return len(inv.devices) }

// List returns the devices in file order. A non-empty group keeps only
// devices tagged with it.
func (inv *Inventory) List(group string) []simulator.DeviceInfo {
	out := make([]simulator.DeviceInfo, 0, len(inv.devices))
	for _, d := range inv.devices {
		if group == "" || d.InGroup(group) {
			out = append(out, d)
		}
	}
	return out
}

// Get returns the device with the given hostname.
func (inv *Inventory) Get(hostname string) (simulator.DeviceInfo, error) {
	i, ok := inv.index[hostname]
	if !ok {
		return simulator.DeviceInfo{}, fmt.Errorf("%w: %s", util.ErrDeviceNotFound, hostname)
	}
	return inv.devices[i], nil
}

// Groups returns every group tag in use, sorted.
func (inv *Inventory) Groups() []string {
	seen := make(map[string]bool)
	for _, d := range inv.devices {
		for _, g := range d.Groups {
			seen[g] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
