// Package simulator produces simulated device behaviour: connection outcomes
// and facts derived from canned command output.
package simulator

// DeviceInfo describes a managed device as handed over by the inventory.
// The simulator never persists it.
type DeviceInfo struct {
	Hostname   string   `json:"hostname" yaml:"hostname"`
	IP         string   `json:"ip" yaml:"ip"`
	DeviceType string   `json:"device_type" yaml:"device_type"`
	Username   string   `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string   `json:"password,omitempty" yaml:"password,omitempty"`
	SSHPort    int      `json:"ssh_port,omitempty" yaml:"ssh_port,omitempty"`
	Groups     []string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// InGroup reports whether the device carries the given group tag.
func (d DeviceInfo) InGroup(group string) bool {
	for _, g := range d.Groups {
		if g == group {
			return true
		}
	}
	return false
}
