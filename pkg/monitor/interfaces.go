package monitor

import (
	"context"
	"strings"

	"github.com/netman-network/netman/pkg/simulator"
	"github.com/netman-network/netman/pkg/util"
)

// InterfaceStatus is the parsed state of one interface.
type InterfaceStatus struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// InterfaceReport is the output of MonitorInterfaces.
type InterfaceReport struct {
	Raw        string                     `json:"raw_output"`
	Interfaces map[string]InterfaceStatus `json:"parsed"`
}

// MonitorInterfaces runs "show interfaces" through the device type's command
// module and parses the output.
func (m *Monitor) MonitorInterfaces(ctx context.Context, dev simulator.DeviceInfo) (*InterfaceReport, error) {
	module := dev.DeviceType + "_command"
	res := m.runner.RunModule(ctx, dev.Hostname, module, map[string]any{
		"commands": []string{"show interfaces"},
	})
	if !res.Success {
		return nil, util.NewOperationError("monitor interfaces", dev.Hostname, res.Error)
	}
	return &InterfaceReport{
		Raw:        res.Stdout,
		Interfaces: ParseInterfaces(res.Stdout, dev.DeviceType),
	}, nil
}

// ParseInterfaces extracts interface headers and descriptions from
// "show interfaces" output. Only the cisco_ios family is understood; other
// device types yield an empty map.
//
// A line starting in column one opens an interface named by its first word,
// which is "up" when the line mentions up anywhere. An indented
// "Description:" line sets the description of the open interface.
func ParseInterfaces(output, deviceType string) map[string]InterfaceStatus {
	interfaces := make(map[string]InterfaceStatus)
	if !strings.Contains(deviceType, "cisco_ios") {
		return interfaces
	}

	var current string
	for _, line := range util.SplitLines(output) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, " ") {
			current = strings.SplitN(line, " ", 2)[0]
			status := "down"
			if strings.Contains(strings.ToLower(line), "up") {
				status = "up"
			}
			interfaces[current] = InterfaceStatus{Status: status}
			continue
		}
		if current == "" {
			continue
		}
		if _, desc, ok := strings.Cut(line, "Description:"); ok {
			st := interfaces[current]
			st.Description = strings.TrimSpace(desc)
			interfaces[current] = st
		}
	}
	return interfaces
}
