package automation

import (
	"github.com/netman-network/netman/pkg/catalog"
	"github.com/netman-network/netman/pkg/util"
)

// deviceTypeRule maps hostname substrings to a device type.
type deviceTypeRule struct {
	contains   []string
	deviceType string
}

// deviceTypeRules are evaluated in order and the first match wins. A host
// matching several rules (e.g. "router-juniper1") resolves by this order
// alone.
var deviceTypeRules = []deviceTypeRule{
	{contains: []string{"switch"}, deviceType: catalog.DeviceTypeCiscoIOS},
	{contains: []string{"router"}, deviceType: catalog.DeviceTypeCiscoIOS},
	{contains: []string{"juniper", "srx"}, deviceType: catalog.DeviceTypeJunos},
	{contains: []string{"arista", "eos"}, deviceType: catalog.DeviceTypeAristaEOS},
}

// defaultDeviceType applies when no rule matches.
const defaultDeviceType = catalog.DeviceTypeCiscoIOS

// ResolveDeviceType infers a device type from a hostname.
func ResolveDeviceType(hostname string) string {
	for _, rule := range deviceTypeRules {
		if util.ContainsAny(hostname, rule.contains...) {
			return rule.deviceType
		}
	}
	return defaultDeviceType
}
