package catalog

import (
	"fmt"
	"strings"
)

// InvalidCommand is returned as response text when no canned command matches.
const InvalidCommand = "% Invalid command"

const unsupportedPrefix = "Simulation error: No responses available for device type "

// UnsupportedDeviceType is the response text for a device type with no table.
func UnsupportedDeviceType(deviceType string) string {
	return fmt.Sprintf("%s'%s'", unsupportedPrefix, deviceType)
}

// IsUnsupported reports whether text is the unsupported-device-type response.
func IsUnsupported(text string) bool {
	return strings.HasPrefix(text, unsupportedPrefix)
}

// IsInvalid reports whether text is the unmatched-command response.
func IsInvalid(text string) bool {
	return text == InvalidCommand
}

// Match resolves command against t:
//
//  1. an exact key returns its response;
//  2. otherwise the first key, in scan order, that is a prefix of command or
//     has command as a prefix wins;
//  3. otherwise InvalidCommand.
//
// Step 2 is order dependent when several keys overlap the request. Scan order
// is catalog load order and must not be changed.
func Match(t *Table, command string) string {
	if t == nil {
		return InvalidCommand
	}
	if resp, ok := t.responses[command]; ok {
		return resp
	}
	for _, key := range t.order {
		if strings.HasPrefix(key, command) || strings.HasPrefix(command, key) {
			return t.responses[key]
		}
	}
	return InvalidCommand
}
