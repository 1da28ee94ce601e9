package simulator

import (
	"strings"

	"github.com/netman-network/netman/pkg/util"
)

// DefaultUptime is reported when version output carries no uptime line.
const DefaultUptime = "1 day, 0 hours, 0 minutes"

const (
	uptimeMarker = "uptime is"
	serialMarker = "Processor board ID"
)

// VersionFacts are the facts recoverable from "show version" style text.
type VersionFacts struct {
	Uptime string `json:"uptime"`
	Serial string `json:"serial"`
}

// SyntheticSerial builds the placeholder serial for hostname.
func SyntheticSerial(hostname string) string {
	return "SIM" + util.Prefix(hostname, 3) + "12345"
}

// ExtractVersionFacts scans text for the uptime and serial markers. It is a
// best-effort scan: missing or empty values fall back to DefaultUptime and
// SyntheticSerial(hostname), and no input makes it fail.
func ExtractVersionFacts(text, hostname string) VersionFacts {
	facts := VersionFacts{
		Uptime: DefaultUptime,
		Serial: SyntheticSerial(hostname),
	}

	if rest, ok := afterMarker(text, uptimeMarker); ok {
		if v := strings.TrimSpace(rest); v != "" {
			facts.Uptime = v
		}
	}
	if rest, ok := afterMarker(text, serialMarker); ok {
		if fields := strings.Fields(rest); len(fields) > 0 {
			facts.Serial = fields[len(fields)-1]
		}
	}
	return facts
}

// afterMarker returns the remainder of the line following the first
// occurrence of marker.
func afterMarker(text, marker string) (string, bool) {
	i := strings.Index(text, marker)
	if i < 0 {
		return "", false
	}
	rest := text[i+len(marker):]
	if j := strings.IndexAny(rest, "\r\n"); j >= 0 {
		rest = rest[:j]
	}
	return rest, true
}
