package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInterfaces(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		deviceType string
		want       map[string]InterfaceStatus
	}{
		{
			name: "up and down",
			output: "Gi0/0 is up, line protocol is up\n" +
				"  Description: Uplink\n" +
				"\n" +
				"Gi0/2 is administratively down, line protocol is down\n" +
				"  Hardware is CN Gigabit Ethernet\n",
			deviceType: "cisco_ios",
			want: map[string]InterfaceStatus{
				"Gi0/0": {Status: "up", Description: "Uplink"},
				"Gi0/2": {Status: "down"},
			},
		},
		{
			name:       "crlf",
			output:     "Loopback0 is up, line protocol is up\r\n  Description: mgmt\r\n",
			deviceType: "cisco_ios_xe",
			want: map[string]InterfaceStatus{
				"Loopback0": {Status: "up", Description: "mgmt"},
			},
		},
		{
			name:       "description before any interface",
			output:     "  Description: orphan\nGi0/1 is down\n",
			deviceType: "cisco_ios",
			want: map[string]InterfaceStatus{
				"Gi0/1": {Status: "down"},
			},
		},
		{
			// Any "up" substring marks the interface up, including words like "setup".
			name:       "loose up match",
			output:     "Tunnel0 is down, setup pending\n",
			deviceType: "cisco_ios",
			want: map[string]InterfaceStatus{
				"Tunnel0": {Status: "up"},
			},
		},
		{
			name:       "other vendor",
			output:     "ge-0/0/0 is up\n",
			deviceType: "junos",
			want:       map[string]InterfaceStatus{},
		},
		{
			name:       "sentinel text",
			output:     "% Invalid command",
			deviceType: "cisco_ios",
			want: map[string]InterfaceStatus{
				"%": {Status: "down"},
			},
		},
		{
			name:       "empty",
			output:     "",
			deviceType: "cisco_ios",
			want:       map[string]InterfaceStatus{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInterfaces(tt.output, tt.deviceType))
		})
	}
}
