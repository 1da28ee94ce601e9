package automation

import "testing"

func TestResolveDeviceType(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"demo-router1", "cisco_ios"},
		{"access-switch2", "cisco_ios"},
		{"juniper-edge", "junos"},
		{"srx300-fw", "junos"},
		{"arista-leaf1", "arista_eos"},
		{"eos-spine", "arista_eos"},
		{"firewall", "cisco_ios"},
		{"", "cisco_ios"},
		// First rule wins when a hostname matches several.
		{"router-juniper", "cisco_ios"},
		{"switch-arista", "cisco_ios"},
		{"juniper-eos", "junos"},
		// Matching is case sensitive.
		{"Juniper-EDGE", "cisco_ios"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := ResolveDeviceType(tt.host); got != tt.want {
				t.Errorf("ResolveDeviceType(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}
