package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/netman-network/netman/pkg/simulator"
	"github.com/netman-network/netman/pkg/util"
)

const inventoryJSON = `[
  {"hostname": "demo-router1", "ip": "192.168.1.1", "device_type": "cisco_ios", "username": "admin", "password": "x", "ssh_port": 22, "groups": ["core", "wan"]},
  {"hostname": "demo-switch1", "ip": "192.168.1.2", "device_type": "cisco_ios", "groups": ["access"]},
  {"hostname": "juniper-fw1", "ip": "192.168.1.3", "device_type": "junos", "groups": ["core"]}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustLoad(t *testing.T, path string) *Inventory {
	t.Helper()
	inv, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	return inv
}

func hostnames(devs []simulator.DeviceInfo) []string {
	var out []string
	for _, d := range devs {
		out = append(out, d.Hostname)
	}
	return out
}

func TestLoad_JSON(t *testing.T) {
	inv := mustLoad(t, writeFile(t, "inventory.json", inventoryJSON))

	if inv.Len() != 3 {
		t.Errorf("Len() = %d, want 3", inv.Len())
	}
	d, err := inv.Get("demo-router1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := simulator.DeviceInfo{
		Hostname:   "demo-router1",
		IP:         "192.168.1.1",
		DeviceType: "cisco_ios",
		Username:   "admin",
		Password:   "x",
		SSHPort:    22,
		Groups:     []string{"core", "wan"},
	}
	if !reflect.DeepEqual(d, want) {
		t.Errorf("Get = %+v, want %+v", d, want)
	}
}

func TestLoad_YAML(t *testing.T) {
	inv := mustLoad(t, writeFile(t, "inventory.yaml", `
- hostname: arista-leaf1
  ip: 10.1.1.1
  device_type: arista_eos
  groups: [leaf]
`))

	d, err := inv.Get("arista-leaf1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.DeviceType != "arista_eos" {
		t.Errorf("DeviceType = %q, want arista_eos", d.DeviceType)
	}
	if !reflect.DeepEqual(d.Groups, []string{"leaf"}) {
		t.Errorf("Groups = %v, want [leaf]", d.Groups)
	}
}

func TestLoad_Missing(t *testing.T) {
	inv := mustLoad(t, filepath.Join(t.TempDir(), "inventory.json"))
	if inv.Len() != 0 {
		t.Errorf("Len() = %d, want 0", inv.Len())
	}
	if devs := inv.List(""); len(devs) != 0 {
		t.Errorf("List() = %v, want empty", devs)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "{not json"},
		{"object not array", `{"hostname": "r1"}`},
		{"missing hostname", `[{"ip": "10.0.0.1"}]`},
		{"duplicate", `[{"hostname": "r1"}, {"hostname": "r1"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, "inventory.json", tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestInventory_List(t *testing.T) {
	inv := mustLoad(t, writeFile(t, "inventory.json", inventoryJSON))

	tests := []struct {
		group string
		want  []string
	}{
		{"", []string{"demo-router1", "demo-switch1", "juniper-fw1"}},
		{"core", []string{"demo-router1", "juniper-fw1"}},
		{"dmz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			if got := hostnames(inv.List(tt.group)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List(%q) = %v, want %v", tt.group, got, tt.want)
			}
		})
	}
}

func TestInventory_GetUnknown(t *testing.T) {
	inv, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = inv.Get("ghost")
	if !errors.Is(err, util.ErrDeviceNotFound) {
		t.Errorf("Get(ghost) error = %v, want ErrDeviceNotFound", err)
	}
}

func TestInventory_Groups(t *testing.T) {
	inv := mustLoad(t, writeFile(t, "inventory.json", inventoryJSON))
	want := []string{"access", "core", "wan"}
	if got := inv.Groups(); !reflect.DeepEqual(got, want) {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
}
