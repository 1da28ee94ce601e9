package catalog

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, name, data string) *Document {
	t.Helper()
	doc, err := ParseDocument(name, []byte(data))
	require.NoError(t, err)
	return doc
}

func TestNew_VerbatimLookup(t *testing.T) {
	doc := mustParse(t, "fixture", `
cisco_ios:
  show version: "IOS 15.7\nuptime is 3 days"
  show clock: "12:00"
junos:
  show version: "JUNOS 20.2"
`)
	c := New(doc)

	for _, sec := range doc.Sections {
		for _, e := range sec.Entries {
			for i := 0; i < 3; i++ {
				assert.Equal(t, e.Response, c.Get(sec.DeviceType, e.Command))
			}
		}
	}
	assert.False(t, c.Seeded())
}

func TestNew_LastSourceWins(t *testing.T) {
	base := mustParse(t, "base", `
cisco_ios:
  show version: base-version
  show clock: base-clock
`)
	override := mustParse(t, "override", `
cisco_ios:
  show clock: override-clock
  show users: override-users
arista_eos:
  show version: eos
`)
	c := New(base, override)

	assert.Equal(t, "base-version", c.Get("cisco_ios", "show version"))
	assert.Equal(t, "override-clock", c.Get("cisco_ios", "show clock"))
	assert.Equal(t, "override-users", c.Get("cisco_ios", "show users"))
	assert.Equal(t, "eos", c.Get("arista_eos", "show version"))

	// Overridden keys keep their original scan position; new keys append.
	assert.Equal(t, []string{"show version", "show clock", "show users"}, c.Commands("cisco_ios"))
	assert.Equal(t, []string{"cisco_ios", "arista_eos"}, c.DeviceTypes())
	assert.Equal(t, []string{"base", "override"}, c.Sources())
	assert.Equal(t, 4, c.Len())
}

func TestNew_MergesKeyByKey(t *testing.T) {
	// A later document touching a device type must not drop the earlier
	// document's other commands for that type.
	a := mustParse(t, "a", "junos:\n  show version: a\n  show route: routes\n")
	b := mustParse(t, "b", "junos:\n  show version: b\n")
	c := New(a, b)

	assert.Equal(t, "b", c.Get("junos", "show version"))
	assert.Equal(t, "routes", c.Get("junos", "show route"))
}

func TestNew_SeedsDefaults(t *testing.T) {
	tests := []struct {
		name string
		docs []*Document
	}{
		{"no documents", nil},
		{"nil document", []*Document{nil}},
		{"empty documents", []*Document{{Name: "a"}, {Name: "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.docs...)
			assert.True(t, c.Seeded())
			assert.Greater(t, c.Len(), 0)
			assert.True(t, c.Has(DeviceTypeCiscoIOS))
			assert.True(t, c.Has(DeviceTypeJunos))
			assert.True(t, c.Has(DeviceTypeAristaEOS))
		})
	}
}

func TestDefaultDocument(t *testing.T) {
	c := Default()

	version := c.Get(DeviceTypeCiscoIOS, "show version")
	assert.True(t, strings.HasPrefix(version, "Cisco IOS Software"))
	assert.Contains(t, version, "uptime is 1 day, 2 hours, 5 minutes")
	assert.NotContains(t, version, "Processor board ID")
	assert.Equal(t, "12:05:33.000 UTC Mon Jan 1 2023", c.Get(DeviceTypeCiscoIOS, "show clock"))
	assert.Contains(t, c.Get(DeviceTypeCiscoIOS, "show interfaces"), "GigabitEthernet0/1 is up")
	assert.Contains(t, c.Get(DeviceTypeJunos, "show version"), "Model: srx300")
	assert.Contains(t, c.Get(DeviceTypeAristaEOS, "show version"), "Serial number: ABC12345678")

	assert.Equal(t, []string{
		"show version", "show clock", "show interfaces", "show ip interface brief", "show running-config",
	}, c.Commands(DeviceTypeCiscoIOS))
}

func TestGet_UnsupportedDeviceType(t *testing.T) {
	c := Default()

	for _, dt := range []string{"nokia_sros", "", "CISCO_IOS"} {
		got := c.Get(dt, "show version")
		assert.Equal(t, UnsupportedDeviceType(dt), got)
		assert.True(t, IsUnsupported(got))
	}
	assert.Nil(t, c.Commands("nokia_sros"))
	assert.False(t, c.Has("nokia_sros"))
}

func TestCatalog_ConcurrentReads(t *testing.T) {
	c := Default()
	want := c.Get(DeviceTypeCiscoIOS, "show clock")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if got := c.Get(DeviceTypeCiscoIOS, "show clock"); got != want {
					t.Errorf("concurrent Get = %q, want %q", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCommands_ReturnsCopy(t *testing.T) {
	c := Default()
	cmds := c.Commands(DeviceTypeCiscoIOS)
	cmds[0] = "mutated"
	assert.Equal(t, "show version", c.Commands(DeviceTypeCiscoIOS)[0])
}
