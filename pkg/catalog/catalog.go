// Package catalog holds canned device responses keyed by device type and
// command, and resolves requested commands against them.
package catalog

import (
	_ "embed"
	"sync"

	"github.com/netman-network/netman/pkg/util"
)

// Known device types.
const (
	DeviceTypeCiscoIOS  = "cisco_ios"
	DeviceTypeJunos     = "junos"
	DeviceTypeAristaEOS = "arista_eos"
)

//go:embed default_responses.yaml
var defaultResponses []byte

var (
	defaultOnce sync.Once
	defaultDoc  *Document
)

// DefaultDocument returns the built-in response set used when no source
// contributes any entries.
func DefaultDocument() *Document {
	defaultOnce.Do(func() {
		doc, err := ParseDocument("default_responses.yaml", defaultResponses)
		if err != nil {
			panic("catalog: embedded default responses are invalid: " + err.Error())
		}
		defaultDoc = doc
	})
	return defaultDoc
}

// Table is the ordered command table of a single device type.
type Table struct {
	order     []string
	responses map[string]string
}

func newTable() *Table {
	return &Table{responses: make(map[string]string)}
}

// set inserts or overrides a command. An overridden command keeps its
// original position in the scan order.
func (t *Table) set(command, response string) {
	if _, ok := t.responses[command]; !ok {
		t.order = append(t.order, command)
	}
	t.responses[command] = response
}

// Commands returns the commands in scan order.
func (t *Table) Commands() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of commands in the table.
func (t *Table) Len() int {
	return len(t.order)
}

// Catalog is the merged response table. It is immutable once built and safe
// for concurrent readers.
type Catalog struct {
	types   []string
	tables  map[string]*Table
	sources []string
	seeded  bool
}

// New merges docs in the order given. For every (device type, command) pair
// the last document wins. When the merge produces no entries the built-in
// default document is used instead.
func New(docs ...*Document) *Catalog {
	c := &Catalog{tables: make(map[string]*Table)}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		c.merge(doc)
	}

	if c.Len() == 0 {
		c.merge(DefaultDocument())
		c.seeded = true
		util.Debugf("catalog: no responses loaded, seeded %d built-in responses", c.Len())
	}
	return c
}

// Default returns a catalog built only from the built-in responses.
func Default() *Catalog {
	return New()
}

func (c *Catalog) merge(doc *Document) {
	c.sources = append(c.sources, doc.Name)
	for _, sec := range doc.Sections {
		t, ok := c.tables[sec.DeviceType]
		if !ok {
			t = newTable()
			c.tables[sec.DeviceType] = t
			c.types = append(c.types, sec.DeviceType)
		}
		for _, e := range sec.Entries {
			t.set(e.Command, e.Response)
		}
	}
}

// Get resolves command for deviceType. It always returns text: the matched
// response, InvalidCommand, or the unsupported-device-type message.
func (c *Catalog) Get(deviceType, command string) string {
	t, ok := c.tables[deviceType]
	if !ok {
		return UnsupportedDeviceType(deviceType)
	}
	return Match(t, command)
}

// Has reports whether deviceType has a table.
func (c *Catalog) Has(deviceType string) bool {
	_, ok := c.tables[deviceType]
	return ok
}

// Table returns the command table of deviceType.
func (c *Catalog) Table(deviceType string) (*Table, bool) {
	t, ok := c.tables[deviceType]
	return t, ok
}

// DeviceTypes returns device types in the order they were first loaded.
func (c *Catalog) DeviceTypes() []string {
	out := make([]string, len(c.types))
	copy(out, c.types)
	return out
}

// Commands returns the commands of deviceType in scan order.
func (c *Catalog) Commands(deviceType string) []string {
	t, ok := c.tables[deviceType]
	if !ok {
		return nil
	}
	return t.Commands()
}

// Len returns the total number of (device type, command) entries.
func (c *Catalog) Len() int {
	n := 0
	for _, t := range c.tables {
		n += t.Len()
	}
	return n
}

// Sources returns the names of the merged documents in merge order.
func (c *Catalog) Sources() []string {
	out := make([]string, len(c.sources))
	copy(out, c.sources)
	return out
}

// Seeded reports whether the built-in responses were used because no source
// contributed entries.
func (c *Catalog) Seeded() bool {
	return c.seeded
}
