package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/netman-network/netman/pkg/util"
)

// Entry is one canned command and its response text.
type Entry struct {
	Command  string
	Response string
}

// Section holds the entries of one device type in source order.
type Section struct {
	DeviceType string
	Entries    []Entry
}

// Document is a single catalog source. Sections and entries keep the order in
// which they appear in the source, which is the order prefix matching scans.
type Document struct {
	Name     string
	Sections []Section
}

// Len returns the number of entries across all sections.
func (d *Document) Len() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Entries)
	}
	return n
}

// Add appends an entry to the section for deviceType, creating the section
// when needed.
func (d *Document) Add(deviceType, command, response string) {
	for i := range d.Sections {
		if d.Sections[i].DeviceType == deviceType {
			d.Sections[i].Entries = append(d.Sections[i].Entries, Entry{Command: command, Response: response})
			return
		}
	}
	d.Sections = append(d.Sections, Section{
		DeviceType: deviceType,
		Entries:    []Entry{{Command: command, Response: response}},
	})
}

// ParseDocument decodes a YAML document shaped as
// device-type -> {command -> response text}.
//
// The YAML node tree is walked directly rather than unmarshalled into a Go
// map so that command order survives decoding.
func ParseDocument(name string, data []byte) (*Document, error) {
	doc := &Document{Name: name}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", name, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}

	top := root.Content[0]
	if isNull(top) {
		return doc, nil
	}
	if top.Kind != yaml.MappingNode {
		return nil, util.NewCatalogError(name, top.Line, "top level must map device types to command tables")
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		keyNode, valNode := top.Content[i], top.Content[i+1]
		deviceType := strings.TrimSpace(keyNode.Value)
		if deviceType == "" {
			return nil, util.NewCatalogError(name, keyNode.Line, "empty device type")
		}
		if isNull(valNode) {
			continue
		}
		if valNode.Kind != yaml.MappingNode {
			return nil, util.NewCatalogError(name, valNode.Line,
				fmt.Sprintf("device type %q must map commands to responses", deviceType))
		}
		for j := 0; j+1 < len(valNode.Content); j += 2 {
			cmdNode, respNode := valNode.Content[j], valNode.Content[j+1]
			if cmdNode.Kind != yaml.ScalarNode {
				return nil, util.NewCatalogError(name, cmdNode.Line, "command must be a scalar")
			}
			if respNode.Kind != yaml.ScalarNode {
				return nil, util.NewCatalogError(name, respNode.Line,
					fmt.Sprintf("response for %q must be text", cmdNode.Value))
			}
			response := respNode.Value
			if isNull(respNode) {
				response = ""
			}
			doc.Add(deviceType, cmdNode.Value, response)
		}
	}

	return doc, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// LoadFile reads and parses one catalog source file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	doc, err := ParseDocument(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	util.WithSource(path).Debugf("loaded %d canned responses", doc.Len())
	return doc, nil
}

// LoadFiles loads the given files in the order supplied. That order is the
// merge order: a later file overrides an earlier one on identical keys.
func LoadFiles(paths ...string) ([]*Document, error) {
	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		doc, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ListSourceFiles returns the .yml and .yaml files in dir sorted by name.
// A missing directory yields no files.
func ListSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading catalog dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yml" || ext == ".yaml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
