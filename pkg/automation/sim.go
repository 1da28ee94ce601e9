package automation

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/netman-network/netman/pkg/catalog"
	"github.com/netman-network/netman/pkg/simulator"
	"github.com/netman-network/netman/pkg/util"
)

const (
	defaultTargetHost = "demo-router1"
	defaultBackupPath = "/tmp/backup.cfg"

	placeholderBefore = "# Previous config"
	placeholderAfter  = "# New config"
)

// SimRunner answers playbook and module invocations from a response catalog.
// It never reports failure and holds no mutable state, so one instance can
// serve concurrent callers.
type SimRunner struct {
	catalog *catalog.Catalog
}

// NewSimRunner creates a simulated runner. A nil catalog uses the built-in
// responses.
func NewSimRunner(c *catalog.Catalog) *SimRunner {
	if c == nil {
		c = catalog.Default()
	}
	return &SimRunner{catalog: c}
}

// Name implements Runner.
func (s *SimRunner) Name() string { return string(ModeSimulation) }

// Catalog returns the catalog backing the runner.
func (s *SimRunner) Catalog() *catalog.Catalog { return s.catalog }

// playbookCall carries the resolved inputs of one playbook invocation.
type playbookCall struct {
	path       string
	host       string
	deviceType string
	vars       map[string]any
}

type playbookRule struct {
	marker string
	handle func(*SimRunner, playbookCall) *Result
}

// playbookRules are matched by substring against the playbook path, in
// order; the first match wins.
var playbookRules = []playbookRule{
	{marker: "backup_config", handle: (*SimRunner).backupConfig},
	{marker: "configure_device", handle: (*SimRunner).configureDevice},
	{marker: "get_device_status", handle: (*SimRunner).deviceStatus},
	{marker: "demo_connectivity", handle: (*SimRunner).demoConnectivity},
}

// RunPlaybook implements Runner.
func (s *SimRunner) RunPlaybook(_ context.Context, playbook, targetHost string, extraVars map[string]any) *Result {
	host := playbookHost(targetHost, extraVars)
	call := playbookCall{
		path:       playbook,
		host:       host,
		deviceType: ResolveDeviceType(host),
		vars:       extraVars,
	}

	handle := (*SimRunner).genericPlaybook
	op := "generic"
	for _, rule := range playbookRules {
		if strings.Contains(playbook, rule.marker) {
			handle = rule.handle
			op = rule.marker
			break
		}
	}
	util.WithInvocation(s.Name(), host, op).Debugf("simulating playbook %s as %s", playbook, call.deviceType)
	return handle(s, call)
}

func (s *SimRunner) backupConfig(call playbookCall) *Result {
	return &Result{
		Success:    true,
		Changed:    boolPtr(true),
		BackupPath: stringVar(call.vars, "backup_file", defaultBackupPath),
	}
}

func (s *SimRunner) configureDevice(call playbookCall) *Result {
	return &Result{
		Success: true,
		Changed: boolPtr(true),
		Diff:    &Diff{Before: placeholderBefore, After: placeholderAfter},
	}
}

func (s *SimRunner) deviceStatus(call playbookCall) *Result {
	version := s.catalog.Get(call.deviceType, "show version")
	interfaces := s.catalog.Get(call.deviceType, "show interfaces")
	vf := simulator.ExtractVersionFacts(version, call.host)

	return &Result{
		Success: true,
		Facts: &DeviceFacts{
			Hostname:         call.host,
			Version:          firstLineOr(version, "Unknown version"),
			Uptime:           vf.Uptime,
			Serial:           vf.Serial,
			Model:            simulatedModel(call.deviceType),
			Interfaces:       []string{"GigabitEthernet0/0", "GigabitEthernet0/1"},
			Status:           []string{"Up", "Running"},
			InterfacesDetail: interfaces,
		},
	}
}

func (s *SimRunner) demoConnectivity(call playbookCall) *Result {
	version := s.catalog.Get(call.deviceType, "show version")
	clock := s.catalog.Get(call.deviceType, "show clock")

	return &Result{
		Success:    true,
		PingStatus: &PingStatus{Ping: "pong", Success: true},
		DeviceInfo: [][]string{
			linesOr(version, "Version unknown"),
			linesOr(clock, "Clock unknown"),
		},
	}
}

func (s *SimRunner) genericPlaybook(call playbookCall) *Result {
	return &Result{
		Success: true,
		Changed: boolPtr(true),
		Message: fmt.Sprintf("Simulated execution of %s", filepath.Base(call.path)),
		Stdout:  fmt.Sprintf("Simulated output for %s", call.host),
	}
}

// moduleCall carries the resolved inputs of one module invocation.
type moduleCall struct {
	host       string
	module     string
	deviceType string
	args       map[string]any
}

type moduleRule struct {
	suffix string
	handle func(*SimRunner, moduleCall) *Result
}

// moduleRules are matched against the module name suffix, in order.
var moduleRules = []moduleRule{
	{suffix: "_command", handle: (*SimRunner).commandModule},
	{suffix: "_config", handle: (*SimRunner).configModule},
	{suffix: "_facts", handle: (*SimRunner).factsModule},
}

// RunModule implements Runner.
func (s *SimRunner) RunModule(_ context.Context, host, module string, args map[string]any) *Result {
	call := moduleCall{
		host:       host,
		module:     module,
		deviceType: ResolveDeviceType(host),
		args:       args,
	}

	handle := (*SimRunner).genericModule
	for _, rule := range moduleRules {
		if strings.HasSuffix(module, rule.suffix) {
			handle = rule.handle
			break
		}
	}
	util.WithInvocation(s.Name(), host, module).Debugf("simulating module as %s", call.deviceType)
	return handle(s, call)
}

func (s *SimRunner) commandModule(call moduleCall) *Result {
	commands := stringList(call.args, "commands")
	outputs := make([]string, 0, len(commands))
	lines := make([][]string, 0, len(commands))
	for _, cmd := range commands {
		out := s.catalog.Get(call.deviceType, cmd)
		outputs = append(outputs, out)
		lines = append(lines, util.SplitLines(out))
	}

	return &Result{
		Success:     true,
		Changed:     boolPtr(false),
		Stdout:      strings.Join(outputs, "\n"),
		StdoutLines: lines,
	}
}

func (s *SimRunner) configModule(call moduleCall) *Result {
	return &Result{
		Success: true,
		Changed: boolPtr(true),
		Updates: []string{"line 1", "line 2"},
		Diff:    &Diff{Before: placeholderBefore, After: placeholderAfter},
	}
}

func (s *SimRunner) factsModule(call moduleCall) *Result {
	version := s.catalog.Get(call.deviceType, "show version")
	vf := simulator.ExtractVersionFacts(version, call.host)

	return &Result{
		Success: true,
		Changed: boolPtr(false),
		NetFacts: &NetFacts{
			Hostname:   call.host,
			Version:    firstLineOr(version, "Unknown"),
			Model:      simulatedModel(call.deviceType),
			SerialNum:  vf.Serial,
			Interfaces: simulatedInterfaces(),
		},
	}
}

func (s *SimRunner) genericModule(call moduleCall) *Result {
	return &Result{
		Success: true,
		Changed: boolPtr(false),
		Msg:     fmt.Sprintf("Simulated execution of %s on %s", call.module, call.host),
	}
}

func simulatedModel(deviceType string) string {
	return "SIM-" + strings.ToUpper(deviceType)
}

func simulatedInterfaces() map[string]NetInterface {
	return map[string]NetInterface{
		"GigabitEthernet0/0": {
			Bandwidth:    1000000,
			Description:  "WAN Interface",
			Duplex:       "full",
			IPv4:         &IPv4Address{Address: "10.0.0.1", Subnet: "24"},
			LineProtocol: "up",
			OperStatus:   "up",
		},
		"GigabitEthernet0/1": {
			Bandwidth:    1000000,
			Description:  "LAN Interface",
			Duplex:       "full",
			IPv4:         &IPv4Address{Address: "192.168.1.1", Subnet: "24"},
			LineProtocol: "up",
			OperStatus:   "up",
		},
	}
}

func firstLineOr(text, fallback string) string {
	if text == "" {
		return fallback
	}
	return util.FirstLine(text)
}

func linesOr(text, fallback string) []string {
	if text == "" {
		return []string{fallback}
	}
	return util.SplitLines(text)
}

// stringVar reads a string variable, falling back when it is absent, not a
// string, or empty.
func stringVar(vars map[string]any, key, fallback string) string {
	if v, ok := vars[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// stringList reads a list of strings. A single string is treated as a
// one-element list and non-string items are formatted with %v.
func stringList(vars map[string]any, key string) []string {
	switch v := vars[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	case string:
		return []string{v}
	}
	return nil
}
