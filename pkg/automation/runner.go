// Package automation invokes playbooks and modules against managed devices,
// either simulated from canned responses or by running the automation tool.
package automation

import (
	"context"
	"fmt"
	"strings"

	"github.com/netman-network/netman/pkg/catalog"
	"github.com/netman-network/netman/pkg/util"
)

// Runner executes automation operations. Implementations never return a Go
// error: every failure is reported through Result.Success and Result.Error.
type Runner interface {
	// Name identifies the implementation in logs, metrics and audit events.
	Name() string

	// RunPlaybook runs a playbook against targetHost. When targetHost is
	// empty the "target_host" extra variable is used.
	RunPlaybook(ctx context.Context, playbook, targetHost string, extraVars map[string]any) *Result

	// RunModule runs a single module on host.
	RunModule(ctx context.Context, host, module string, args map[string]any) *Result
}

// Mode selects the Runner implementation.
type Mode string

const (
	ModeSimulation Mode = "simulation"
	ModeReal       Mode = "real"
)

// ParseMode accepts "simulation" (also "sim", "demo") and "real".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simulation", "sim", "demo":
		return ModeSimulation, nil
	case "real":
		return ModeReal, nil
	}
	return "", fmt.Errorf("%w: %q", util.ErrUnknownMode, s)
}

// Config selects and configures a Runner.
type Config struct {
	Mode    Mode
	Catalog *catalog.Catalog // simulation only; nil uses the built-in responses
	Exec    ExecConfig       // real only
}

// New builds the Runner for cfg.Mode. It is called once at startup and the
// result injected into every caller.
func New(cfg Config) (Runner, error) {
	switch cfg.Mode {
	case ModeSimulation:
		return NewSimRunner(cfg.Catalog), nil
	case ModeReal:
		return NewExecRunner(cfg.Exec), nil
	}
	return nil, fmt.Errorf("%w: %q", util.ErrUnknownMode, cfg.Mode)
}
