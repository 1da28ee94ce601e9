package automation

import (
	"context"
	"path/filepath"
	"time"

	"github.com/netman-network/netman/pkg/audit"
	"github.com/netman-network/netman/pkg/metrics"
	"github.com/netman-network/netman/pkg/util"
)

// auditedRunner records every invocation of the wrapped Runner.
type auditedRunner struct {
	next   Runner
	logger audit.Logger
	user   string
}

// Audited wraps next so each call is written to logger as an audit event.
// A nil logger returns next unchanged. Audit write failures are logged and
// never alter the Result.
func Audited(next Runner, logger audit.Logger, user string) Runner {
	if logger == nil {
		return next
	}
	return &auditedRunner{next: next, logger: logger, user: user}
}

func (a *auditedRunner) Name() string { return a.next.Name() }

func (a *auditedRunner) RunPlaybook(ctx context.Context, playbook, targetHost string, extraVars map[string]any) *Result {
	start := time.Now()
	res := a.next.RunPlaybook(ctx, playbook, targetHost, extraVars)
	a.record(audit.KindPlaybook, playbookHost(targetHost, extraVars), playbook, res, time.Since(start))
	return res
}

func (a *auditedRunner) RunModule(ctx context.Context, host, module string, args map[string]any) *Result {
	start := time.Now()
	res := a.next.RunModule(ctx, host, module, args)
	a.record(audit.KindModule, host, module, res, time.Since(start))
	return res
}

func (a *auditedRunner) record(kind audit.Kind, host, operation string, res *Result, d time.Duration) {
	event := audit.NewEvent(a.user, host, kind, operation).
		WithRunner(a.next.Name()).
		WithOutcome(res.Success, res.IsChanged(), res.Error).
		WithDuration(d)
	if err := a.logger.Log(event); err != nil {
		util.WithInvocation(a.next.Name(), host, operation).Warnf("audit write failed: %v", err)
	}
}

// instrumentedRunner records Prometheus metrics for the wrapped Runner.
type instrumentedRunner struct {
	next Runner
}

// Instrumented wraps next so each call updates the operation metrics,
// labelled with next.Name().
func Instrumented(next Runner) Runner {
	return &instrumentedRunner{next: next}
}

func (m *instrumentedRunner) Name() string { return m.next.Name() }

func (m *instrumentedRunner) RunPlaybook(ctx context.Context, playbook, targetHost string, extraVars map[string]any) *Result {
	start := time.Now()
	res := m.next.RunPlaybook(ctx, playbook, targetHost, extraVars)
	metrics.RecordOperation(m.next.Name(), string(audit.KindPlaybook), playbookOperation(playbook), res.Success, time.Since(start))
	return res
}

func (m *instrumentedRunner) RunModule(ctx context.Context, host, module string, args map[string]any) *Result {
	start := time.Now()
	res := m.next.RunModule(ctx, host, module, args)
	metrics.RecordOperation(m.next.Name(), string(audit.KindModule), module, res.Success, time.Since(start))
	return res
}

// playbookHost mirrors the host resolution of the runners for audit records.
func playbookHost(targetHost string, extraVars map[string]any) string {
	if targetHost != "" {
		return targetHost
	}
	return stringVar(extraVars, "target_host", defaultTargetHost)
}

// playbookOperation keeps the metric label set small by dropping directories.
func playbookOperation(playbook string) string {
	return filepath.Base(playbook)
}
