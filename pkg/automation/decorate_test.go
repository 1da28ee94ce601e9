package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netman-network/netman/pkg/audit"
	"github.com/netman-network/netman/pkg/metrics"
)

// memLogger is an in-memory audit.Logger.
type memLogger struct {
	events []*audit.Event
	err    error
}

func (m *memLogger) Log(e *audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memLogger) Query(f audit.Filter) ([]*audit.Event, error) {
	var out []*audit.Event
	for _, e := range m.events {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLogger) Close() error { return nil }

// stubRunner returns fixed results.
type stubRunner struct {
	result *Result
}

func (s *stubRunner) Name() string { return "stub" }

func (s *stubRunner) RunPlaybook(context.Context, string, string, map[string]any) *Result {
	return s.result
}

func (s *stubRunner) RunModule(context.Context, string, string, map[string]any) *Result {
	return s.result
}

func TestAudited_RecordsPlaybook(t *testing.T) {
	logger := &memLogger{}
	r := Audited(NewSimRunner(nil), logger, "alice")

	res := r.RunPlaybook(context.Background(), "playbooks/backup_config.yml", "", map[string]any{"target_host": "edge1"})
	require.True(t, res.Success)

	require.Len(t, logger.events, 1)
	e := logger.events[0]
	assert.Equal(t, "alice", e.User)
	assert.Equal(t, "edge1", e.Device)
	assert.Equal(t, audit.KindPlaybook, e.Kind)
	assert.Equal(t, "playbooks/backup_config.yml", e.Operation)
	assert.Equal(t, "simulation", e.Runner)
	assert.True(t, e.Success)
	assert.True(t, e.Changed)
	assert.NotEmpty(t, e.ID)
}

func TestAudited_RecordsFailure(t *testing.T) {
	logger := &memLogger{}
	r := Audited(&stubRunner{result: failure("boom")}, logger, "bob")

	r.RunModule(context.Background(), "r1", "ios_command", nil)

	require.Len(t, logger.events, 1)
	e := logger.events[0]
	assert.Equal(t, audit.KindModule, e.Kind)
	assert.Equal(t, "stub", e.Runner)
	assert.False(t, e.Success)
	assert.Equal(t, "boom", e.Error)
}

func TestAudited_LogErrorDoesNotAlterResult(t *testing.T) {
	want := &Result{Success: true, Msg: "ok"}
	r := Audited(&stubRunner{result: want}, &memLogger{err: errors.New("disk full")}, "alice")

	assert.Same(t, want, r.RunModule(context.Background(), "r1", "ping", nil))
}

func TestAudited_NilLogger(t *testing.T) {
	inner := NewSimRunner(nil)
	assert.Same(t, inner, Audited(inner, nil, "alice"))
}

func TestAudited_FileLogger(t *testing.T) {
	logger, err := audit.NewFileLogger(t.TempDir()+"/audit.log", audit.RotationConfig{})
	require.NoError(t, err)
	defer logger.Close()

	r := Audited(NewSimRunner(nil), logger, "alice")
	r.RunModule(context.Background(), "demo-router1", "ios_facts", nil)
	r.RunModule(context.Background(), "juniper-edge", "junos_command", map[string]any{"commands": "show version"})

	events, err := logger.Query(audit.Filter{Device: "juniper-edge"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "junos_command", events[0].Operation)
	assert.GreaterOrEqual(t, events[0].Duration, time.Duration(0))
}

func TestInstrumented(t *testing.T) {
	counter := func(kind, op, success string) float64 {
		return testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("stub", kind, op, success))
	}
	okBefore := counter("module", "ios_facts", "true")
	failBefore := counter("playbook", "site.yml", "false")

	ok := Instrumented(&stubRunner{result: &Result{Success: true}})
	ok.RunModule(context.Background(), "r1", "ios_facts", nil)
	ok.RunModule(context.Background(), "r2", "ios_facts", nil)

	bad := Instrumented(&stubRunner{result: failure("x")})
	bad.RunPlaybook(context.Background(), "/srv/playbooks/site.yml", "r1", nil)

	assert.Equal(t, 2.0, counter("module", "ios_facts", "true")-okBefore)
	assert.Equal(t, 1.0, counter("playbook", "site.yml", "false")-failBefore)
	assert.Equal(t, "stub", ok.Name())
}
