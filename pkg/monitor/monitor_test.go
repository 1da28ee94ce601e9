package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netman-network/netman/pkg/automation"
	"github.com/netman-network/netman/pkg/simulator"
	"github.com/netman-network/netman/pkg/util"
)

var (
	router = simulator.DeviceInfo{Hostname: "demo-router1", IP: "192.168.1.1", DeviceType: "cisco_ios"}
	fw     = simulator.DeviceInfo{Hostname: "juniper-fw1", IP: "192.168.1.3", DeviceType: "junos"}
)

// fixedProber reports a fixed outcome, failing for hosts listed in fail.
type fixedProber struct {
	calls atomic.Int32
	fail  map[string]bool
}

func (p *fixedProber) Probe(_ context.Context, dev simulator.DeviceInfo) (simulator.Outcome, error) {
	p.calls.Add(1)
	if p.fail[dev.Hostname] {
		return simulator.Outcome{}, errors.New("no route to host")
	}
	return simulator.Outcome{Reachable: dev.DeviceType == "cisco_ios", LatencyMs: 12.5}, nil
}

// failingRunner reports failure for every invocation.
type failingRunner struct{}

func (failingRunner) Name() string { return "failing" }

func (failingRunner) RunPlaybook(context.Context, string, string, map[string]any) *automation.Result {
	return &automation.Result{Error: "connection refused"}
}

func (failingRunner) RunModule(context.Context, string, string, map[string]any) *automation.Result {
	return &automation.Result{Error: "connection refused"}
}

func TestCheckStatus(t *testing.T) {
	m := New(automation.NewSimRunner(nil), &fixedProber{})

	st, err := m.CheckStatus(context.Background(), router)
	require.NoError(t, err)
	assert.Equal(t, "demo-router1", st.Hostname)
	assert.Equal(t, "192.168.1.1", st.IP)
	assert.True(t, st.Reachable)
	assert.Equal(t, 12.5, st.LatencyMs)
	assert.False(t, st.CheckedAt.IsZero())
}

func TestCheckStatus_ProbeError(t *testing.T) {
	m := New(automation.NewSimRunner(nil), &fixedProber{fail: map[string]bool{"demo-router1": true}})

	st, err := m.CheckStatus(context.Background(), router)
	assert.Error(t, err)
	assert.False(t, st.Reachable)
	assert.Equal(t, "no route to host", st.Error)
}

func TestCheckStatus_NoProber(t *testing.T) {
	m := New(automation.NewSimRunner(nil), nil)

	_, err := m.CheckStatus(context.Background(), router)
	assert.ErrorIs(t, err, util.ErrUnsupportedInMode)

	_, err = m.CheckAll(context.Background(), []simulator.DeviceInfo{router})
	assert.ErrorIs(t, err, util.ErrUnsupportedInMode)
}

func TestCheckAll(t *testing.T) {
	prober := &fixedProber{fail: map[string]bool{"broken": true}}
	m := New(automation.NewSimRunner(nil), prober, WithConcurrency(2))

	devs := []simulator.DeviceInfo{router, fw, {Hostname: "broken", DeviceType: "cisco_ios"}, router}
	statuses, err := m.CheckAll(context.Background(), devs)
	require.NoError(t, err)
	require.Len(t, statuses, 4)

	assert.Equal(t, int32(4), prober.calls.Load())
	for i, st := range statuses {
		assert.Equal(t, devs[i].Hostname, st.Hostname, "order preserved")
	}
	assert.True(t, statuses[0].Reachable)
	assert.False(t, statuses[1].Reachable)
	assert.Equal(t, "no route to host", statuses[2].Error)
}

func TestCheckAll_Cancelled(t *testing.T) {
	m := New(automation.NewSimRunner(nil), &fixedProber{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.CheckAll(ctx, []simulator.DeviceInfo{router, fw})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckAll_WithConnectionSimulator(t *testing.T) {
	m := New(automation.NewSimRunner(nil), simulator.NewConnectionSimulator(simulator.WithSeed(7)))

	devs := make([]simulator.DeviceInfo, 50)
	for i := range devs {
		devs[i] = router
	}
	statuses, err := m.CheckAll(context.Background(), devs)
	require.NoError(t, err)
	for _, st := range statuses {
		assert.GreaterOrEqual(t, st.LatencyMs, 10.0)
		assert.LessOrEqual(t, st.LatencyMs, 50.0)
	}
}

func TestGetFacts(t *testing.T) {
	m := New(automation.NewSimRunner(nil), nil)

	facts, err := m.GetFacts(context.Background(), router)
	require.NoError(t, err)
	assert.Equal(t, "demo-router1", facts.Hostname)
	assert.Equal(t, "SIMdem12345", facts.Serial)
	assert.Equal(t, "1 day, 2 hours, 5 minutes", facts.Uptime)
}

func TestGetFacts_Failure(t *testing.T) {
	m := New(failingRunner{}, nil)

	_, err := m.GetFacts(context.Background(), router)
	assert.ErrorIs(t, err, util.ErrOperationFailed)
	assert.Contains(t, err.Error(), "connection refused")
}

// emptyRunner succeeds without returning any payload.
type emptyRunner struct{ playbooks []string }

func (*emptyRunner) Name() string { return "empty" }

func (e *emptyRunner) RunPlaybook(_ context.Context, playbook, _ string, _ map[string]any) *automation.Result {
	e.playbooks = append(e.playbooks, playbook)
	return &automation.Result{Success: true}
}

func (*emptyRunner) RunModule(context.Context, string, string, map[string]any) *automation.Result {
	return &automation.Result{Success: true}
}

func TestGetFacts_NoFacts(t *testing.T) {
	runner := &emptyRunner{}
	m := New(runner, nil, WithPlaybookDir("/srv/playbooks"))

	_, err := m.GetFacts(context.Background(), router)
	assert.ErrorIs(t, err, util.ErrOperationFailed)
	assert.Equal(t, []string{"/srv/playbooks/get_device_status.yml"}, runner.playbooks)
}

func TestMonitorInterfaces(t *testing.T) {
	m := New(automation.NewSimRunner(nil), nil)

	report, err := m.MonitorInterfaces(context.Background(), router)
	require.NoError(t, err)
	assert.Contains(t, report.Raw, "GigabitEthernet0/0 is up")
	assert.Equal(t, map[string]InterfaceStatus{
		"GigabitEthernet0/0": {Status: "up", Description: "WAN Interface"},
		"GigabitEthernet0/1": {Status: "up", Description: "LAN Interface"},
	}, report.Interfaces)
}

func TestMonitorInterfaces_UnparsedDeviceType(t *testing.T) {
	m := New(automation.NewSimRunner(nil), nil)

	report, err := m.MonitorInterfaces(context.Background(), fw)
	require.NoError(t, err)
	assert.Empty(t, report.Interfaces)
}

func TestMonitorInterfaces_Failure(t *testing.T) {
	m := New(failingRunner{}, nil)

	_, err := m.MonitorInterfaces(context.Background(), router)
	assert.ErrorIs(t, err, util.ErrOperationFailed)
}
