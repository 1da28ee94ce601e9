// Package monitor checks device reachability, gathers facts and reports
// interface state through an automation.Runner.
package monitor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/netman-network/netman/pkg/automation"
	"github.com/netman-network/netman/pkg/metrics"
	"github.com/netman-network/netman/pkg/simulator"
	"github.com/netman-network/netman/pkg/util"
)

// StatusPlaybook is the playbook that reports device facts.
const StatusPlaybook = "get_device_status.yml"

// DefaultConcurrency bounds parallel probes in CheckAll.
const DefaultConcurrency = 8

// Prober tests whether a device answers.
type Prober interface {
	Probe(ctx context.Context, dev simulator.DeviceInfo) (simulator.Outcome, error)
}

// Status is the reachability of one device at CheckedAt.
type Status struct {
	Hostname   string    `json:"hostname"`
	IP         string    `json:"ip"`
	DeviceType string    `json:"device_type"`
	Reachable  bool      `json:"reachable"`
	LatencyMs  float64   `json:"latency_ms"`
	CheckedAt  time.Time `json:"checked_at"`
	Error      string    `json:"error,omitempty"`
}

// Monitor runs status, facts and interface checks.
type Monitor struct {
	runner      automation.Runner
	prober      Prober
	playbookDir string
	concurrency int
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPlaybookDir sets the directory holding StatusPlaybook.
func WithPlaybookDir(dir string) Option {
	return func(m *Monitor) { m.playbookDir = dir }
}

// WithConcurrency bounds parallel probes; values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// New creates a Monitor. prober may be nil when reachability checks are not
// available, as in real mode.
func New(runner automation.Runner, prober Prober, opts ...Option) *Monitor {
	m := &Monitor{
		runner:      runner,
		prober:      prober,
		playbookDir: "playbooks",
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CheckStatus probes one device.
func (m *Monitor) CheckStatus(ctx context.Context, dev simulator.DeviceInfo) (Status, error) {
	st := Status{
		Hostname:   dev.Hostname,
		IP:         dev.IP,
		DeviceType: dev.DeviceType,
		CheckedAt:  time.Now(),
	}
	if m.prober == nil {
		return st, fmt.Errorf("status check on %s: %w", dev.Hostname, util.ErrUnsupportedInMode)
	}

	out, err := m.prober.Probe(ctx, dev)
	if err != nil {
		st.Error = err.Error()
		return st, fmt.Errorf("probing %s: %w", dev.Hostname, err)
	}
	st.Reachable = out.Reachable
	st.LatencyMs = out.LatencyMs
	metrics.RecordProbe(out.Reachable, out.LatencyMs)
	return st, nil
}

// CheckAll probes every device in parallel and returns statuses in input
// order. A failed probe is reported in Status.Error; only cancellation of
// ctx or a missing prober fails the sweep.
func (m *Monitor) CheckAll(ctx context.Context, devs []simulator.DeviceInfo) ([]Status, error) {
	if m.prober == nil {
		return nil, fmt.Errorf("status sweep: %w", util.ErrUnsupportedInMode)
	}

	statuses := make([]Status, len(devs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, dev := range devs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			st, err := m.CheckStatus(gctx, dev)
			if err != nil {
				util.WithDevice(dev.Hostname).Warnf("status check failed: %v", err)
			}
			statuses[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reachable := 0
	for _, st := range statuses {
		if st.Reachable {
			reachable++
		}
	}
	metrics.RecordSweep(reachable)
	return statuses, nil
}

// GetFacts runs the status playbook against dev and returns its facts.
func (m *Monitor) GetFacts(ctx context.Context, dev simulator.DeviceInfo) (*automation.DeviceFacts, error) {
	playbook := filepath.Join(m.playbookDir, StatusPlaybook)
	res := m.runner.RunPlaybook(ctx, playbook, dev.Hostname, map[string]any{"target_host": dev.Hostname})
	if !res.Success {
		return nil, util.NewOperationError("get facts", dev.Hostname, res.Error)
	}
	if res.Facts == nil {
		return nil, util.NewOperationError("get facts", dev.Hostname, "no facts in result")
	}
	return res.Facts, nil
}
