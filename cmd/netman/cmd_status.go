package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netman-network/netman/pkg/cli"
	"github.com/netman-network/netman/pkg/metrics"
	"github.com/netman-network/netman/pkg/monitor"
	"github.com/netman-network/netman/pkg/simulator"
	"github.com/netman-network/netman/pkg/util"
)

var (
	statusGroup       string
	statusWatch       bool
	statusSchedule    string
	statusMetricsAddr string
)

var statusCmd = &cobra.Command{
	Use:   "status [hosts...]",
	Short: "Check device reachability",
	Long: `Check reachability of inventory devices.

Without arguments every inventory device is probed. Hosts not in the
inventory are probed with a device type inferred from their name.
Reachability checks are only available in simulation mode.

Examples:
  netman status
  netman status demo-router1 core-switch1
  netman status --group core
  netman status --watch --schedule 1m --metrics-addr :9273`,
	RunE: func(cmd *cobra.Command, args []string) error {
		devs, err := statusTargets(args)
		if err != nil {
			return err
		}
		if !statusWatch {
			return runStatusSweep(cmd.Context(), devs)
		}

		schedule := statusSchedule
		if schedule == "" {
			schedule = app.settings.GetSchedule()
		}
		sched, err := monitor.ParseSchedule(schedule)
		if err != nil {
			return err
		}
		if statusMetricsAddr != "" {
			serveMetrics(statusMetricsAddr)
		}

		err = monitor.Watch(cmd.Context(), sched, func(ctx context.Context, at time.Time) {
			fmt.Println(bold(at.Format("2006-01-02 15:04:05")))
			if err := runStatusSweep(ctx, devs); err != nil && ctx.Err() == nil {
				util.Warnf("status sweep: %v", err)
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusGroup, "group", "", "Only devices in this inventory group")
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Re-check on a schedule until interrupted")
	statusCmd.Flags().StringVar(&statusSchedule, "schedule", "", "Interval (30s) or cron expression for --watch (default from settings)")
	statusCmd.Flags().StringVar(&statusMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while watching")
}

// statusTargets resolves the devices named on the command line, or the
// inventory (optionally one group) when none are named.
func statusTargets(hosts []string) ([]simulator.DeviceInfo, error) {
	if len(hosts) == 0 {
		devs := app.inventory.List(statusGroup)
		if len(devs) == 0 {
			if statusGroup != "" {
				return nil, fmt.Errorf("no devices in group %q", statusGroup)
			}
			return nil, fmt.Errorf("inventory %s is empty; name hosts explicitly", app.inventory.Path())
		}
		return devs, nil
	}
	devs := make([]simulator.DeviceInfo, 0, len(hosts))
	for _, h := range hosts {
		devs = append(devs, resolveDevice(h))
	}
	return devs, nil
}

func runStatusSweep(ctx context.Context, devs []simulator.DeviceInfo) error {
	statuses, err := app.monitor.CheckAll(ctx, devs)
	if err != nil {
		return err
	}
	if jsonOutput {
		return cli.PrintJSON(os.Stdout, statuses)
	}

	t := cli.NewTable("HOST", "IP", "TYPE", "STATUS", "LATENCY")
	reachable := 0
	for _, st := range statuses {
		latency := "-"
		if st.Reachable {
			reachable++
			latency = fmt.Sprintf("%.1fms", st.LatencyMs)
		}
		status := cli.OK(st.Reachable, "reachable", "unreachable")
		if st.Error != "" {
			status = red("error: " + st.Error)
		}
		t.Row(st.Hostname, st.IP, st.DeviceType, status, latency)
	}
	t.Flush()
	fmt.Printf("\n%d/%d reachable\n", reachable, len(statuses))
	return nil
}

// serveMetrics exposes the metrics registry in the background for the life
// of the process.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.Errorf("metrics server: %v", err)
		}
	}()
	util.Infof("serving metrics on %s/metrics", addr)
}

var factsCmd = &cobra.Command{
	Use:   "facts <host>",
	Short: "Gather device facts",
	Long: `Gather device facts by running the device status playbook.

Examples:
  netman facts demo-router1
  netman facts juniper-fw1 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev := resolveDevice(args[0])
		facts, err := app.monitor.GetFacts(cmd.Context(), dev)
		if err != nil {
			return err
		}
		if jsonOutput {
			return cli.PrintJSON(os.Stdout, facts)
		}
		fmt.Printf("%s (%s)\n\n", bold(dev.Hostname), dev.DeviceType)
		printDeviceFacts(facts)
		return nil
	},
}

var interfacesRaw bool

var interfacesCmd = &cobra.Command{
	Use:   "interfaces <host>",
	Short: "Show parsed interface state",
	Long: `Run "show interfaces" on a device and report each interface.

Parsing is available for the cisco_ios family; other device types print
the raw output only.

Examples:
  netman interfaces demo-router1
  netman interfaces demo-router1 --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev := resolveDevice(args[0])
		report, err := app.monitor.MonitorInterfaces(cmd.Context(), dev)
		if err != nil {
			return err
		}
		if jsonOutput {
			return cli.PrintJSON(os.Stdout, report)
		}
		if interfacesRaw || len(report.Interfaces) == 0 {
			fmt.Println(report.Raw)
			return nil
		}

		t := cli.NewTable("INTERFACE", "STATUS", "DESCRIPTION").SortBy(0)
		for name, iface := range report.Interfaces {
			t.Row(name, cli.OK(iface.Status == "up", iface.Status, iface.Status), iface.Description)
		}
		t.Flush()
		return nil
	},
}

func init() {
	interfacesCmd.Flags().BoolVar(&interfacesRaw, "raw", false, "Print the raw command output")
}
