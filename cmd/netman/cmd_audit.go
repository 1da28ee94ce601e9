package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netman-network/netman/pkg/audit"
	"github.com/netman-network/netman/pkg/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View audit logs",
	Long: `View the audit log of automation invocations.

Every playbook and module run is logged with:
  - Timestamp
  - User who ran it
  - Device targeted
  - Playbook or module
  - Runner mode, outcome and duration

Examples:
  netman audit list --device demo-router1
  netman audit list --last 24h
  netman audit list --kind module --failures`,
}

var (
	auditDevice   string
	auditUser     string
	auditRunner   string
	auditKind     string
	auditLast     string
	auditLimit    int
	auditFailures bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Device:      auditDevice,
			User:        auditUser,
			Runner:      auditRunner,
			Kind:        audit.Kind(auditKind),
			Limit:       auditLimit,
			FailureOnly: auditFailures,
		}

		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		events, err := audit.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if jsonOutput {
			return cli.PrintJSON(os.Stdout, events)
		}

		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		t := cli.NewTable("TIMESTAMP", "USER", "DEVICE", "KIND", "OPERATION", "RUNNER", "STATUS", "DURATION")
		for _, event := range events {
			status := green("ok")
			switch {
			case !event.Success:
				status = red("failed")
			case event.Changed:
				status = yellow("changed")
			}
			t.Row(
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.User,
				event.Device,
				string(event.Kind),
				event.Operation,
				event.Runner,
				status,
				event.Duration.Round(time.Millisecond).String(),
			)
		}
		t.Flush()
		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditDevice, "device", "", "Filter by device")
	auditListCmd.Flags().StringVar(&auditUser, "user", "", "Filter by user")
	auditListCmd.Flags().StringVar(&auditRunner, "runner", "", "Filter by runner (simulation or real)")
	auditListCmd.Flags().StringVar(&auditKind, "kind", "", "Filter by kind (playbook or module)")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h, 90m)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show")
	auditListCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed operations")

	auditCmd.AddCommand(auditListCmd)
}
