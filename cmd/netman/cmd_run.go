package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netman-network/netman/pkg/automation"
	"github.com/netman-network/netman/pkg/cli"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a playbook or a single module",
	Long: `Run a playbook or a single module through the configured runner.

Examples:
  netman run playbook backup_config.yml --host demo-router1 --var backup_file=/tmp/r1.cfg
  netman run playbook configure_device.yml --var target_host=core-switch1
  netman run module demo-router1 ios_command -c "show version" -c "show clock"
  netman run module juniper-fw1 junos_facts`,
}

var (
	runHost     string
	runVars     []string
	runCommands []string
	runArgs     []string
)

var runPlaybookCmd = &cobra.Command{
	Use:   "playbook <playbook>",
	Short: "Run a playbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := parseKeyValues(runVars)
		if err != nil {
			return err
		}
		playbook := resolvePlaybook(args[0])

		res := app.runner.RunPlaybook(cmd.Context(), playbook, runHost, vars)
		return printResult(res)
	},
}

var runModuleCmd = &cobra.Command{
	Use:   "module <host> <module>",
	Short: "Run a single module on a host",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		moduleArgs, err := parseKeyValues(runArgs)
		if err != nil {
			return err
		}
		if len(runCommands) > 0 {
			moduleArgs["commands"] = runCommands
		}

		res := app.runner.RunModule(cmd.Context(), args[0], args[1], moduleArgs)
		return printResult(res)
	},
}

func init() {
	runPlaybookCmd.Flags().StringVar(&runHost, "host", "", "Target host (default: target_host var or demo-router1)")
	runPlaybookCmd.Flags().StringArrayVar(&runVars, "var", nil, "Extra variable key=value; JSON values are decoded (repeatable)")
	runModuleCmd.Flags().StringArrayVarP(&runCommands, "command", "c", nil, "Command for *_command modules (repeatable)")
	runModuleCmd.Flags().StringArrayVarP(&runArgs, "arg", "a", nil, "Module argument key=value; JSON values are decoded (repeatable)")

	runCmd.AddCommand(runPlaybookCmd)
	runCmd.AddCommand(runModuleCmd)
}

// resolvePlaybook looks up a bare playbook name in the playbook directory
// when it does not exist as given.
func resolvePlaybook(name string) string {
	if strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(app.settings.GetPlaybookDir(), name)
}

// parseKeyValues turns key=value pairs into a map. Values that parse as JSON
// are decoded, so lists and numbers can be passed; anything else is a string.
func parseKeyValues(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair: %q", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			out[key] = decoded
		} else {
			out[key] = value
		}
	}
	return out, nil
}

// printResult renders a Result and turns an unsuccessful one into an error.
func printResult(res *automation.Result) error {
	if jsonOutput {
		if err := cli.PrintJSON(os.Stdout, res); err != nil {
			return err
		}
	} else {
		printResultText(res)
	}
	if !res.Success {
		return fmt.Errorf("operation failed: %s", res.Error)
	}
	return nil
}

func printResultText(res *automation.Result) {
	status := cli.OK(res.Success, "ok", "failed")
	if res.Success && res.IsChanged() {
		status = yellow("changed")
	}
	fmt.Printf("%s %s\n", cli.DotPad("status", 14), status)

	field := func(name, value string) {
		if value != "" {
			fmt.Printf("%s %s\n", cli.DotPad(name, 14), value)
		}
	}
	field("error", res.Error)
	field("message", res.Message)
	field("msg", res.Msg)
	field("backup_path", res.BackupPath)
	if res.PingStatus != nil {
		field("ping", res.PingStatus.Ping)
	}
	for _, u := range res.Updates {
		field("update", u)
	}
	if res.Diff != nil {
		fmt.Println(bold("\nDiff:"))
		fmt.Println(red("- " + res.Diff.Before))
		fmt.Println(green("+ " + res.Diff.After))
	}
	if res.Facts != nil {
		fmt.Println(bold("\nFacts:"))
		printDeviceFacts(res.Facts)
	}
	if res.NetFacts != nil {
		fmt.Println(bold("\nFacts:"))
		field("hostname", res.NetFacts.Hostname)
		field("version", res.NetFacts.Version)
		field("model", res.NetFacts.Model)
		field("serial", res.NetFacts.SerialNum)
		t := cli.NewTable("INTERFACE", "STATUS", "BANDWIDTH", "DESCRIPTION").SortBy(0)
		for name, iface := range res.NetFacts.Interfaces {
			t.Row(name, iface.OperStatus, fmt.Sprint(iface.Bandwidth), iface.Description)
		}
		t.Flush()
	}
	for _, block := range res.DeviceInfo {
		fmt.Println()
		fmt.Println(strings.Join(block, "\n"))
	}
	if res.Stdout != "" {
		fmt.Println(bold("\nOutput:"))
		fmt.Println(res.Stdout)
	}
}

func printDeviceFacts(f *automation.DeviceFacts) {
	rows := [][2]string{
		{"hostname", f.Hostname},
		{"version", f.Version},
		{"uptime", f.Uptime},
		{"serial", f.Serial},
		{"model", f.Model},
		{"interfaces", strings.Join(f.Interfaces, ", ")},
		{"status", strings.Join(f.Status, ", ")},
	}
	for _, r := range rows {
		fmt.Printf("%s %s\n", cli.DotPad(r[0], 14), r[1])
	}
}
