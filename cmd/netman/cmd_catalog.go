package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netman-network/netman/pkg/catalog"
	"github.com/netman-network/netman/pkg/cli"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect canned device responses",
	Long: `Inspect the canned device responses used in simulation mode.

Responses are merged from the files in the simulation directory (or the
catalog_sources setting), then from Redis when redis_addr is set. Later
sources override earlier ones per command.

Examples:
  netman catalog list
  netman catalog show cisco_ios
  netman catalog get cisco_ios "show ver"`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List device types and sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := app.catalog
		if jsonOutput {
			counts := make(map[string]int)
			for _, dt := range c.DeviceTypes() {
				counts[dt] = len(c.Commands(dt))
			}
			return cli.PrintJSON(os.Stdout, map[string]any{
				"sources":      c.Sources(),
				"seeded":       c.Seeded(),
				"device_types": counts,
			})
		}

		if c.Seeded() {
			fmt.Println(cli.Dim("No response files found; using built-in responses."))
		} else {
			fmt.Printf("Sources: %s\n", strings.Join(c.Sources(), ", "))
		}
		fmt.Println()

		t := cli.NewTable("DEVICE TYPE", "COMMANDS")
		for _, dt := range c.DeviceTypes() {
			t.Row(dt, fmt.Sprint(len(c.Commands(dt))))
		}
		t.Flush()
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <device_type>",
	Short: "List the commands of a device type in match order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceType := args[0]
		if !app.catalog.Has(deviceType) {
			return fmt.Errorf("no responses for device type %q", deviceType)
		}
		commands := app.catalog.Commands(deviceType)
		if jsonOutput {
			return cli.PrintJSON(os.Stdout, commands)
		}
		for _, c := range commands {
			fmt.Println(c)
		}
		return nil
	},
}

var catalogGetCmd = &cobra.Command{
	Use:   "get <device_type> <command...>",
	Short: "Resolve a command the way the simulator does",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		deviceType := args[0]
		command := strings.Join(args[1:], " ")
		resp := app.catalog.Get(deviceType, command)

		if jsonOutput {
			return cli.PrintJSON(os.Stdout, map[string]string{
				"device_type": deviceType,
				"command":     command,
				"response":    resp,
			})
		}
		fmt.Println(resp)
		if catalog.IsUnsupported(resp) || catalog.IsInvalid(resp) {
			return fmt.Errorf("no canned response for %q on %s", command, deviceType)
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogGetCmd)
}
