package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netman-network/netman/pkg/cli"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Show managed devices",
	Long: `Show the devices in the inventory file.

Examples:
  netman inventory list
  netman inventory list --group core
  netman inventory groups`,
}

var inventoryGroup string

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inventory devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		devs := app.inventory.List(inventoryGroup)
		if jsonOutput {
			return cli.PrintJSON(os.Stdout, devs)
		}
		if len(devs) == 0 {
			fmt.Printf("No devices in %s\n", app.inventory.Path())
			return nil
		}

		t := cli.NewTable("HOST", "IP", "TYPE", "PORT", "GROUPS")
		for _, d := range devs {
			port := "-"
			if d.SSHPort != 0 {
				port = fmt.Sprint(d.SSHPort)
			}
			t.Row(d.Hostname, d.IP, d.DeviceType, port, strings.Join(d.Groups, ","))
		}
		t.Flush()
		return nil
	},
}

var inventoryGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List inventory groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups := app.inventory.Groups()
		if jsonOutput {
			return cli.PrintJSON(os.Stdout, groups)
		}
		for _, g := range groups {
			fmt.Printf("%s (%d)\n", g, len(app.inventory.List(g)))
		}
		return nil
	},
}

func init() {
	inventoryListCmd.Flags().StringVar(&inventoryGroup, "group", "", "Only devices in this group")

	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryGroupsCmd)
}
