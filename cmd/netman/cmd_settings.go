package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netman-network/netman/pkg/cli"
	"github.com/netman-network/netman/pkg/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent settings",
	Long: `Manage persistent settings stored in ~/.netman/settings.json.

Settings provide defaults for flags and file locations:
  - mode:           Runner mode (simulation or real)
  - simulation_dir: Directory scanned for canned response files
  - redis_addr:     Redis server holding additional canned responses
  - schedule:       Default interval or cron expression for status --watch

Examples:
  netman settings show
  netman settings set mode real
  netman settings set redis_addr localhost:6379
  netman settings set schedule "*/5 * * * *"
  netman settings clear`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.settings
		if jsonOutput {
			return cli.PrintJSON(cmd.OutOrStdout(), s)
		}

		fmt.Printf("Settings file: %s\n\n", settingsPath())

		t := cli.NewTable("SETTING", "VALUE")
		for _, key := range settings.Keys() {
			value, _ := s.Get(key)
			if value == "" {
				value = cli.Dim("(not set)")
			}
			t.Row(key, value)
		}
		t.Flush()
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <setting> <value>",
	Short: "Set a setting value",
	Long: fmt.Sprintf(`Set a persistent setting value. An empty value unsets it.

Available settings:
  %s

Examples:
  netman settings set mode real
  netman settings set catalog_sources simulation/ios.yaml,simulation/junos.yaml
  netman settings set seed 42`, strings.Join(settings.Keys(), "\n  ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		setting, value := args[0], args[1]

		s := app.settings
		if err := s.Set(setting, value); err != nil {
			return err
		}
		if err := saveSettings(s); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}

		if value == "" {
			fmt.Printf("%s unset\n", setting)
		} else {
			fmt.Printf("%s set to: %s\n", setting, value)
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <setting>",
	Short: "Get a setting value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := app.settings.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Println("(not set)")
		} else {
			fmt.Println(value)
		}
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := app.settings
		s.Clear()
		if err := saveSettings(s); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Println("All settings cleared.")
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settingsPath())
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
