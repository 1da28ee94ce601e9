// Netman - network device automation with a built-in simulator
//
// Every operation goes through one automation runner chosen at startup:
// the simulator answers from canned device responses, the real runner
// shells out to the automation tool. The mode comes from settings and can
// be overridden per invocation with --mode.
//
// Examples:
//
//	netman status                                   # Probe every inventory device
//	netman status --watch --schedule "*/5 * * * *"  # Re-probe on a cron schedule
//	netman facts demo-router1                       # Gather device facts
//	netman interfaces demo-router1                  # Parsed interface state
//	netman run module demo-router1 ios_command -c "show version"
//	netman run playbook backup_config.yml --host demo-router1 --var backup_file=/tmp/r1.cfg
//	netman catalog get cisco_ios "show clock"       # Look up a canned response
//	netman --mode real facts demo-router1           # Same call against real devices
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/netman-network/netman/pkg/audit"
	"github.com/netman-network/netman/pkg/automation"
	"github.com/netman-network/netman/pkg/catalog"
	"github.com/netman-network/netman/pkg/cli"
	"github.com/netman-network/netman/pkg/inventory"
	"github.com/netman-network/netman/pkg/monitor"
	"github.com/netman-network/netman/pkg/settings"
	"github.com/netman-network/netman/pkg/simulator"
	"github.com/netman-network/netman/pkg/util"
	"github.com/netman-network/netman/pkg/version"
)

var (
	// Global option flags
	modeFlag     string
	settingsFile string
	userName     string
	verbose      bool
	logJSON      bool
	jsonOutput   bool
	noColor      bool
)

// app holds the objects built once in PersistentPreRunE.
var app struct {
	settings  *settings.Settings
	mode      automation.Mode
	catalog   *catalog.Catalog
	runner    automation.Runner
	inventory *inventory.Inventory
	monitor   *monitor.Monitor
	audit     *audit.FileLogger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "netman",
	Short:             "Network device automation with a built-in simulator",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Netman runs playbooks and modules against network devices, checks their
status and gathers facts. In simulation mode every answer comes from canned
device responses, so the whole tool works without devices or the automation
tool installed.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			cli.SetColor(false)
		}
		logOpts := util.LogOptions{Level: "warn", JSON: logJSON}
		if verbose {
			logOpts.Level = "debug"
		}
		if err := util.ConfigureLogging(logOpts); err != nil {
			return err
		}

		s, err := loadSettings()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			s = &settings.Settings{}
		}
		app.settings = s

		if isSettingsOrHelp(cmd) {
			return nil
		}
		return initApp(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.audit != nil {
			app.audit.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modeFlag, "mode", "m", "", "Runner mode: simulation or real (default from settings)")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Settings file (default ~/.netman/settings.json)")
	rootCmd.PersistentFlags().StringVar(&userName, "user", "", "User recorded in the audit log (default: current user)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "ops", Title: "Device Operations:"},
		&cobra.Group{ID: "meta", Title: "Configuration & Meta:"},
	)
	for _, cmd := range []*cobra.Command{statusCmd, factsCmd, interfacesCmd, runCmd, inventoryCmd} {
		cmd.GroupID = "ops"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{catalogCmd, auditCmd, settingsCmd, versionCmd} {
		cmd.GroupID = "meta"
		rootCmd.AddCommand(cmd)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return cli.PrintJSON(os.Stdout, version.Get())
		}
		if version.Version == "dev" {
			fmt.Println("netman dev build (stamp a version with -ldflags, see pkg/version)")
		} else {
			fmt.Printf("netman %s\n", version.Info())
		}
		return nil
	},
}

func loadSettings() (*settings.Settings, error) {
	if settingsFile != "" {
		return settings.LoadFrom(settingsFile)
	}
	return settings.Load()
}

func saveSettings(s *settings.Settings) error {
	if settingsFile != "" {
		return s.SaveTo(settingsFile)
	}
	return s.Save()
}

func settingsPath() string {
	if settingsFile != "" {
		return settingsFile
	}
	return settings.DefaultSettingsPath()
}

// initApp builds the catalog, runner, inventory and monitor from settings
// and flags.
func initApp(ctx context.Context) error {
	s := app.settings

	modeName := s.GetMode()
	if modeFlag != "" {
		modeName = modeFlag
	}
	mode, err := automation.ParseMode(modeName)
	if err != nil {
		return err
	}
	app.mode = mode

	app.catalog, err = loadCatalog(ctx, s)
	if err != nil {
		return err
	}

	runner, err := automation.New(automation.Config{
		Mode:    mode,
		Catalog: app.catalog,
		Exec: automation.ExecConfig{
			InventoryFile: s.GetAnsibleInventory(),
			Timeout:       s.GetExecTimeout(),
		},
	})
	if err != nil {
		return err
	}
	runner = automation.Instrumented(runner)

	auditLogger, err := audit.Open(s.GetAuditLog())
	if err != nil {
		util.Warnf("Could not initialize audit logging: %v", err)
	} else {
		app.audit = auditLogger
		audit.SetDefaultLogger(auditLogger)
		runner = automation.Audited(runner, auditLogger, currentUser())
	}
	app.runner = runner

	app.inventory, err = inventory.Load(s.GetInventoryFile())
	if err != nil {
		return err
	}

	var prober monitor.Prober
	if mode == automation.ModeSimulation {
		var opts []simulator.Option
		if s.Seed != nil {
			opts = append(opts, simulator.WithSeed(*s.Seed))
		}
		prober = simulator.NewConnectionSimulator(opts...)
	}
	app.monitor = monitor.New(app.runner, prober, monitor.WithPlaybookDir(s.GetPlaybookDir()))
	return nil
}

// loadCatalog merges the catalog files, then the Redis source when one is
// configured.
func loadCatalog(ctx context.Context, s *settings.Settings) (*catalog.Catalog, error) {
	paths := s.CatalogSources
	if len(paths) == 0 {
		var err error
		paths, err = catalog.ListSourceFiles(s.GetSimulationDir())
		if err != nil {
			return nil, fmt.Errorf("listing catalog sources: %w", err)
		}
	}
	docs, err := catalog.LoadFiles(paths...)
	if err != nil {
		return nil, err
	}

	if s.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: s.RedisAddr, DB: s.RedisDB})
		defer client.Close()
		doc, err := catalog.LoadRedis(ctx, client, s.GetRedisPrefix())
		if err != nil {
			return nil, fmt.Errorf("loading catalog from redis %s: %w", s.RedisAddr, err)
		}
		docs = append(docs, doc)
	}

	c := catalog.New(docs...)
	if c.Seeded() {
		util.Debugf("using built-in device responses")
	}
	return c, nil
}

func currentUser() string {
	if userName != "" {
		return userName
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

// resolveDevice returns the inventory entry for hostname. Hosts missing from
// the inventory get their device type inferred from the name.
func resolveDevice(hostname string) simulator.DeviceInfo {
	dev, err := app.inventory.Get(hostname)
	if err == nil {
		return dev
	}
	if !errors.Is(err, util.ErrDeviceNotFound) {
		util.WithDevice(hostname).Warnf("inventory lookup: %v", err)
	}
	return simulator.DeviceInfo{Hostname: hostname, DeviceType: automation.ResolveDeviceType(hostname)}
}

// isSettingsOrHelp reports whether cmd runs without the runner.
func isSettingsOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "settings":
			return true
		}
	}
	return false
}

func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
func bold(s string) string   { return cli.Bold(s) }
