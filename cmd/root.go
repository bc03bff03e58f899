package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/logger"
)

var (
	// Global flags
	debug      bool
	dryRun     bool
	mode       string
	minSize    string
	configPath string
	logFormat  string

	// cfg is the effective configuration, loaded before any command runs.
	cfg *config.Config

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "cmole",
	Short: "Find and remove large cache and build-artifact directories",
	Long: `cachemole - reclaim disk space from caches and stale build artifacts.

Scans well-known cache locations (system, browser, IDE and developer tools)
and your project folders, then lets you review and delete what it found.
Nothing is removed without an explicit confirmation, and protected system
and credential locations are never offered.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runClean,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&debug, "debug", false, "Show detailed operation logs")
	pf.BoolVar(&dryRun, "dry-run", false, "Run every check but delete nothing")
	pf.StringVar(&mode, "mode", "", "User interface: interactive or classic (default: interactive on a terminal)")
	pf.StringVar(&minSize, "min-size", "", "Smallest directory to offer (e.g. 100MB)")
	pf.StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/cachemole/config.yaml)")
	pf.StringVar(&logFormat, "log-format", "", "Log format: text or json")

	rootCmd.Flags().Bool("no-projects", false, "Skip the project build-artifact scan")
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Register all subcommands
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves defaults < file < environment < flags and sets up
// logging from the result.
func loadConfig(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	c, err := config.LoadConfig(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("min-size") {
		c.Settings.MinSize = minSize
	}
	if dryRun {
		c.Settings.DryRun = true
	}
	if debug {
		c.Settings.LogLevel = "debug"
	}
	if flags.Changed("log-format") {
		c.Settings.LogFormat = logFormat
	}
	if f := flags.Lookup("no-projects"); f != nil && f.Changed && f.Value.String() == "true" {
		c.Projects.Enabled = false
	}
	if err := c.Validate(); err != nil {
		return err
	}

	logger.InitLogger(c.Settings.LogLevel, logger.ParseFormat(c.Settings.LogFormat))
	logger.DebugfWithFields(logger.Fields{"path": path}, "configuration loaded")
	cfg = c
	return nil
}
