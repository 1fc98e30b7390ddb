/*
Copyright © 2025 Conn2Flow <dev@conn2flow.com>
*/
package cmd

import (
	"os"

	"github.com/conn2flow/flowdev/pkg/buildinfo"
	"github.com/conn2flow/flowdev/pkg/exitcode"
	"github.com/conn2flow/flowdev/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowdev",
		Short: "Developer workflow tooling for Conn2Flow plugins",
		Long: `Flowdev automates the Conn2Flow plugin development loop: it aggregates
layout, page, component and variable resources into the canonical data
collections, manages plugin versions, cuts releases, and syncs the plugin
tree into a running environment.

Examples:
   flowdev resources           # Aggregate resources into db/data collections
   flowdev version             # Show the active plugin's version
   flowdev version bump patch  # Bump the plugin version
   flowdev release --tag       # Commit, tag and optionally push a release
   flowdev sync --dry-run      # Preview a sync into the deploy tree`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Run tasks without making changes (assessment mode)")

	// Wire Cobra's built-in --version using flowdev's binary version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("flowdev {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(resourcesCmd)
	cmd.AddCommand(versionCmd)
	cmd.AddCommand(releaseCmd)
	cmd.AddCommand(syncCmd)
	cmd.AddCommand(envCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitcode.GeneralError)
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "flowdev",
		NoOp:      noOp,
	}

	if err := logger.Initialize(config); err != nil {
		// Fallback to stderr
		if _, writeErr := os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n"); writeErr != nil {
			_ = writeErr
		}
		os.Exit(exitcode.ConfigError)
	}
}
