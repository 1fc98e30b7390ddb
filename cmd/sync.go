/*
Copyright © 2025 Conn2Flow <dev@conn2flow.com>
*/
package cmd

import (
	"fmt"

	"github.com/conn2flow/flowdev/internal/syncdir"
	"github.com/conn2flow/flowdev/pkg/config"
	"github.com/conn2flow/flowdev/pkg/logger"
	"github.com/conn2flow/flowdev/pkg/safeio"
	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the plugin tree into the deploy environment",
	Long: `Sync copies the active plugin's source tree into the deploy root (the
descriptor's deployPath unless --dest is given), honoring the include,
exclude and prune rules from .flowdev/sync.yaml.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("plugin-root", "", "Plugin source tree (default: active plugin from the environment descriptor)")
	syncCmd.Flags().String("dest", "", "Destination directory (default: descriptor deployPath)")
	syncCmd.Flags().Bool("dry-run", false, "Report planned actions without copying")
	syncCmd.Flags().Bool("prune", false, "Remove destination files no longer present in the source")
}

func runSync(cmd *cobra.Command, args []string) error {
	pluginRoot, _ := cmd.Flags().GetString("plugin-root")
	dest, _ := cmd.Flags().GetString("dest")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	prune, _ := cmd.Flags().GetBool("prune")
	noOp, _ := cmd.Root().PersistentFlags().GetBool("no-op")

	ctx, err := resolvePlugin(pluginRoot, "")
	if err != nil {
		return err
	}
	if dest == "" {
		dest = ctx.DeployRoot
	}
	if dest == "" {
		return fmt.Errorf("no sync destination: descriptor has no deployPath and --dest not given")
	}
	dest, err = safeio.CleanUserPath(dest)
	if err != nil {
		return fmt.Errorf("invalid sync destination: %w", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	rules, err := syncdir.LoadRules(joinRoot(ctx.Root, cfg.Sync.RulesFile))
	if err != nil {
		return err
	}
	if prune {
		rules.Prune = true
	}

	result, err := syncdir.PerformSync(syncdir.Options{
		Source:      ctx.Root,
		Dest:        dest,
		Rules:       rules,
		DryRun:      dryRun || noOp,
		Concurrency: cfg.Sync.Concurrency,
	})
	if err != nil {
		return err
	}

	if dryRun || noOp {
		for _, rel := range result.Planned {
			fmt.Fprintf(cmd.OutOrStdout(), "would copy %s\n", rel)
		}
		logger.Info("Dry run complete", logger.Int("planned", len(result.Planned)))
		return nil
	}

	logger.Info("Sync complete",
		logger.String("dest", dest),
		logger.Int("copied", result.FilesCopied),
		logger.Int("removed", result.FilesRemoved))
	for _, e := range result.Errors {
		logger.Warn("Sync file failure", logger.Err(e))
	}
	return nil
}
