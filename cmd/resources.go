/*
Copyright © 2025 Conn2Flow <dev@conn2flow.com>
*/
package cmd

import (
	"fmt"

	"github.com/conn2flow/flowdev/internal/resources"
	"github.com/conn2flow/flowdev/pkg/ascii"
	"github.com/conn2flow/flowdev/pkg/config"
	"github.com/conn2flow/flowdev/pkg/logger"
	"github.com/spf13/cobra"
)

// resourcesCmd represents the resources command
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Aggregate plugin resources into the canonical data collections",
	Long: `Aggregate walks the plugin's resource tree (global plus every module)
and merges the per-language layout, page, component and variable fragments
into the four canonical collections under db/data. Records that violate a
uniqueness rule or carry no id are routed to db/orphans with a reason.

Version counters are carried forward from the previous output: an unchanged
checksum keeps its counter, a changed one increments it.`,
	RunE: runResources,
}

func init() {
	resourcesCmd.Flags().String("plugin-root", "", "Plugin source tree (default: active plugin from the environment descriptor)")
	resourcesCmd.Flags().String("deploy-plugin-root", "", "Deployed plugin tree used for output (default: descriptor deployPath)")
	resourcesCmd.Flags().String("test-plugin", "", "Alias of --deploy-plugin-root")
}

func runResources(cmd *cobra.Command, args []string) error {
	pluginRoot, _ := cmd.Flags().GetString("plugin-root")
	deployRoot, _ := cmd.Flags().GetString("deploy-plugin-root")
	if deployRoot == "" {
		deployRoot, _ = cmd.Flags().GetString("test-plugin")
	}

	ctx, err := resolvePlugin(pluginRoot, deployRoot)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Collections are written into the deploy tree when one is configured,
	// otherwise alongside the source tree.
	outputRoot := ctx.Root
	if ctx.DeployRoot != "" {
		outputRoot = ctx.DeployRoot
	}

	agg, err := resources.NewAggregator(resources.Options{
		PluginRoot:   ctx.Root,
		DataDir:      joinRoot(outputRoot, cfg.Resources.DataDir),
		OrphansDir:   joinRoot(outputRoot, cfg.Resources.OrphansDir),
		LanguagesMap: joinRoot(ctx.Root, cfg.Resources.LanguagesMap),
		Indent:       cfg.Resources.Indent,
	})
	if err != nil {
		return err
	}

	logger.Info("Aggregating resources", logger.String("plugin", ctx.Root), logger.String("output", outputRoot))

	result, err := agg.Run()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), ascii.Box(result.SummaryLines()))
	return nil
}
