/*
Copyright © 2025 Conn2Flow <dev@conn2flow.com>
*/
package cmd

import (
	"fmt"

	"github.com/conn2flow/flowdev/internal/gitrel"
	"github.com/conn2flow/flowdev/internal/manifest"
	"github.com/conn2flow/flowdev/pkg/logger"
	"github.com/conn2flow/flowdev/pkg/versioning"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Version management for the active plugin",
	Long: `Version management for the plugin manifest (plugin.json).
Shows, bumps, sets and validates the plugin version; bumps can create a
matching annotated git tag.`,
	RunE: runVersion,
}

var versionBumpCmd = &cobra.Command{
	Use:       "bump [major|minor|patch]",
	Short:     "Bump the plugin version",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"major", "minor", "patch"},
	RunE:      runVersionBump,
}

var versionSetCmd = &cobra.Command{
	Use:   "set <version>",
	Short: "Set the plugin version explicitly",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionSet,
}

var versionValidateCmd = &cobra.Command{
	Use:   "validate <version>",
	Short: "Validate a version string",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionValidate,
}

func init() {
	versionCmd.Flags().String("plugin-root", "", "Plugin source tree (default: active plugin from the environment descriptor)")

	versionCmd.AddCommand(versionBumpCmd)
	versionCmd.AddCommand(versionSetCmd)
	versionCmd.AddCommand(versionValidateCmd)

	for _, sub := range []*cobra.Command{versionBumpCmd, versionSetCmd} {
		sub.Flags().String("plugin-root", "", "Plugin source tree (default: active plugin from the environment descriptor)")
		sub.Flags().Bool("tag", false, "Create an annotated git tag v<version> after updating")
	}
}

func loadManifest(cmd *cobra.Command) (*pluginContext, *manifest.Manifest, error) {
	pluginRoot, _ := cmd.Flags().GetString("plugin-root")
	ctx, err := resolvePlugin(pluginRoot, "")
	if err != nil {
		return nil, nil, err
	}
	m, err := manifest.Load(ctx.Root)
	if err != nil {
		return nil, nil, err
	}
	return ctx, m, nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	_, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), m.Version)
	return nil
}

func runVersionBump(cmd *cobra.Command, args []string) error {
	ctx, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}
	noOp, _ := cmd.Root().PersistentFlags().GetBool("no-op")

	previous := m.Version
	if noOp {
		v, err := versioning.Parse(previous)
		if err != nil {
			return err
		}
		bumped, err := v.Bump(args[0])
		if err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("[NO-OP] Would bump version: %s -> %s", previous, bumped))
		return nil
	}

	next, err := m.Bump(args[0])
	if err != nil {
		return err
	}
	logger.Info("Version bumped", logger.String("from", previous), logger.String("to", next))
	fmt.Fprintln(cmd.OutOrStdout(), next)

	return maybeTag(cmd, ctx, next)
}

func runVersionSet(cmd *cobra.Command, args []string) error {
	ctx, m, err := loadManifest(cmd)
	if err != nil {
		return err
	}
	noOp, _ := cmd.Root().PersistentFlags().GetBool("no-op")

	if noOp {
		if err := versioning.Validate(args[0]); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("[NO-OP] Would set version: %s -> %s", m.Version, args[0]))
		return nil
	}

	previous := m.Version
	if err := m.Set(args[0]); err != nil {
		return err
	}
	logger.Info("Version set", logger.String("from", previous), logger.String("to", args[0]))

	return maybeTag(cmd, ctx, args[0])
}

func runVersionValidate(cmd *cobra.Command, args []string) error {
	if err := versioning.Validate(args[0]); err != nil {
		return fmt.Errorf("invalid version %q: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
	return nil
}

// maybeTag creates the annotated release tag when --tag was given.
func maybeTag(cmd *cobra.Command, ctx *pluginContext, version string) error {
	tag, _ := cmd.Flags().GetBool("tag")
	if !tag {
		return nil
	}
	noOp, _ := cmd.Root().PersistentFlags().GetBool("no-op")
	return gitrel.CreateTag(ctx.Root, "v"+version, noOp)
}
