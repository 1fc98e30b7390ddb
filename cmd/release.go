/*
Copyright © 2025 Conn2Flow <dev@conn2flow.com>
*/
package cmd

import (
	"fmt"

	"github.com/aymerick/raymond"
	"github.com/conn2flow/flowdev/internal/gitrel"
	"github.com/conn2flow/flowdev/internal/manifest"
	"github.com/conn2flow/flowdev/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultReleaseMessage = "release {{plugin}} v{{version}}"

// releaseCmd represents the release command
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Commit, tag and push a plugin release",
	Long: `Release stages all changes in the plugin repository, commits them with a
templated message, optionally creates the annotated tag v<version>, and
optionally pushes commit and tags to the remote.

The commit message is a Handlebars template with {{plugin}} and {{version}}
available.`,
	RunE: runRelease,
}

func init() {
	releaseCmd.Flags().String("plugin-root", "", "Plugin source tree (default: active plugin from the environment descriptor)")
	releaseCmd.Flags().String("message", defaultReleaseMessage, "Commit message template")
	releaseCmd.Flags().Bool("tag", false, "Create the annotated tag v<version>")
	releaseCmd.Flags().Bool("push", false, "Push commit and tags to the remote")
	releaseCmd.Flags().String("remote", "origin", "Remote to push to")
}

func runRelease(cmd *cobra.Command, args []string) error {
	pluginRoot, _ := cmd.Flags().GetString("plugin-root")
	template, _ := cmd.Flags().GetString("message")
	tag, _ := cmd.Flags().GetBool("tag")
	push, _ := cmd.Flags().GetBool("push")
	remote, _ := cmd.Flags().GetString("remote")
	noOp, _ := cmd.Root().PersistentFlags().GetBool("no-op")

	ctx, err := resolvePlugin(pluginRoot, "")
	if err != nil {
		return err
	}
	m, err := manifest.Load(ctx.Root)
	if err != nil {
		return err
	}

	message, err := raymond.Render(template, map[string]string{
		"plugin":  ctx.ID,
		"version": m.Version,
	})
	if err != nil {
		return fmt.Errorf("rendering commit message template: %w", err)
	}

	if prev, tagErr := gitrel.LatestTag(ctx.Root); tagErr == nil {
		logger.Info("Previous release tag", logger.String("tag", prev))
	}

	opts := gitrel.Options{
		RepoDir: ctx.Root,
		Message: message,
		Push:    push,
		Remote:  remote,
		NoOp:    noOp,
	}
	if tag {
		opts.Tag = "v" + m.Version
	}

	result, err := gitrel.Run(opts)
	if err != nil {
		return err
	}

	switch {
	case result.Committed:
		logger.Info("Release committed", logger.String("sha", result.CommitSHA), logger.String("message", message))
	case result.Tagged:
		logger.Info("Worktree clean, tag created", logger.String("tag", opts.Tag))
	default:
		logger.Warn("Nothing to release: worktree clean and no tag requested")
	}
	if result.Pushed {
		logger.Info("Pushed to remote", logger.String("remote", remote))
	}
	return nil
}
