/*
Copyright © 2025 Conn2Flow <dev@conn2flow.com>
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/conn2flow/flowdev/internal/env"
	"github.com/conn2flow/flowdev/internal/manifest"
	"github.com/spf13/cobra"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the resolved development environment",
	Long: `Env locates the environment descriptor (conn2flow-env.json) by walking up
from the working directory and prints the resolved plugin set, marking the
active plugin and each plugin's manifest version where available.`,
	RunE: runEnv,
}

type envPluginReport struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	DeployPath string `json:"deployPath,omitempty"`
	Version    string `json:"version,omitempty"`
	Active     bool   `json:"active"`
}

type envReport struct {
	Descriptor string            `json:"descriptor"`
	Plugins    []envPluginReport `json:"plugins"`
}

func runEnv(cmd *cobra.Command, args []string) error {
	desc, err := env.Discover()
	if err != nil {
		return err
	}

	report := envReport{Descriptor: desc.Dir + "/" + env.DescriptorName}
	for _, p := range desc.Plugins {
		entry := envPluginReport{
			ID:         p.ID,
			Path:       desc.Resolve(&p),
			DeployPath: p.DeployPath,
			Active:     p.ID == desc.ActivePlugin,
		}
		if m, err := manifest.Load(entry.Path); err == nil {
			entry.Version = m.Version
		}
		report.Plugins = append(report.Plugins, entry)
	}

	// The global --json flag switches both logs and report output.
	jsonOut, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()
	if jsonOut {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "descriptor: %s\n", report.Descriptor)
	for _, p := range report.Plugins {
		marker := " "
		if p.Active {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-16s %s", marker, p.ID, p.Path)
		if p.Version != "" {
			fmt.Fprintf(out, " (v%s)", p.Version)
		}
		if p.DeployPath != "" {
			fmt.Fprintf(out, " -> %s", p.DeployPath)
		}
		fmt.Fprintln(out)
	}
	return nil
}
