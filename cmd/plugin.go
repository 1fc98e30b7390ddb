/*
Copyright © 2025 Conn2Flow <dev@conn2flow.com>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn2flow/flowdev/internal/env"
)

// pluginContext is the resolved plugin the current command operates on.
type pluginContext struct {
	ID         string
	Root       string // plugin source tree (absolute)
	DeployRoot string // deploy target, empty when the descriptor has none
}

// resolvePlugin resolves the active plugin from the environment descriptor.
// Explicit overrides win over descriptor values, but only when the directory
// actually exists; otherwise the override falls back to the descriptor.
func resolvePlugin(rootOverride, deployOverride string) (*pluginContext, error) {
	ctx := &pluginContext{}

	if dirExists(rootOverride) {
		ctx.Root = rootOverride
	}
	if dirExists(deployOverride) {
		ctx.DeployRoot = deployOverride
	}
	if ctx.Root != "" && ctx.DeployRoot != "" {
		return absPlugin(ctx), nil
	}

	desc, err := env.Discover()
	if err != nil {
		if ctx.Root != "" {
			// Overridden root without a descriptor is fine; deploy stays empty.
			return absPlugin(ctx), nil
		}
		return nil, fmt.Errorf("no plugin root given and no %s found: %w", env.DescriptorName, err)
	}
	active, err := desc.Active()
	if err != nil {
		if ctx.Root != "" {
			return absPlugin(ctx), nil
		}
		return nil, err
	}

	ctx.ID = active.ID
	if ctx.Root == "" {
		ctx.Root = desc.Resolve(active)
	}
	if ctx.DeployRoot == "" {
		ctx.DeployRoot = active.DeployPath
	}
	return absPlugin(ctx), nil
}

// absPlugin makes both roots absolute. Flag values may be relative to the
// working directory, and everything downstream joins output paths against
// these roots.
func absPlugin(ctx *pluginContext) *pluginContext {
	ctx.Root = absDir(ctx.Root)
	ctx.DeployRoot = absDir(ctx.DeployRoot)
	return ctx
}

func absDir(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// joinRoot resolves value against root, leaving absolute values alone.
func joinRoot(root, value string) string {
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(root, value)
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
