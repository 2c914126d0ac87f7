// Package main provides the entry point for the linkmirror CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkmirror.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkmirror",
		Short: "Build a self-hosted static site from a Linktree profile",
		Long: `linkmirror turns a Linktree profile page into a self-hosted static site.

It reads the JSON payload embedded in the profile page, downloads the
avatar, and renders an HTML page plus stylesheet into an output
directory ready for any static host.

The input can be a saved HTML file or the profile URL itself.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
