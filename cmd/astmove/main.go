// Package main provides the entry point for the astmove CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astmove/cmd/astmove/commands"
	"github.com/Sumatoshi-tech/astmove/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "astmove",
		Short: "astmove - AST mappings across refactored files",
		Long: `astmove maps syntax tree nodes between two versions of source files,
including code that moved from one file to another.

Commands:
  match     Map two files or two directory trees`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(commands.FlagConfig, "", "config file (default is ./astmove.yaml)")
	rootCmd.PersistentFlags().BoolP(commands.FlagVerbose, "v", false, "verbose output")

	rootCmd.AddCommand(commands.NewMatchCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "astmove %s (commit: %s, %s)\n", info.Version, info.Commit, info.GoVersion)
		},
	}
}
