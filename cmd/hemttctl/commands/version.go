package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hemttctl %s\n", Version)
		},
	}
}

func bookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book",
		Short: "Print the HEMTT documentation URL",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "HEMTT documentation: https://hemtt.dev")
		},
	}
}
