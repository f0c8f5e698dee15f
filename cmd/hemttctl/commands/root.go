package commands

import (
	"github.com/spf13/cobra"
)

// Root returns the root cobra command with all subcommands attached.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hemttctl",
		Short:         "Run HEMTT commands with streamed output",
		Long:          "hemttctl wraps the HEMTT build tool for Arma 3 mods: it streams command output line by line, keeps a local run history, and installs hemtt from GitHub releases.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("project", "C", "", "Project directory (overrides config)")
	cmd.PersistentFlags().String("hemtt", "", "HEMTT executable (overrides config)")
	cmd.PersistentFlags().String("log-file", "", "Also append streamed output to this file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Pass -v to hemtt")
	cmd.PersistentFlags().IntP("threads", "t", 0, "Pass -t <n> to hemtt")

	cmd.AddCommand(checkCmd())
	cmd.AddCommand(devCmd())
	cmd.AddCommand(buildCmd())
	cmd.AddCommand(releaseCmd())
	cmd.AddCommand(launchCmd())
	cmd.AddCommand(lnCmd())
	cmd.AddCommand(utilsCmd())
	cmd.AddCommand(runCmd())
	cmd.AddCommand(installCmd())
	cmd.AddCommand(upgradeCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(initCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(bookCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
