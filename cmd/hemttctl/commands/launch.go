package commands

import (
	"github.com/spf13/cobra"

	"github.com/hemtt-tools/hemttctl/internal/hemtt"
)

func launchCmd() *cobra.Command {
	var (
		quick          bool
		noFilePatching bool
		binarize       bool
		allOptionals   bool
		noRap          bool
		executable     string
		instances      int
		optionals      string
	)

	cmd := &cobra.Command{
		Use:   "launch [profile] [-- game args...]",
		Short: "Run 'hemtt launch' to start Arma 3 with the mod",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			// Everything after -- is passed through to the game.
			var passthrough []string
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				passthrough = args[at:]
				args = args[:at]
			}

			opts := hemtt.LaunchOptions{
				Quick:          quick,
				NoFilePatching: noFilePatching,
				Binarize:       binarize,
				AllOptionals:   allOptionals,
				NoRap:          noRap,
				Executable:     executable,
				Instances:      instances,
				Optionals:      hemtt.SplitList(optionals),
				Passthrough:    passthrough,
			}
			if len(args) > 0 {
				opts.Profile = args[0]
			}
			if opts.Executable == "" {
				opts.Executable = s.cfg.Paths.Arma3Exe
			}

			return s.run(cmd.Context(), hemtt.LaunchArgs(s.global, opts))
		},
	}

	cmd.Flags().BoolVarP(&quick, "quick", "Q", false, "Skip the build step")
	cmd.Flags().BoolVarP(&noFilePatching, "no-filepatching", "F", false, "Disable file patching")
	cmd.Flags().BoolVarP(&binarize, "binarize", "b", false, "Use BI's binarize on supported files")
	cmd.Flags().BoolVarP(&allOptionals, "all-optionals", "O", false, "Include all optional addons")
	cmd.Flags().BoolVar(&noRap, "no-rap", false, "Do not rapify configs")
	cmd.Flags().StringVarP(&executable, "executable", "e", "", "Game executable (default: paths.arma3_exe)")
	cmd.Flags().IntVarP(&instances, "instances", "i", 1, "Number of game instances to launch")
	cmd.Flags().StringVarP(&optionals, "optionals", "o", "", "Optional addons to include (comma-separated)")

	return cmd
}
