package commands

import (
	"github.com/spf13/cobra"

	"github.com/hemtt-tools/hemttctl/internal/hemtt"
)

func releaseCmd() *cobra.Command {
	var (
		noBinarize bool
		noRap      bool
		noSign     bool
		noArchive  bool
	)

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Run 'hemtt release' (signed release build)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			opts := hemtt.ReleaseOptions{
				NoBinarize: noBinarize,
				NoRap:      noRap,
				NoSign:     noSign,
				NoArchive:  noArchive,
			}
			return s.run(cmd.Context(), hemtt.ReleaseArgs(s.global, opts))
		},
	}

	cmd.Flags().BoolVar(&noBinarize, "no-bin", false, "Do not binarize files")
	cmd.Flags().BoolVar(&noRap, "no-rap", false, "Do not rapify configs")
	cmd.Flags().BoolVar(&noSign, "no-sign", false, "Do not sign the PBOs")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "Do not create release archives")

	return cmd
}
