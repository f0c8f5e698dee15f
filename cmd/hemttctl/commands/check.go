package commands

import (
	"github.com/spf13/cobra"

	"github.com/hemtt-tools/hemttctl/internal/hemtt"
)

func checkCmd() *cobra.Command {
	var (
		pedantic bool
		lints    string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run 'hemtt check' in the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			opts := hemtt.CheckOptions{
				Pedantic: pedantic,
				Lints:    hemtt.SplitList(lints),
			}
			return s.run(cmd.Context(), hemtt.CheckArgs(s.global, opts))
		},
	}

	cmd.Flags().BoolVarP(&pedantic, "pedantic", "p", false, "Enable pedantic lints")
	cmd.Flags().StringVarP(&lints, "lints", "L", "", "Extra lints to enable (comma-separated)")

	return cmd
}
