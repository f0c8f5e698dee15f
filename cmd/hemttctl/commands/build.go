package commands

import (
	"github.com/spf13/cobra"

	"github.com/hemtt-tools/hemttctl/internal/hemtt"
)

func devCmd() *cobra.Command {
	return buildLikeCmd("dev", "Run 'hemtt dev' (development build)")
}

func buildCmd() *cobra.Command {
	return buildLikeCmd("build", "Run 'hemtt build' (full build)")
}

// dev and build take the same options.
func buildLikeCmd(name, short string) *cobra.Command {
	var (
		binarize     bool
		noRap        bool
		allOptionals bool
		optionals    string
		just         string
	)

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			opts := hemtt.BuildOptions{
				Binarize:     binarize,
				NoRap:        noRap,
				AllOptionals: allOptionals,
				Optionals:    hemtt.SplitList(optionals),
				Just:         hemtt.SplitList(just),
			}
			return s.run(cmd.Context(), hemtt.BuildArgs(name, s.global, opts))
		},
	}

	cmd.Flags().BoolVarP(&binarize, "binarize", "b", false, "Use BI's binarize on supported files")
	cmd.Flags().BoolVar(&noRap, "no-rap", false, "Do not rapify configs")
	cmd.Flags().BoolVarP(&allOptionals, "all-optionals", "O", false, "Include all optional addons")
	cmd.Flags().StringVarP(&optionals, "optionals", "o", "", "Optional addons to include (comma-separated)")
	cmd.Flags().StringVar(&just, "just", "", "Only build these addons (comma-separated)")

	return cmd
}
