package commands

import (
	"github.com/spf13/cobra"

	"github.com/hemtt-tools/hemttctl/internal/hemtt"
)

func lnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ln",
		Short: "Project lint helpers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sort",
		Short: "Run 'hemtt ln sort' to sort stringtables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), hemtt.WithGlobals(s.global, "ln", "sort"))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "coverage",
		Short: "Run 'hemtt ln coverage' to report stringtable coverage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), hemtt.WithGlobals(s.global, "ln", "coverage"))
		},
	})

	return cmd
}

func utilsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "utils",
		Short: "HEMTT utility commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "fnl",
		Short: "Run 'hemtt utils fnl' to fix file line endings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), hemtt.WithGlobals(s.global, "utils", "fnl"))
		},
	})

	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <args...>",
		Short: "Run hemtt with custom arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), hemtt.WithGlobals(s.global, args...))
		},
	}
}
