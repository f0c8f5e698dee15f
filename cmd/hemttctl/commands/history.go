package commands

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hemtt-tools/hemttctl/internal/config"
	"github.com/hemtt-tools/hemttctl/internal/history"
)

func historyCmd() *cobra.Command {
	var limit int
	var prune int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent hemtt runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.History.Disabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (history.disabled = true).")
				return nil
			}

			store, err := history.Open(cfg.History.DB)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if prune > 0 {
				deleted, err := store.Prune(ctx, prune)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d old runs.\n", deleted)
				return nil
			}

			runs, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tCOMMAND\tRESULT\tDURATION")
			for _, r := range runs {
				display := filepath.Base(r.Command)
				if len(r.Args) > 0 {
					display += " " + strings.Join(r.Args, " ")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					r.StartedAt.Format("2006-01-02 15:04:05"),
					display,
					runResult(r),
					r.Duration.Round(time.Millisecond),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete all but the newest N runs")

	return cmd
}

func runResult(r *history.Run) string {
	switch {
	case r.LaunchError != "":
		return "launch failed"
	case r.Cancelled:
		return "cancelled"
	default:
		return "exit " + strconv.Itoa(r.ExitCode)
	}
}
