package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hemtt-tools/hemttctl/internal/config"
	ghclient "github.com/hemtt-tools/hemttctl/internal/github"
)

func installCmd() *cobra.Command {
	var owner, repo string

	cmd := &cobra.Command{
		Use:   "install [version]",
		Short: "Install hemtt from a GitHub release",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := "latest"
			if len(args) == 1 {
				version = args[0]
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := ghclient.New(cfg.GitHub.Token, cfg.GitHub.AssetPattern, config.BinDir())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			tag, err := client.ResolveVersion(ctx, owner, repo, version)
			if err != nil {
				return err
			}

			path, err := client.Install(ctx, owner, repo, tag)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "✓ hemtt %s installed to %s\n", tag, path)

			cfg.Paths.Hemtt = path
			if err := config.Save(cfg); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: saving config: %v\n", err)
				return nil
			}
			fmt.Fprintln(w, "  paths.hemtt updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "GitHub owner (default: "+ghclient.DefaultOwner+")")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository (default: "+ghclient.DefaultRepo+")")

	return cmd
}

func upgradeCmd() *cobra.Command {
	var owner, repo string

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the installed hemtt to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := ghclient.New(cfg.GitHub.Token, cfg.GitHub.AssetPattern, config.BinDir())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			tag, err := client.ResolveVersion(ctx, owner, repo, "latest")
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if installed := ghclient.InstalledVersion(config.BinDir()); installed == tag {
				fmt.Fprintf(w, "hemtt %s is already up to date\n", tag)
				return nil
			}

			path, err := client.Install(ctx, owner, repo, tag)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ hemtt upgraded to %s (%s)\n", tag, path)

			cfg.Paths.Hemtt = path
			if err := config.Save(cfg); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: saving config: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "GitHub owner (default: "+ghclient.DefaultOwner+")")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository (default: "+ghclient.DefaultRepo+")")

	return cmd
}
