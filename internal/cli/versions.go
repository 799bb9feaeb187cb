package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rustprint/pkg/cache"
	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/integrations/github"
	"github.com/matzehuels/rustprint/pkg/versions"
)

// versionsCommand creates the versions command for managing the rustc
// version table.
func (c *CLI) versionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Manage the rustc commit-hash to release table",
	}

	cmd.AddCommand(c.versionsUpdateCommand())
	cmd.AddCommand(c.versionsLookupCommand())
	cmd.AddCommand(c.versionsPathCommand())

	return cmd
}

// versionsUpdateCommand creates the "versions update" subcommand.
func (c *CLI) versionsUpdateCommand() *cobra.Command {
	var (
		refresh bool
		repoRef string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rebuild the version table from GitHub tags",
		Long: `Update fetches every tag of the configured repository (rust-lang/rust by
default) and writes a table mapping each tag's commit hash to its name.

Set GITHUB_TOKEN to raise the API rate limit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.updateVersions(cmd.Context(), repoRef, refresh)
			if err != nil {
				return err
			}
			cfg, _ := c.config()
			printSuccess("Saved %s version mappings", StyleNumber.Render(fmt.Sprint(table.Len())))
			printFile(cfg.VersionsFile)
			printNextStep("Analyze a binary", "rustprint analyze <file>")
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", true, "bypass cached tag pages")
	cmd.Flags().StringVar(&repoRef, "repo", "", "tag source as owner/repo (default from config)")
	return cmd
}

// updateVersions runs the refresher against GitHub and saves the table to
// the configured path. repoRef overrides the configured repository.
func (c *CLI) updateVersions(ctx context.Context, repoRef string, refresh bool) (versions.Table, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	owner, repo := cfg.GitHub.Owner, cfg.GitHub.Repo
	if repoRef != "" {
		if owner, repo, err = github.ParseRepoRef(repoRef); err != nil {
			return nil, err
		}
	} else if err := github.ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	backend, err := c.newCache(ctx, false)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	client := github.NewClient(backend, cfg.GitHub.Token, cache.TTLHTTP)
	client.SetKeyer(c.newKeyer())

	prog := newProgress(c.Logger)
	r := &versions.Refresher{
		Source:  client,
		Owner:   owner,
		Repo:    repo,
		Path:    cfg.VersionsFile,
		Refresh: refresh,
		Logger:  c.Logger,
	}
	table, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	prog.done("Version table updated")
	return table, nil
}

// versionsLookupCommand creates the "versions lookup" subcommand.
func (c *CLI) versionsLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <toolchain-hash>",
		Short: "Print the release tag for a rustc commit hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := args[0]
			if err := errors.ValidateToolchainHash(hash); err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			table, err := versions.Load(cfg.VersionsFile)
			if err != nil {
				return err
			}
			v, ok := table.Lookup(hash)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "%s is not in the version table (%d entries)", hash, table.Len())
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

// versionsPathCommand creates the "versions path" subcommand.
func (c *CLI) versionsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the version table path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.VersionsFile)
			return nil
		},
	}
}
