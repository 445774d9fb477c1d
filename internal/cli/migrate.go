package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var targetVersion int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply school snapshot schema migrations",
		Long: `Apply the embedded school_snapshots migrations to database.url.

By default, migrates to the latest version. Use --target-version for a
specific version, or 0 to roll back everything.

Examples:
  catchment migrate
  catchment migrate --target-version 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("database.url is required")
			}
			if err := store.Migrate(cfg.Database.URL, targetVersion); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().IntVar(&targetVersion, "target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	return cmd
}
