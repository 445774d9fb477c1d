package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		fixture string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML fixture into the snapshot table",
		Long: `Upsert every school in a YAML fixture into school_snapshots. Rows for
ids already present are replaced.

Example:
  catchment seed --fixture schools.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs, err := store.NewFileStore(fixture)
			if err != nil {
				return err
			}
			schools, err := fs.All()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "parsed %d schools from %s\n", len(schools), fixture)

			if dryRun {
				for _, sc := range schools {
					fmt.Fprintf(out, "  %d  %s\n", sc.ID, sc.Name)
				}
				return nil
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("database.url is required to seed")
			}
			db, err := store.NewPostgresStore(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.UpsertSchools(cmd.Context(), schools); err != nil {
				return err
			}
			fmt.Fprintf(out, "seeded %d schools\n", len(schools))
			return nil
		},
	}
	cmd.Flags().StringVar(&fixture, "fixture", "", "YAML fixture to load")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the schools without writing them")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}
