package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Catchment/internal/config"
	"github.com/MikeSquared-Agency/Catchment/internal/scoring"
)

var (
	proColor   = color.New(color.FgGreen)
	conColor   = color.New(color.FgRed)
	titleColor = color.New(color.Bold)
)

func newExplainCmd(opts *rootOptions) *cobra.Command {
	var fixture string
	cmd := &cobra.Command{
		Use:   "explain <school-id>",
		Short: "Print the pros and cons of one school",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid school id %q", args[0])
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if fixture != "" {
				cfg.Snapshots.Source = config.SourceFile
				cfg.Snapshots.FixturePath = fixture
			}
			svc, closeStore, err := offlineService(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			pc, err := svc.ProsCons(cmd.Context(), id)
			if err != nil {
				return err
			}
			if pc == nil {
				return fmt.Errorf("school %d not found", id)
			}
			printProsCons(cmd.OutOrStdout(), pc)
			return nil
		},
	}
	cmd.Flags().StringVar(&fixture, "fixture", "", "Read snapshots from this YAML fixture instead of the configured source")
	return cmd
}

func printProsCons(w io.Writer, pc *scoring.ProsCons) {
	titleColor.Fprintf(w, "%s (%d)\n", pc.SchoolName, pc.SchoolID)
	if len(pc.Pros) == 0 && len(pc.Cons) == 0 {
		fmt.Fprintln(w, "  Nothing stands out either way.")
		return
	}
	for _, p := range pc.Pros {
		proColor.Fprintf(w, "  + %s\n", p)
	}
	for _, c := range pc.Cons {
		conColor.Fprintf(w, "  - %s\n", c)
	}
}
