package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Catchment/internal/config"
	"github.com/MikeSquared-Agency/Catchment/internal/hermes"
	"github.com/MikeSquared-Agency/Catchment/internal/metrics"
	"github.com/MikeSquared-Agency/Catchment/internal/ranking"
	"github.com/MikeSquared-Agency/Catchment/internal/scoring"
)

type rankOptions struct {
	ids          []int64
	weights      map[string]string
	fixture      string
	maxDistance  float64
	minRating    string
	noFaith      bool
	requireRated bool
	components   bool
}

func newRankCmd(opts *rootOptions) *cobra.Command {
	ro := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank schools offline and print a table",
		Long: `Rank a shortlist of schools from the configured snapshot source, or a
YAML fixture, without starting the server.

Examples:
  catchment rank --fixture schools.yaml --ids 1,2,3 --weight distance=50,ofsted=50
  catchment rank --ids 1,2,3 --max-distance 3 --min-rating good --no-faith`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return runRank(cmd, cfg, ro)
		},
	}
	cmd.Flags().Int64SliceVar(&ro.ids, "ids", nil, "Comma-separated school ids to rank")
	cmd.Flags().StringToStringVar(&ro.weights, "weight", nil, "Criterion weights, e.g. distance=50,ofsted=50 (default: configured weights)")
	cmd.Flags().StringVar(&ro.fixture, "fixture", "", "Read snapshots from this YAML fixture instead of the configured source")
	cmd.Flags().Float64Var(&ro.maxDistance, "max-distance", 0, "Exclude schools further than this many km")
	cmd.Flags().StringVar(&ro.minRating, "min-rating", "", "Exclude schools rated below this Ofsted rating")
	cmd.Flags().BoolVar(&ro.noFaith, "no-faith", false, "Exclude faith schools")
	cmd.Flags().BoolVar(&ro.requireRated, "require-rated", false, "With --min-rating, also exclude unrated schools")
	cmd.Flags().BoolVar(&ro.components, "components", false, "Print every criterion sub-score")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func runRank(cmd *cobra.Command, cfg *config.Config, ro *rankOptions) error {
	if ro.fixture != "" {
		cfg.Snapshots.Source = config.SourceFile
		cfg.Snapshots.FixturePath = ro.fixture
	}
	weights, err := parseWeightFlags(cmd.ErrOrStderr(), ro.weights, cfg)
	if err != nil {
		return err
	}

	var maxDistance *float64
	if cmd.Flags().Changed("max-distance") {
		maxDistance = &ro.maxDistance
	}
	var includeFaith *bool
	if ro.noFaith {
		f := false
		includeFaith = &f
	}
	constraints, err := scoring.NewConstraints(maxDistance, ro.minRating, includeFaith, ro.requireRated)
	if err != nil {
		return err
	}

	svc, closeStore, err := offlineService(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	res, err := svc.WhatIf(cmd.Context(), ro.ids, weights, constraints)
	if err != nil {
		return err
	}
	return printRanking(cmd.OutOrStdout(), res, ro.components)
}

func parseWeightFlags(stderr io.Writer, raw map[string]string, cfg *config.Config) (scoring.WeightVector, error) {
	if len(raw) == 0 {
		return cfg.DefaultWeights(), nil
	}
	m := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return scoring.WeightVector{}, &scoring.InvalidWeightError{Criterion: k, Reason: "not a number"}
		}
		m[strings.TrimSpace(k)] = f
	}
	w, ignored, err := scoring.WeightsFromMap(m)
	if err != nil {
		return w, err
	}
	if len(ignored) > 0 {
		fmt.Fprintf(stderr, "ignoring unknown criteria: %s\n", strings.Join(ignored, ", "))
	}
	return w, nil
}

// offlineService wires a ranking service with no event bus and a private
// metrics registry.
func offlineService(cmd *cobra.Command, cfg *config.Config) (*ranking.Service, func(), error) {
	logger := newLogger(cmd.ErrOrStderr(), cfg.Logging)
	snapshots, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot store: %w", err)
	}
	engine := scoring.NewEngine(cfg.Scoring.Policy, logger)
	svc := ranking.New(snapshots, hermes.Noop{}, engine, metrics.New(prometheus.NewRegistry()), logger)
	return svc, func() { _ = snapshots.Close() }, nil
}

func printRanking(w io.Writer, res *ranking.Result, components bool) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "School", "Score", "Pareto", "Ofsted", "Distance"}
	if components {
		for _, c := range scoring.AllCriteria() {
			headers = append(headers, c.String())
		}
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range res.Schools {
		row := []string{
			strconv.Itoa(s.Rank),
			s.SchoolName,
			fmt.Sprintf("%.1f", s.CompositeScore),
			paretoMark(s.ParetoOptimal),
			ratingLabel(s),
			distanceLabel(s),
		}
		if components {
			for _, c := range scoring.AllCriteria() {
				if s.ComponentScores.Available[c] {
					row = append(row, fmt.Sprintf("%.1f", s.ComponentScores.Scores[c]))
				} else {
					row = append(row, "-")
				}
			}
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Ranked %d schools", len(res.Schools))
	if len(res.Dropped) > 0 {
		fmt.Fprintf(w, ", %d unknown ids dropped", len(res.Dropped))
	}
	if res.Excluded > 0 {
		fmt.Fprintf(w, ", %d excluded by constraints", res.Excluded)
	}
	fmt.Fprintln(w)
	return nil
}

func paretoMark(ok bool) string {
	if ok {
		return "*"
	}
	return ""
}

func ratingLabel(s scoring.ScoredSchool) string {
	if s.OfstedRating == nil {
		return "unrated"
	}
	return string(*s.OfstedRating)
}

func distanceLabel(s scoring.ScoredSchool) string {
	if s.DistanceKm == nil {
		return "?"
	}
	return fmt.Sprintf("%.1f km", *s.DistanceKm)
}
