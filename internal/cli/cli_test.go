package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Catchment/internal/config"
	"github.com/MikeSquared-Agency/Catchment/internal/scoring"
	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

const fixtureYAML = `schools:
  - id: 1
    name: Alder Primary
    attributes:
      is_private: false
      distance_km: 0.5
      ofsted_rating: outstanding
      has_breakfast_club: true
      has_afterschool_club: true
  - id: 2
    name: Birch Primary
    attributes:
      distance_km: 5
      ofsted_rating: good
  - id: 3
    name: Cedar CofE Primary
    attributes:
      distance_km: 1.2
      ofsted_rating: requires_improvement
      faith: Church of England
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schools.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRankCommand(t *testing.T) {
	fixture := writeFixture(t)
	out, err := run(t, "rank", "--fixture", fixture, "--ids", "2,1,3,99", "--weight", "distance=50,ofsted=50")
	require.NoError(t, err)

	alder := strings.Index(out, "Alder Primary")
	birch := strings.Index(out, "Birch Primary")
	require.NotEqual(t, -1, alder)
	require.NotEqual(t, -1, birch)
	assert.Less(t, alder, birch)
	assert.Contains(t, out, "97.5")
	assert.Contains(t, out, "Ranked 3 schools, 1 unknown ids dropped")
}

func TestRankCommandConstraints(t *testing.T) {
	fixture := writeFixture(t)
	out, err := run(t, "rank", "--fixture", fixture, "--ids", "1,2,3", "--no-faith", "--max-distance", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Alder Primary")
	assert.NotContains(t, out, "Birch Primary")
	assert.NotContains(t, out, "Cedar")
	assert.Contains(t, out, "2 excluded by constraints")
}

func TestRankCommandRejectsNegativeMaxDistance(t *testing.T) {
	fixture := writeFixture(t)
	_, err := run(t, "rank", "--fixture", fixture, "--ids", "1,2,3", "--max-distance", "-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_distance_km")
}

func TestRankCommandZeroMaxDistanceIsAConstraint(t *testing.T) {
	fixture := writeFixture(t)
	out, err := run(t, "rank", "--fixture", fixture, "--ids", "1,2", "--max-distance", "0")
	require.NoError(t, err)
	assert.NotContains(t, out, "Alder Primary")
	assert.NotContains(t, out, "Birch Primary")
	assert.Contains(t, out, "2 excluded by constraints")
}

func TestRankCommandRejectsBadWeight(t *testing.T) {
	fixture := writeFixture(t)
	_, err := run(t, "rank", "--fixture", fixture, "--ids", "1", "--weight", "distance=-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distance")

	_, err = run(t, "rank", "--fixture", fixture, "--ids", "1", "--weight", "ofsted=lots")
	require.Error(t, err)
}

func TestRankCommandRequiresIDs(t *testing.T) {
	_, err := run(t, "rank", "--fixture", writeFixture(t))
	assert.Error(t, err)
}

func TestExplainCommand(t *testing.T) {
	fixture := writeFixture(t)
	out, err := run(t, "explain", "1", "--fixture", fixture)
	require.NoError(t, err)

	assert.Contains(t, out, "Alder Primary (1)")
	assert.Contains(t, out, "+ Outstanding Ofsted rating")
	assert.Contains(t, out, "+ Both breakfast and after-school clubs available")
	assert.Contains(t, out, "+ No tuition fees (state school)")
}

func TestExplainCommandSkipsUnrecordedFees(t *testing.T) {
	out, err := run(t, "explain", "2", "--fixture", writeFixture(t))
	require.NoError(t, err)
	assert.NotContains(t, out, "fees")
}

func TestExplainCommandUnknownSchool(t *testing.T) {
	_, err := run(t, "explain", "404", "--fixture", writeFixture(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = run(t, "explain", "abc", "--fixture", writeFixture(t))
	assert.Error(t, err)
}

func TestParseWeightFlagsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	w, err := parseWeightFlags(&bytes.Buffer{}, nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultWeights(), w)

	var stderr bytes.Buffer
	w, err = parseWeightFlags(&stderr, map[string]string{"homework": "2", "pool": "1"}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2.0, w[scoring.Homework])
	assert.Contains(t, stderr.String(), "pool")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestOpenStore(t *testing.T) {
	cfg := &config.Config{Snapshots: config.SnapshotsConfig{Source: config.SourceFile, FixturePath: writeFixture(t)}}
	s, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	_, ok := s.(*store.FileStore)
	assert.True(t, ok)

	cfg = &config.Config{Snapshots: config.SnapshotsConfig{Source: config.SourcePostgres}}
	_, err = openStore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSeedCommandDryRun(t *testing.T) {
	out, err := run(t, "seed", "--fixture", writeFixture(t), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "parsed 3 schools")
	assert.Less(t, strings.Index(out, "1  Alder Primary"), strings.Index(out, "3  Cedar CofE Primary"))
}
