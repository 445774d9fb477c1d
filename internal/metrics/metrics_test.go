package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Rankings.WithLabelValues(KindScore).Inc()
	m.SchoolsDropped.Add(2)
	m.ProsCons.WithLabelValues(OutcomeNotFound).Inc()
	m.RankingDuration.WithLabelValues(KindWhatIf).Observe(0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rankings.WithLabelValues(KindScore)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SchoolsDropped))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"catchment_rankings_total",
		"catchment_schools_dropped_total",
		"catchment_ranking_duration_seconds",
		"catchment_pros_cons_total",
	} {
		assert.True(t, names[want], want)
	}
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
