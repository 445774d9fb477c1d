package scoring

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawWeights(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestParseWeights(t *testing.T) {
	w, ignored, err := ParseWeights(rawWeights(t, `{"distance": 50, "ofsted": 25.5, "swimming_pool": 99}`))
	require.NoError(t, err)
	assert.Equal(t, 50.0, w[Distance])
	assert.Equal(t, 25.5, w[Ofsted])
	assert.Equal(t, 0.0, w[Fees])
	assert.Equal(t, []string{"swimming_pool"}, ignored)
}

func TestParseWeightsUnknownKeyIsNeverAnError(t *testing.T) {
	_, ignored, err := ParseWeights(rawWeights(t, `{"future_criterion": "not even a number"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"future_criterion"}, ignored)
}

func TestParseWeightsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative", `{"distance": -1}`},
		{"string", `{"ofsted": "high"}`},
		{"bool", `{"fees": true}`},
		{"object", `{"clubs": {"weight": 3}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseWeights(rawWeights(t, tt.body))
			require.Error(t, err)
			var iwe *InvalidWeightError
			assert.True(t, errors.As(err, &iwe))
		})
	}
}

func TestWeightsFromMap(t *testing.T) {
	w, ignored, err := WeightsFromMap(map[string]float64{"homework": 2, "bogus": 1})
	require.NoError(t, err)
	assert.Equal(t, 2.0, w[Homework])
	assert.Equal(t, []string{"bogus"}, ignored)

	_, _, err = WeightsFromMap(map[string]float64{"homework": -2})
	var iwe *InvalidWeightError
	require.True(t, errors.As(err, &iwe))
	assert.Equal(t, "homework", iwe.Criterion)
}

func TestValidateRejectsNonFinite(t *testing.T) {
	var w WeightVector
	w[Parking] = math.Inf(1)
	assert.Error(t, w.Validate())
	w[Parking] = math.NaN()
	assert.Error(t, w.Validate())
}

func TestEffectiveRenormalises(t *testing.T) {
	var w WeightVector
	w[Distance] = 3
	w[Ofsted] = 1
	eff := w.Effective()
	assert.InDelta(t, 0.75, eff[Distance], 1e-12)
	assert.InDelta(t, 0.25, eff[Ofsted], 1e-12)
	assert.InDelta(t, 1.0, eff.Sum(), 1e-12)
	assert.Equal(t, 0.0, eff[Homework])
}

func TestEffectiveNearFloatLimit(t *testing.T) {
	var w WeightVector
	w[Distance] = 1e308
	w[Ofsted] = 1e308
	require.True(t, math.IsInf(w.Sum(), 1))

	eff := w.Effective()
	assert.InDelta(t, 0.5, eff[Distance], 1e-12)
	assert.InDelta(t, 0.5, eff[Ofsted], 1e-12)
	assert.InDelta(t, 1.0, eff.Sum(), 1e-12)
}

func TestEffectiveAllZeroFallsBackToUniform(t *testing.T) {
	eff := WeightVector{}.Effective()
	for _, c := range AllCriteria() {
		assert.InDelta(t, 1.0/14, eff[c], 1e-12, c.String())
	}
}

func TestWeightVectorJSON(t *testing.T) {
	var w WeightVector
	require.NoError(t, json.Unmarshal([]byte(`{"distance": 2, "unknown": 5}`), &w))
	assert.Equal(t, 2.0, w[Distance])

	out, err := json.Marshal(w)
	require.NoError(t, err)
	var m map[string]float64
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Len(t, m, NumCriteria)
	assert.Equal(t, 2.0, m["distance"])

	assert.Error(t, json.Unmarshal([]byte(`{"distance": -2}`), &w))
}
