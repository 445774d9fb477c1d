package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

func ids(schools []*store.School) []int64 {
	out := make([]int64, 0, len(schools))
	for _, s := range schools {
		out = append(out, s.ID)
	}
	return out
}

func TestFilterNoConstraintsIsIdentity(t *testing.T) {
	schools := sampleSchools()
	assert.Equal(t, ids(schools), ids(Filter(schools, nil)))
	assert.Equal(t, ids(schools), ids(Filter(schools, &WhatIfConstraints{})))
}

func TestFilterMaxDistance(t *testing.T) {
	c, err := NewConstraints(float64Ptr(2), "", nil, false)
	require.NoError(t, err)
	// 4 has no distance on record and is kept.
	assert.Equal(t, []int64{1, 4, 5}, ids(Filter(sampleSchools(), c)))
}

func TestFilterMaxDistanceBoundaryIsInclusive(t *testing.T) {
	c, err := NewConstraints(float64Ptr(5), "", nil, false)
	require.NoError(t, err)
	assert.Contains(t, ids(Filter(sampleSchools(), c)), int64(2))
}

func TestFilterMinRating(t *testing.T) {
	c, err := NewConstraints(nil, "good", nil, false)
	require.NoError(t, err)
	require.NotNil(t, c.MinRating)
	assert.Equal(t, store.RatingGood, *c.MinRating)
	// 4 requires improvement; 5 is unrated and passes.
	assert.Equal(t, []int64{1, 2, 3, 5}, ids(Filter(sampleSchools(), c)))

	c.RequireRated = true
	assert.Equal(t, []int64{1, 2, 3}, ids(Filter(sampleSchools(), c)))
}

func TestFilterExcludeFaith(t *testing.T) {
	c, err := NewConstraints(nil, "", boolPtr(false), false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(Filter(sampleSchools(), c)))

	c, err = NewConstraints(nil, "", boolPtr(true), false)
	require.NoError(t, err)
	assert.Len(t, Filter(sampleSchools(), c), 5)
}

func TestFilterCombined(t *testing.T) {
	c, err := NewConstraints(float64Ptr(3), "Outstanding", boolPtr(false), false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(Filter(sampleSchools(), c)))
}

func TestFilterNeverAddsSchools(t *testing.T) {
	constraints := []*WhatIfConstraints{
		{MaxDistanceKm: float64Ptr(0)},
		{MaxDistanceKm: float64Ptr(100)},
		{MinRating: ratingPtr(store.RatingInadequate)},
		{MinRating: ratingPtr(store.RatingOutstanding), RequireRated: true},
		{IncludeFaith: boolPtr(false)},
	}
	all := sampleSchools()
	for _, c := range constraints {
		out := Filter(all, c)
		assert.LessOrEqual(t, len(out), len(all))
		for _, s := range out {
			assert.Contains(t, ids(all), s.ID)
		}
	}
}

func TestNewConstraintsRejectsInvalid(t *testing.T) {
	_, err := NewConstraints(float64Ptr(-1), "", nil, false)
	var ice *InvalidConstraintError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "max_distance_km", ice.Field)

	_, err = NewConstraints(float64Ptr(math.NaN()), "", nil, false)
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "max_distance_km", ice.Field)

	_, err = NewConstraints(nil, "Brilliant", nil, false)
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, "min_rating", ice.Field)
}

func TestIsFaithSchool(t *testing.T) {
	assert.False(t, IsFaithSchool(&store.Attributes{}))
	assert.False(t, IsFaithSchool(&store.Attributes{Faith: stringPtr("None")}))
	assert.False(t, IsFaithSchool(&store.Attributes{Faith: stringPtr(" Does not apply ")}))
	assert.False(t, IsFaithSchool(&store.Attributes{Faith: stringPtr("")}))
	assert.True(t, IsFaithSchool(&store.Attributes{Faith: stringPtr("Roman Catholic")}))
}

func TestDescribe(t *testing.T) {
	var c *WhatIfConstraints
	assert.Equal(t, "none", c.Describe())

	c, err := NewConstraints(float64Ptr(2.5), "Good", boolPtr(false), true)
	require.NoError(t, err)
	assert.Equal(t, "distance<=2.5km, rating>=Good (rated only), no faith schools", c.Describe())

	c, err = NewConstraints(nil, "", boolPtr(true), false)
	require.NoError(t, err)
	assert.Equal(t, "none", c.Describe())
}
