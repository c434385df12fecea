package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ECOTRACE_BACK-END/internal/models"
)

func TestParseHistoryFilter(t *testing.T) {
	req := httptest.NewRequest("GET",
		"/history?analysis_type=barcode_scan&category=Food&min_eco_score=40&max_eco_score=90"+
			"&date_from=2026-08-01T00:00:00Z&limit=10&offset=20", nil)

	filter, err := parseHistoryFilter(req)
	require.NoError(t, err)

	require.NotNil(t, filter.AnalysisType)
	assert.Equal(t, models.AnalysisTypeBarcodeScan, *filter.AnalysisType)
	require.NotNil(t, filter.Category)
	assert.Equal(t, "Food", *filter.Category)
	require.NotNil(t, filter.MinEcoScore)
	assert.Equal(t, 40, *filter.MinEcoScore)
	require.NotNil(t, filter.MaxEcoScore)
	assert.Equal(t, 90, *filter.MaxEcoScore)
	require.NotNil(t, filter.DateFrom)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), filter.DateFrom.UTC())
	assert.Nil(t, filter.DateTo)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 20, filter.Offset)
}

func TestParseHistoryFilterDefaultsToUnset(t *testing.T) {
	filter, err := parseHistoryFilter(httptest.NewRequest("GET", "/history", nil))
	require.NoError(t, err)

	assert.Nil(t, filter.AnalysisType)
	assert.Nil(t, filter.Category)
	assert.Nil(t, filter.MinEcoScore)
	assert.Nil(t, filter.DateFrom)
	assert.Zero(t, filter.Limit)
	assert.Zero(t, filter.Offset)
}

func TestParseHistoryFilterRejectsBadInput(t *testing.T) {
	cases := []string{
		"/history?analysis_type=nonsense",
		"/history?min_eco_score=abc",
		"/history?date_from=yesterday",
		"/history?limit=ten",
	}
	for _, target := range cases {
		_, err := parseHistoryFilter(httptest.NewRequest("GET", target, nil))
		assert.Error(t, err, "target %s should fail", target)
	}
}
