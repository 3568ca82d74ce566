package crime

import (
	"errors"
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBoundary string

func (b testBoundary) Key() string { return string(b) }

func TestCountByArea(t *testing.T) {
	records := []Record{
		{ID: "1", District: "D4"},
		{ID: "2", District: "A1"},
		{ID: "3", District: "D4"},
		{ID: "4", District: "B2"},
		{ID: "5", District: "A1"},
		{ID: "6", District: "D4"},
	}
	counts, err := CountByArea(records)
	require.NoError(t, err)
	assert.Equal(t, []AreaCount{
		{District: "D4", Count: 3},
		{District: "A1", Count: 2},
		{District: "B2", Count: 1},
	}, counts)

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	assert.Equal(t, len(records), total)
}

func TestCountByArea_Empty(t *testing.T) {
	_, err := CountByArea(nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoData))
}

func TestCentroid(t *testing.T) {
	lat, long, err := Centroid([]Record{
		{Lat: f64(42.0), Long: f64(-71.0)},
		{Lat: f64(42.2), Long: f64(-71.2)},
		{Lat: nil, Long: f64(-80)},
	})
	require.NoError(t, err)
	assert.InDelta(t, 42.1, lat, 1e-9)
	assert.InDelta(t, -71.1, long, 1e-9)
}

func TestCentroid_NoData(t *testing.T) {
	lat, long, err := Centroid(nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoData))
	assert.False(t, math.IsNaN(lat))
	assert.False(t, math.IsNaN(long))

	_, _, err = Centroid([]Record{{ID: "unlocated"}})
	assert.True(t, eris.Is(err, ErrNoData))
}

func TestSplitWeekend(t *testing.T) {
	records := []Record{
		{ID: "sat", DayOfWeek: "Saturday"},
		{ID: "mon", DayOfWeek: "Monday"},
		{ID: "sun", DayOfWeek: "Sunday"},
		{ID: "fri", DayOfWeek: "Friday"},
	}
	weekend, weekday := SplitWeekend(records)
	assert.Equal(t, []string{"sat", "sun"}, ids(weekend))
	assert.Equal(t, []string{"mon", "fri"}, ids(weekday))
}

func TestJoinBoundaries(t *testing.T) {
	counts := []AreaCount{{District: "D4", Count: 5}, {District: "A1", Count: 2}}
	joined, err := JoinBoundaries(counts, []testBoundary{"A1", "D4"})
	require.NoError(t, err)
	require.Len(t, joined, 2)
	assert.Equal(t, testBoundary("D4"), joined[0].Boundary)
	assert.Equal(t, 5, joined[0].Count)
	assert.Equal(t, testBoundary("A1"), joined[1].Boundary)
}

func TestJoinBoundaries_Mismatch(t *testing.T) {
	tests := []struct {
		name              string
		counts            []AreaCount
		boundaries        []testBoundary
		missingBoundaries []string
		missingRecords    []string
	}{
		{
			name:              "district without boundary",
			counts:            []AreaCount{{District: "A1", Count: 1}, {District: "Z9", Count: 1}},
			boundaries:        []testBoundary{"A1"},
			missingBoundaries: []string{"Z9"},
		},
		{
			name:           "boundary without records",
			counts:         []AreaCount{{District: "A1", Count: 1}},
			boundaries:     []testBoundary{"A1", "E18", "C11"},
			missingRecords: []string{"C11", "E18"},
		},
		{
			name:              "both sides",
			counts:            []AreaCount{{District: "X", Count: 1}},
			boundaries:        []testBoundary{"Y"},
			missingBoundaries: []string{"X"},
			missingRecords:    []string{"Y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined, err := JoinBoundaries(tt.counts, tt.boundaries)
			require.Error(t, err)
			assert.Nil(t, joined)

			var mm *MismatchError
			require.True(t, errors.As(err, &mm))
			assert.Equal(t, tt.missingBoundaries, mm.MissingBoundaries)
			assert.Equal(t, tt.missingRecords, mm.MissingRecords)
			assert.Contains(t, err.Error(), "district mismatch")
		})
	}
}

func TestJoinBoundaries_DuplicateBoundary(t *testing.T) {
	_, err := JoinBoundaries([]AreaCount{{District: "A1", Count: 1}}, []testBoundary{"A1", "A1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate boundary")
}
