package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		rangeType string
		start     string
		end       string
		wantStart string
		wantEnd   string
		wantErr   error
	}{
		{"empty defaults to today", "", "", "", "2024-03-15", "2024-03-15", nil},
		{"today", "today", "", "", "2024-03-15", "2024-03-15", nil},
		{"yesterday", "yesterday", "", "", "2024-03-14", "2024-03-14", nil},
		{"this month", "this_month", "", "", "2024-03-01", "2024-03-15", nil},
		{"custom", "custom", "2024-01-10", "2024-02-20", "2024-01-10", "2024-02-20", nil},
		{"custom missing dates", "custom", "2024-01-10", "", "", "", ErrMissingDates},
		{"custom bad date", "custom", "2024-01-10", "20-02-2024", "", "", ErrInvalidDate},
		{"unknown type", "last_week", "", "", "", "", ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := Resolve(tt.rangeType, tt.start, tt.end, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, rng.Start.Format("2006-01-02"))
			assert.Equal(t, tt.wantEnd, rng.End.Format("2006-01-02"))
		})
	}
}

func TestResolveKeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2024, 3, 15, 1, 0, 0, 0, loc)

	rng, err := Resolve("today", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, loc, rng.Start.Location())
	assert.Equal(t, 0, rng.Start.Hour())
}

func TestEndOfDay(t *testing.T) {
	rng := Range{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	end := rng.EndOfDay()
	assert.Equal(t, 2, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, end.Before(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)))
}

func TestDays(t *testing.T) {
	rng := Range{
		Start: time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	days := rng.Days()
	require.Len(t, days, 4)
	assert.Equal(t, "2024-02-27", days[0].Format("2006-01-02"))
	assert.Equal(t, "2024-03-01", days[3].Format("2006-01-02"))

	single := Range{Start: rng.Start, End: rng.Start}
	assert.Len(t, single.Days(), 1)
}
