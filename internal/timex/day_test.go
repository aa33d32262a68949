package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	// 22:30 UTC is already the next day at UTC+3.
	ts := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)

	start, end := DayBounds(ts, loc)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, loc), end)
	assert.Equal(t, "2024-03-11", DayKey(ts, loc))
}

func TestWindow(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 5, 20, 15, 0, 0, 0, loc)

	tests := []struct {
		name       string
		days       int
		offset     int
		start, end time.Time
	}{
		{"today only", 1, 0, time.Date(2024, 5, 20, 0, 0, 0, 0, loc), time.Date(2024, 5, 21, 0, 0, 0, 0, loc)},
		{"last week", 7, 0, time.Date(2024, 5, 14, 0, 0, 0, 0, loc), time.Date(2024, 5, 21, 0, 0, 0, 0, loc)},
		{"week before", 7, 7, time.Date(2024, 5, 7, 0, 0, 0, 0, loc), time.Date(2024, 5, 14, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(now, loc, tt.days, tt.offset)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestWindow_DSTDayKeepsMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Riga")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 2024-03-31 is 23 hours long in Riga.
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, loc)

	start, end := Window(now, loc, 2, 0)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 4, 2, 0, 0, 0, 0, loc), end)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	var v struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2s","b":1000}`), &v))
	assert.Equal(t, 2*time.Second, v.A.Duration)
	assert.Equal(t, time.Microsecond, v.B.Duration)

	require.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"a":"soon"}`), &v))
}

func TestFixedClock(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, ts, FixedClock(ts).Now())
}
