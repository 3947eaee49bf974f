package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Lenient(t *testing.T) {
	d, err := ParseDate("2024-7-1")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.July, 1), d)
	assert.Equal(t, "2024-07-01", d.String())

	_, err = ParseDate("07/01/2024")
	assert.Error(t, err)
}

func TestDate_AddMonths_CalendarOverflow(t *testing.T) {
	tests := []struct {
		from string
		n    int
		want string
	}{
		{"2020-01-01", 1, "2020-02-01"},
		{"2020-01-31", 1, "2020-03-02"}, // leap year: Feb has 29 days
		{"2023-01-31", 1, "2023-03-03"},
		{"2023-12-15", 1, "2024-01-15"},
		{"2024-03-31", -1, "2024-03-02"},
	}
	for _, tt := range tests {
		got := MustParseDate(tt.from).AddMonths(tt.n)
		assert.Equal(t, tt.want, got.String(), "%s + %d months", tt.from, tt.n)
	}
}

func TestDate_DaysSince(t *testing.T) {
	a := MustParseDate("2020-01-01")
	b := MustParseDate("2021-01-01")
	assert.Equal(t, 366, b.DaysSince(a))
	assert.Equal(t, -366, a.DaysSince(b))
	assert.Equal(t, 0, a.DaysSince(a))
}

func TestDateOf_UsesUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2024, 3, 1, 5, 0, 0, 0, loc) // 2024-02-29 19:00 UTC
	assert.Equal(t, "2024-02-29", DateOf(ts).String())
}

func TestDate_Unix(t *testing.T) {
	assert.Equal(t, int64(1420070400), MustParseDate("2015-01-01").Unix())
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		On Date `json:"on"`
	}
	data, err := json.Marshal(wrapper{On: MustParseDate("2020-02-29")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":"2020-02-29"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"on":"2021-3-4"}`), &w))
	assert.Equal(t, "2021-03-04", w.On.String())

	require.NoError(t, json.Unmarshal([]byte(`{"on":""}`), &w))
	assert.True(t, w.On.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"on":"nope"}`), &w))
}
