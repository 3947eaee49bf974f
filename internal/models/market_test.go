package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceHistory_AscendingOrder(t *testing.T) {
	h := NewPriceHistory()
	h.Set(MustParseDate("2020-03-01"), 9000)
	h.Set(MustParseDate("2020-01-01"), 7000)
	h.Set(MustParseDate("2020-02-01"), 8000)

	dates := h.Dates()
	assert.Equal(t, []Date{
		MustParseDate("2020-01-01"),
		MustParseDate("2020-02-01"),
		MustParseDate("2020-03-01"),
	}, dates)

	points := h.Points()
	assert.Equal(t, 7000.0, points[0].Price)
	assert.Equal(t, 9000.0, points[2].Price)
}

func TestPriceHistory_SetOverrides(t *testing.T) {
	h := NewPriceHistory()
	d := MustParseDate("2024-10-11")
	h.Set(d, 1)
	h.Set(d, 2)

	p, ok := h.Price(d)
	assert.True(t, ok)
	assert.Equal(t, 2.0, p)
	assert.Equal(t, 1, h.Len())
}

func TestPriceHistory_NilSafe(t *testing.T) {
	var h *PriceHistory
	_, ok := h.Price(MustParseDate("2024-01-01"))
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Dates())
}

func TestPriceHistory_SetTodayRecordsSpotDay(t *testing.T) {
	h := NewPriceHistory()
	assert.True(t, h.Today().IsZero())

	d := MustParseDate("2024-10-11")
	h.Set(d, 59000)
	h.SetToday(d, 62000)

	assert.Equal(t, d, h.Today())
	p, ok := h.Price(d)
	assert.True(t, ok)
	assert.Equal(t, 62000.0, p)

	var none *PriceHistory
	assert.True(t, none.Today().IsZero())
}
