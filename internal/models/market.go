package models

import "sort"

// PricePoint is a closing price for one calendar day. Price is always > 0
// once accepted into a PriceHistory.
type PricePoint struct {
	Date  Date    `json:"date"`
	Price float64 `json:"price"`
}

// PriceHistory maps calendar days to closing prices in the quote currency.
// The provider assembles it with Set and SetToday; callers must treat it as
// read-only.
type PriceHistory struct {
	prices map[Date]float64
	today  Date
}

// NewPriceHistory returns an empty history.
func NewPriceHistory() *PriceHistory {
	return &PriceHistory{prices: make(map[Date]float64)}
}

// Set stores price for d, replacing any existing value.
func (h *PriceHistory) Set(d Date, price float64) {
	h.prices[d] = price
}

// SetToday records d as the day the spot price was taken and stores spot under it.
func (h *PriceHistory) SetToday(d Date, spot float64) {
	h.today = d
	h.prices[d] = spot
}

// Today returns the day the spot price was recorded under, or the zero Date
// when no spot price was set.
func (h *PriceHistory) Today() Date {
	if h == nil {
		return Date{}
	}
	return h.today
}

// Price returns the price recorded for exactly d.
func (h *PriceHistory) Price(d Date) (float64, bool) {
	if h == nil {
		return 0, false
	}
	p, ok := h.prices[d]
	return p, ok
}

// Has reports whether a price exists for d.
func (h *PriceHistory) Has(d Date) bool {
	_, ok := h.Price(d)
	return ok
}

// Len returns the number of days with a price.
func (h *PriceHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.prices)
}

// Dates returns all days in ascending order.
func (h *PriceHistory) Dates() []Date {
	if h == nil {
		return nil
	}
	dates := make([]Date, 0, len(h.prices))
	for d := range h.prices {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Points returns all prices in ascending date order.
func (h *PriceHistory) Points() []PricePoint {
	dates := h.Dates()
	points := make([]PricePoint, len(dates))
	for i, d := range dates {
		points[i] = PricePoint{Date: d, Price: h.prices[d]}
	}
	return points
}
