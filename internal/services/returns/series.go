package returns

import (
	"github.com/bobmcallan/dcacalc/internal/models"
)

func (s *Service) newSeries(n int) models.ComparisonSeries {
	return models.ComparisonSeries{
		Dates:          make([]models.Date, 0, n),
		Strategy:       make([]float64, 0, n),
		BenchmarkA:     make([]float64, 0, n),
		BenchmarkB:     make([]float64, 0, n),
		StrategyName:   StrategyName,
		BenchmarkAName: s.benchmarkA.Name,
		BenchmarkBName: s.benchmarkB.Name,
	}
}

// lumpSumSeries values the holding on every priced day next to the amount
// compounded at each benchmark rate from the purchase date.
func (s *Service) lumpSumSeries(history *models.PriceHistory, amount, units float64, purchased models.Date) models.ComparisonSeries {
	points := history.Points()
	series := s.newSeries(len(points))

	for _, p := range points {
		years := yearsSince(purchased, p.Date)
		series.Dates = append(series.Dates, p.Date)
		series.Strategy = append(series.Strategy, units*p.Price)
		series.BenchmarkA = append(series.BenchmarkA, compound(amount, s.benchmarkA.AnnualRate, years))
		series.BenchmarkB = append(series.BenchmarkB, compound(amount, s.benchmarkB.AnnualRate, years))
	}
	return series
}

// periodicSeries values the units bought so far on every priced day. Each
// benchmark compounds every contribution from its own purchase date; future
// contributions count as zero.
func (s *Service) periodicSeries(history *models.PriceHistory, monthlyAmount float64, investments []models.Investment) models.ComparisonSeries {
	points := history.Points()
	series := s.newSeries(len(points))

	// investments are in ascending date order, so the held set only grows
	held := 0
	var units float64
	for _, p := range points {
		for held < len(investments) && !investments[held].Date.After(p.Date) {
			units += investments[held].Units
			held++
		}

		var a, b float64
		for _, inv := range investments[:held] {
			years := yearsSince(inv.Date, p.Date)
			a += compound(monthlyAmount, s.benchmarkA.AnnualRate, years)
			b += compound(monthlyAmount, s.benchmarkB.AnnualRate, years)
		}

		series.Dates = append(series.Dates, p.Date)
		series.Strategy = append(series.Strategy, units*p.Price)
		series.BenchmarkA = append(series.BenchmarkA, a)
		series.BenchmarkB = append(series.BenchmarkB, b)
	}
	return series
}
