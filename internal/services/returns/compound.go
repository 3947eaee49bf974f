package returns

import (
	"math"

	"github.com/bobmcallan/dcacalc/internal/models"
)

// minYears is the floor applied to the holding period so that a same-day
// evaluation does not divide by zero when annualizing.
const minYears = 0.0001

const daysPerYear = 365.0

// yearsSince returns the elapsed years from a to b, clamped at zero.
func yearsSince(a, b models.Date) float64 {
	return math.Max(float64(b.DaysSince(a))/daysPerYear, 0)
}

// holdingYears returns the elapsed years from a to b with the minYears floor.
func holdingYears(a, b models.Date) float64 {
	return math.Max(yearsSince(a, b), minYears)
}

// compound grows principal at a fixed annual rate for years.
func compound(principal, rate, years float64) float64 {
	return principal * math.Pow(1+rate, years)
}

// annualized returns the constant yearly rate that turns start into end over years.
func annualized(start, end, years float64) float64 {
	if years <= 0 || start <= 0 {
		return 0
	}
	return math.Pow(end/start, 1/years) - 1
}

// benchmarkResults reports the total return of each benchmark over years.
func benchmarkResults(years float64, benchmarks ...models.Benchmark) []models.BenchmarkResult {
	results := make([]models.BenchmarkResult, len(benchmarks))
	for i, b := range benchmarks {
		results[i] = models.BenchmarkResult{
			Name:        b.Name,
			AnnualRate:  b.AnnualRate,
			TotalReturn: compound(1, b.AnnualRate, years) - 1,
		}
	}
	return results
}
