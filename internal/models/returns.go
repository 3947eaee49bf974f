package models

// Investment is one periodic purchase
type Investment struct {
	Date  Date    `json:"date"`
	Units float64 `json:"units"`
}

// Benchmark is a constant-annual-rate reference investment
type Benchmark struct {
	Name       string  `json:"name"`
	AnnualRate float64 `json:"annual_rate"`
}

// BenchmarkResult is the total return a benchmark would have produced over the holding period
type BenchmarkResult struct {
	Name        string  `json:"name"`
	AnnualRate  float64 `json:"annual_rate"`
	TotalReturn float64 `json:"total_return"` // (1+rate)^years - 1
}

// PerformanceSummary holds the derived metrics of one evaluation.
// Values are unrounded; formatting is left to the presentation layer.
type PerformanceSummary struct {
	Mode             StrategyMode      `json:"mode"`
	TotalInvested    float64           `json:"total_invested"`
	TotalUnits       float64           `json:"total_units"`
	AveragePrice     float64           `json:"average_price"` // volume-weighted: invested / units
	CurrentPrice     float64           `json:"current_price"`
	CurrentValue     float64           `json:"current_value"`
	ProfitLoss       float64           `json:"profit_loss"`
	ROI              float64           `json:"roi"`
	AnnualizedReturn float64           `json:"annualized_return"`
	Years            float64           `json:"years"`
	Investments      []Investment      `json:"investments,omitempty"` // periodic mode only
	Benchmarks       []BenchmarkResult `json:"benchmarks"`
}

// ComparisonSeries holds date-aligned strategy and benchmark values in ascending date order.
// All slices have the same length.
type ComparisonSeries struct {
	Dates      []Date    `json:"dates"`
	Strategy   []float64 `json:"strategy"`
	BenchmarkA []float64 `json:"benchmark_a"`
	BenchmarkB []float64 `json:"benchmark_b"`

	StrategyName   string `json:"strategy_name"`
	BenchmarkAName string `json:"benchmark_a_name"`
	BenchmarkBName string `json:"benchmark_b_name"`
}

// Len returns the number of aligned points.
func (s *ComparisonSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Dates)
}

// EvaluationResult pairs the summary with the chart series
type EvaluationResult struct {
	Summary PerformanceSummary `json:"summary"`
	Series  ComparisonSeries   `json:"series"`
}
