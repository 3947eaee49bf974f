package interfaces

import (
	"context"

	"github.com/bobmcallan/dcacalc/internal/models"
)

// PriceHistoryProvider acquires and memoizes daily price histories
type PriceHistoryProvider interface {
	// GetPrices returns prices for [start, end] plus the spot price under the
	// history's Today. The result always contains start and Today, or an
	// AcquisitionError is returned.
	GetPrices(ctx context.Context, start, end models.Date) (*models.PriceHistory, error)
}

// ReturnService evaluates purchase strategies against fixed-rate benchmarks
type ReturnService interface {
	// EvaluateLumpSum evaluates a single purchase of amount on date
	EvaluateLumpSum(ctx context.Context, amount float64, date models.Date) (*models.EvaluationResult, error)

	// EvaluateDCA evaluates monthly purchases of monthlyAmount from start to end (zero end = today)
	EvaluateDCA(ctx context.Context, monthlyAmount float64, start, end models.Date) (*models.EvaluationResult, error)

	// Evaluate validates params and dispatches on the strategy mode
	Evaluate(ctx context.Context, params models.StrategyParameters) (*models.EvaluationResult, error)
}
