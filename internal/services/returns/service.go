// Package returns evaluates lump-sum and monthly purchase strategies against fixed-rate benchmarks
package returns

import (
	"context"
	"time"

	"github.com/bobmcallan/dcacalc/internal/common"
	"github.com/bobmcallan/dcacalc/internal/interfaces"
	"github.com/bobmcallan/dcacalc/internal/models"
)

// Default benchmarks used when none are configured.
var (
	DefaultBenchmarkA = models.Benchmark{Name: "Benchmark A", AnnualRate: 0.10}
	DefaultBenchmarkB = models.Benchmark{Name: "Benchmark B", AnnualRate: 0.05}
)

// StrategyName labels the strategy series in charts.
const StrategyName = "Strategy"

// Service implements ReturnService
type Service struct {
	provider   interfaces.PriceHistoryProvider
	benchmarkA models.Benchmark
	benchmarkB models.Benchmark
	limits     models.InputLimits
	logger     *common.Logger
	now        func() time.Time // injectable clock for testing
}

// NewService creates a new return service.
// Zero-valued benchmarks fall back to the defaults.
func NewService(provider interfaces.PriceHistoryProvider, benchmarkA, benchmarkB models.Benchmark, limits models.InputLimits, logger *common.Logger) *Service {
	if benchmarkA == (models.Benchmark{}) {
		benchmarkA = DefaultBenchmarkA
	}
	if benchmarkB == (models.Benchmark{}) {
		benchmarkB = DefaultBenchmarkB
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		provider:   provider,
		benchmarkA: benchmarkA,
		benchmarkB: benchmarkB,
		limits:     limits,
		logger:     logger,
		now:        time.Now,
	}
}

// SetClock replaces the clock used to determine today.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Benchmarks returns the configured benchmarks in A, B order.
func (s *Service) Benchmarks() (models.Benchmark, models.Benchmark) {
	return s.benchmarkA, s.benchmarkB
}

func (s *Service) today() models.Date {
	return models.DateOf(s.now())
}

// valuationDate is the day the history's spot price was taken. The engine's
// own today is used only when the provider recorded none.
func valuationDate(history *models.PriceHistory, today models.Date) models.Date {
	if anchor := history.Today(); !anchor.IsZero() {
		return anchor
	}
	return today
}

// EvaluateLumpSum evaluates a single purchase of amount on date, valued today.
func (s *Service) EvaluateLumpSum(ctx context.Context, amount float64, date models.Date) (*models.EvaluationResult, error) {
	return s.Evaluate(ctx, models.StrategyParameters{
		Mode:   models.ModeLumpSum,
		Amount: amount,
		Date:   date,
	})
}

// EvaluateDCA evaluates a purchase of monthlyAmount every calendar month from start to end.
// A zero end means today.
func (s *Service) EvaluateDCA(ctx context.Context, monthlyAmount float64, start, end models.Date) (*models.EvaluationResult, error) {
	return s.Evaluate(ctx, models.StrategyParameters{
		Mode:          models.ModePeriodic,
		MonthlyAmount: monthlyAmount,
		StartDate:     start,
		EndDate:       end,
	})
}

// Evaluate validates params and dispatches on the strategy mode.
func (s *Service) Evaluate(ctx context.Context, params models.StrategyParameters) (*models.EvaluationResult, error) {
	today := s.today()
	if err := params.Validate(today, s.limits); err != nil {
		return nil, err
	}

	switch params.Mode {
	case models.ModeLumpSum:
		return s.lumpSum(ctx, params.Amount, params.Date, today)
	default:
		end := params.EndDate
		if end.IsZero() {
			end = today
		}
		return s.periodic(ctx, params.MonthlyAmount, params.StartDate, end, today)
	}
}

func (s *Service) lumpSum(ctx context.Context, amount float64, date, today models.Date) (*models.EvaluationResult, error) {
	history, err := s.provider.GetPrices(ctx, date, today)
	if err != nil {
		return nil, err
	}

	purchasePrice, ok := history.Price(date)
	if !ok || !(purchasePrice > 0) {
		return nil, models.NewComputationError("no price available for purchase date %s", date)
	}
	today = valuationDate(history, today)
	currentPrice, ok := history.Price(today)
	if !ok || !(currentPrice > 0) {
		return nil, models.NewComputationError("no current price available for %s", today)
	}

	units := amount / purchasePrice
	value := units * currentPrice
	profit := value - amount
	years := holdingYears(date, today)

	summary := models.PerformanceSummary{
		Mode:             models.ModeLumpSum,
		TotalInvested:    amount,
		TotalUnits:       units,
		AveragePrice:     purchasePrice,
		CurrentPrice:     currentPrice,
		CurrentValue:     value,
		ProfitLoss:       profit,
		ROI:              profit / amount,
		AnnualizedReturn: annualized(amount, value, years),
		Years:            years,
		Benchmarks:       benchmarkResults(years, s.benchmarkA, s.benchmarkB),
	}

	s.logger.Debug().
		Str("date", date.String()).
		Float64("amount", amount).
		Float64("units", units).
		Float64("value", value).
		Msg("Lump-sum evaluated")

	return &models.EvaluationResult{
		Summary: summary,
		Series:  s.lumpSumSeries(history, amount, units, date),
	}, nil
}

func (s *Service) periodic(ctx context.Context, monthlyAmount float64, start, end, today models.Date) (*models.EvaluationResult, error) {
	history, err := s.provider.GetPrices(ctx, start, end)
	if err != nil {
		return nil, err
	}

	investments := schedule(history, monthlyAmount, start, end)
	if len(investments) == 0 {
		return nil, models.NewComputationError("no valid price data available for the selected period")
	}

	today = valuationDate(history, today)
	currentPrice, ok := history.Price(today)
	if !ok || !(currentPrice > 0) {
		return nil, models.NewComputationError("no current price available for %s", today)
	}

	var units float64
	for _, inv := range investments {
		units += inv.Units
	}
	invested := monthlyAmount * float64(len(investments))
	value := units * currentPrice
	profit := value - invested
	years := holdingYears(start, end)

	summary := models.PerformanceSummary{
		Mode:             models.ModePeriodic,
		TotalInvested:    invested,
		TotalUnits:       units,
		AveragePrice:     invested / units,
		CurrentPrice:     currentPrice,
		CurrentValue:     value,
		ProfitLoss:       profit,
		ROI:              profit / invested,
		AnnualizedReturn: annualized(invested, value, years),
		Years:            years,
		Investments:      investments,
		Benchmarks:       benchmarkResults(years, s.benchmarkA, s.benchmarkB),
	}

	s.logger.Debug().
		Str("start", start.String()).
		Str("end", end.String()).
		Int("purchases", len(investments)).
		Float64("invested", invested).
		Float64("value", value).
		Msg("Periodic strategy evaluated")

	return &models.EvaluationResult{
		Summary: summary,
		Series:  s.periodicSeries(history, monthlyAmount, investments),
	}, nil
}

// schedule records one purchase per calendar month from start through end.
// Months whose exact date has no positive price are skipped.
func schedule(history *models.PriceHistory, monthlyAmount float64, start, end models.Date) []models.Investment {
	var investments []models.Investment
	for d := start; !d.After(end); d = d.AddMonths(1) {
		price, ok := history.Price(d)
		if !ok || !(price > 0) {
			continue
		}
		investments = append(investments, models.Investment{Date: d, Units: monthlyAmount / price})
	}
	return investments
}

// Ensure Service implements ReturnService
var _ interfaces.ReturnService = (*Service)(nil)
