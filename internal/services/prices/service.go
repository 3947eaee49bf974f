// Package prices acquires and memoizes daily price histories from the quote source
package prices

import (
	"context"
	"time"

	"github.com/bobmcallan/dcacalc/internal/common"
	"github.com/bobmcallan/dcacalc/internal/interfaces"
	"github.com/bobmcallan/dcacalc/internal/models"
)

// BulkLookback is the number of daily bars requested in the bulk history call.
const BulkLookback = 2000

// Service implements PriceHistoryProvider for a single symbol/currency pair.
type Service struct {
	client   interfaces.QuoteClient
	cache    *RangeCache
	symbol   string
	currency string
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewService creates a new price history service.
// cache may be nil, in which case a fresh in-memory cache is used.
func NewService(client interfaces.QuoteClient, cache *RangeCache, symbol, currency string, logger *common.Logger) *Service {
	if cache == nil {
		cache = NewRangeCache()
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		client:   client,
		cache:    cache,
		symbol:   symbol,
		currency: currency,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock replaces the clock used to determine today.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// GetPrices returns the closing prices for [start, end] plus today's spot price.
// The returned history always has an entry for start, and its Today is the day
// the spot price was taken. A cached history keeps the day it was acquired on.
// It must not be modified.
func (s *Service) GetPrices(ctx context.Context, start, end models.Date) (*models.PriceHistory, error) {
	if cached, ok := s.cache.Get(start, end); ok {
		s.logger.Debug().Str("start", start.String()).Str("end", end.String()).Msg("Price cache hit")
		return cached, nil
	}
	s.logger.Debug().Str("start", start.String()).Str("end", end.String()).Msg("Price cache miss")

	today := models.DateOf(s.now())

	spot, err := s.client.GetSpotPrice(ctx, s.symbol, s.currency)
	if err != nil {
		return nil, models.NewAcquisitionError("failed to fetch current price", err)
	}
	if !(spot > 0) {
		return nil, models.NewAcquisitionError("quote source returned a non-positive current price", nil)
	}

	bulk, err := s.client.GetDailyHistory(ctx, s.symbol, s.currency, end.Time(), BulkLookback)
	if err != nil {
		return nil, models.NewAcquisitionError("failed to fetch price history", err)
	}
	if len(bulk) == 0 {
		return nil, models.NewAcquisitionError("quote source returned no price history", nil)
	}

	history := models.NewPriceHistory()
	for _, p := range bulk {
		if p.Date.Before(start) || !(p.Price > 0) {
			continue
		}
		history.Set(p.Date, p.Price)
	}

	// Spot replaces any bulk close for today
	history.SetToday(today, spot)

	if !history.Has(start) {
		s.logger.Debug().Str("start", start.String()).Msg("Start date outside bulk history, fetching single day")

		points, err := s.client.GetDailyHistory(ctx, s.symbol, s.currency, start.Time(), 1)
		if err != nil {
			return nil, models.NewAcquisitionError("failed to fetch price for start date", err)
		}
		for _, p := range points {
			if p.Date == start && p.Price > 0 {
				history.Set(start, p.Price)
			}
		}
	}

	if !history.Has(start) {
		return nil, models.NewAcquisitionError("unable to get historical price for the selected date", nil)
	}

	s.logger.Info().
		Str("symbol", s.symbol).
		Str("start", start.String()).
		Str("end", end.String()).
		Int("days", history.Len()).
		Msg("Price history acquired")

	return s.cache.PutIfAbsent(start, end, history), nil
}

// Ensure Service implements PriceHistoryProvider
var _ interfaces.PriceHistoryProvider = (*Service)(nil)
