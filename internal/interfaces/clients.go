// Package interfaces defines service contracts for dcacalc
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/dcacalc/internal/models"
)

// QuoteClient provides read-only access to the upstream quote source
type QuoteClient interface {
	// GetSpotPrice retrieves the current price of symbol in currency
	GetSpotPrice(ctx context.Context, symbol, currency string) (float64, error)

	// GetDailyHistory retrieves up to limit daily closes ending at to (inclusive)
	GetDailyHistory(ctx context.Context, symbol, currency string, to time.Time, limit int) ([]models.PricePoint, error)
}
