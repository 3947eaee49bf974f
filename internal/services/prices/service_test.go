package prices

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/dcacalc/internal/common"
	"github.com/bobmcallan/dcacalc/internal/models"
)

// --- Mocks ---

type historyCall struct {
	to    time.Time
	limit int
}

type mockQuoteClient struct {
	mu sync.Mutex

	spot    float64
	spotErr error

	bulk    []models.PricePoint
	bulkErr error

	point    []models.PricePoint
	pointErr error

	spotCalls    int
	historyCalls []historyCall
}

func (m *mockQuoteClient) GetSpotPrice(_ context.Context, _, _ string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spotCalls++
	return m.spot, m.spotErr
}

func (m *mockQuoteClient) GetDailyHistory(_ context.Context, _, _ string, to time.Time, limit int) ([]models.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyCalls = append(m.historyCalls, historyCall{to: to, limit: limit})
	if limit == 1 {
		return m.point, m.pointErr
	}
	return m.bulk, m.bulkErr
}

func (m *mockQuoteClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spotCalls + len(m.historyCalls)
}

var testToday = models.MustParseDate("2024-10-11")

func newTestService(client *mockQuoteClient) *Service {
	svc := NewService(client, nil, "BTC", "USD", common.NewSilentLogger())
	svc.now = func() time.Time { return testToday.Time().Add(15 * time.Hour) }
	return svc
}

func point(date string, price float64) models.PricePoint {
	return models.PricePoint{Date: models.MustParseDate(date), Price: price}
}

// --- Tests ---

func TestGetPrices_BulkFilteredAndSpotOverridesToday(t *testing.T) {
	client := &mockQuoteClient{
		spot: 62000,
		bulk: []models.PricePoint{
			point("2024-10-07", 50000), // before start
			point("2024-10-08", 61000),
			point("2024-10-09", 0), // dropped
			point("2024-10-10", 60500),
			point("2024-10-11", 59000), // stale close for today
		},
	}
	svc := newTestService(client)

	start := models.MustParseDate("2024-10-08")
	history, err := svc.GetPrices(context.Background(), start, testToday)
	require.NoError(t, err)

	assert.Equal(t, 3, history.Len())
	assert.False(t, history.Has(models.MustParseDate("2024-10-07")))
	assert.False(t, history.Has(models.MustParseDate("2024-10-09")))

	p, ok := history.Price(testToday)
	require.True(t, ok)
	assert.Equal(t, 62000.0, p)

	require.Len(t, client.historyCalls, 1, "no point fallback when start is covered")
	assert.Equal(t, BulkLookback, client.historyCalls[0].limit)
	assert.Equal(t, testToday.Time(), client.historyCalls[0].to)
}

func TestGetPrices_CacheHitSkipsNetwork(t *testing.T) {
	client := &mockQuoteClient{
		spot: 100,
		bulk: []models.PricePoint{point("2024-10-01", 90)},
	}
	svc := newTestService(client)
	start := models.MustParseDate("2024-10-01")

	first, err := svc.GetPrices(context.Background(), start, testToday)
	require.NoError(t, err)
	callsAfterFirst := client.calls()

	second, err := svc.GetPrices(context.Background(), start, testToday)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, callsAfterFirst, client.calls())
	assert.Equal(t, 1, svc.cache.Len())
}

func TestGetPrices_DistinctRangesCachedSeparately(t *testing.T) {
	client := &mockQuoteClient{
		spot: 100,
		bulk: []models.PricePoint{point("2024-10-01", 90), point("2024-10-02", 91)},
	}
	svc := newTestService(client)

	_, err := svc.GetPrices(context.Background(), models.MustParseDate("2024-10-01"), testToday)
	require.NoError(t, err)
	_, err = svc.GetPrices(context.Background(), models.MustParseDate("2024-10-02"), testToday)
	require.NoError(t, err)

	assert.Equal(t, 2, svc.cache.Len())
	assert.Equal(t, 2, client.spotCalls)
}

func TestGetPrices_PointFallbackFillsStart(t *testing.T) {
	start := models.MustParseDate("2015-01-01")
	client := &mockQuoteClient{
		spot: 62000,
		bulk: []models.PricePoint{point("2019-04-01", 4100)},
		point: []models.PricePoint{
			point("2014-12-31", 320.19),
			point("2015-01-01", 314.25),
		},
	}
	svc := newTestService(client)

	history, err := svc.GetPrices(context.Background(), start, testToday)
	require.NoError(t, err)

	p, ok := history.Price(start)
	require.True(t, ok)
	assert.Equal(t, 314.25, p)
	assert.False(t, history.Has(models.MustParseDate("2014-12-31")))

	require.Len(t, client.historyCalls, 2)
	assert.Equal(t, 1, client.historyCalls[1].limit)
	assert.Equal(t, start.Time(), client.historyCalls[1].to)
}

func TestGetPrices_MissingStartIsAcquisitionError(t *testing.T) {
	tests := []struct {
		name  string
		point []models.PricePoint
		err   error
	}{
		{"empty point response", nil, nil},
		{"zero point price", []models.PricePoint{point("2015-01-01", 0)}, nil},
		{"point for other date", []models.PricePoint{point("2014-12-31", 320)}, nil},
		{"point request failed", nil, errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockQuoteClient{
				spot:     62000,
				bulk:     []models.PricePoint{point("2019-04-01", 4100)},
				point:    tt.point,
				pointErr: tt.err,
			}
			svc := newTestService(client)

			history, err := svc.GetPrices(context.Background(), models.MustParseDate("2015-01-01"), testToday)
			assert.Nil(t, history)

			var acqErr *models.AcquisitionError
			require.True(t, errors.As(err, &acqErr))
			assert.Equal(t, 0, svc.cache.Len(), "failures are not cached")
		})
	}
}

func TestGetPrices_UpstreamFailures(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name   string
		client *mockQuoteClient
		cause  error
	}{
		{"spot failure", &mockQuoteClient{spotErr: cause}, cause},
		{"non-positive spot", &mockQuoteClient{spot: 0, bulk: []models.PricePoint{point("2024-10-01", 1)}}, nil},
		{"bulk failure", &mockQuoteClient{spot: 1, bulkErr: cause}, cause},
		{"empty bulk", &mockQuoteClient{spot: 1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.client)
			_, err := svc.GetPrices(context.Background(), models.MustParseDate("2024-10-01"), testToday)

			var acqErr *models.AcquisitionError
			require.True(t, errors.As(err, &acqErr))
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestGetPrices_SpotFailureStopsSequence(t *testing.T) {
	client := &mockQuoteClient{spotErr: errors.New("down")}
	svc := newTestService(client)

	_, err := svc.GetPrices(context.Background(), models.MustParseDate("2024-10-01"), testToday)
	require.Error(t, err)
	assert.Empty(t, client.historyCalls)
}

func TestGetPrices_ConcurrentSameRange(t *testing.T) {
	client := &mockQuoteClient{
		spot: 100,
		bulk: []models.PricePoint{point("2024-10-01", 90)},
	}
	svc := newTestService(client)
	start := models.MustParseDate("2024-10-01")

	var wg sync.WaitGroup
	results := make([]*models.PriceHistory, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := svc.GetPrices(context.Background(), start, testToday)
			assert.NoError(t, err)
			results[i] = h
		}(i)
	}
	wg.Wait()

	cached, ok := svc.cache.Get(start, testToday)
	require.True(t, ok)
	for _, h := range results {
		assert.Equal(t, cached.Points(), h.Points())
	}
	assert.Equal(t, 1, svc.cache.Len())
}

func TestRangeCache_PutIfAbsentKeepsFirst(t *testing.T) {
	cache := NewRangeCache()
	start := models.MustParseDate("2024-01-01")
	end := models.MustParseDate("2024-02-01")

	first := models.NewPriceHistory()
	first.Set(start, 1)
	second := models.NewPriceHistory()
	second.Set(start, 2)

	assert.Same(t, first, cache.PutIfAbsent(start, end, first))
	assert.Same(t, first, cache.PutIfAbsent(start, end, second))

	got, ok := cache.Get(start, end)
	require.True(t, ok)
	p, _ := got.Price(start)
	assert.Equal(t, 1.0, p)
}

func TestRangeKey(t *testing.T) {
	assert.Equal(t, "prices-2024-01-01-2024-10-11",
		rangeKey(models.MustParseDate("2024-01-01"), models.MustParseDate("2024-10-11")))
}

func TestGetPrices_CachedHistoryKeepsAcquisitionDay(t *testing.T) {
	client := &mockQuoteClient{
		spot: 62000,
		bulk: []models.PricePoint{point("2020-01-01", 7000), point("2020-02-01", 8000)},
	}
	svc := newTestService(client)

	start, end := models.MustParseDate("2020-01-01"), models.MustParseDate("2020-02-01")
	first, err := svc.GetPrices(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, testToday, first.Today())

	// next calendar day; the cached range still carries the day its spot was taken
	svc.now = func() time.Time { return testToday.Time().Add(26 * time.Hour) }
	second, err := svc.GetPrices(context.Background(), start, end)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, testToday, second.Today())
	p, ok := second.Price(second.Today())
	require.True(t, ok)
	assert.Equal(t, 62000.0, p)
	assert.Equal(t, 2, client.calls())
}
