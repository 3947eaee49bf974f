package returns

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/dcacalc/internal/models"
)

// RenderComparisonChart renders a PNG line chart of the strategy value against
// both benchmarks. Returns raw PNG bytes.
func RenderComparisonChart(series models.ComparisonSeries) ([]byte, error) {
	n := series.Len()
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", n)
	}
	if len(series.Strategy) != n || len(series.BenchmarkA) != n || len(series.BenchmarkB) != n {
		return nil, fmt.Errorf("series lengths differ: dates=%d strategy=%d a=%d b=%d",
			n, len(series.Strategy), len(series.BenchmarkA), len(series.BenchmarkB))
	}

	xValues := make([]time.Time, n)
	for i, d := range series.Dates {
		xValues[i] = d.Time()
	}

	strategySeries := chart.TimeSeries{
		Name: orDefault(series.StrategyName, StrategyName),
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("f7931a"), // orange
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: series.Strategy,
	}

	benchmarkASeries := chart.TimeSeries{
		Name: orDefault(series.BenchmarkAName, DefaultBenchmarkA.Name),
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 1.5,
		},
		XValues: xValues,
		YValues: series.BenchmarkA,
	}

	benchmarkBSeries := chart.TimeSeries{
		Name: orDefault(series.BenchmarkBName, DefaultBenchmarkB.Name),
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("ca8a04"), // yellow-600
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: series.BenchmarkB,
	}

	graph := chart.Chart{
		Title:  "Investment Value",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return formatAxisValue(f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			strategySeries,
			benchmarkASeries,
			benchmarkBSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

func formatAxisValue(f float64) string {
	switch {
	case f >= 1e6 || f <= -1e6:
		return fmt.Sprintf("$%.1fM", f/1e6)
	case f >= 1e3 || f <= -1e3:
		return fmt.Sprintf("$%.0fk", f/1e3)
	default:
		return fmt.Sprintf("$%.0f", f)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
