package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/dcacalc/internal/app"
	"github.com/bobmcallan/dcacalc/internal/common"
	"github.com/bobmcallan/dcacalc/internal/models"
	"github.com/bobmcallan/dcacalc/internal/services/returns"
)

var commands = []subcommands.Command{
	&lumpSumCmd{},
	&dcaCmd{},
	&chartCmd{},
	&versionCmd{},
}

// newApp builds the app with logging quieted to errors unless configured otherwise.
func newApp() (*app.App, error) {
	if os.Getenv("DCACALC_LOG_LEVEL") == "" {
		os.Setenv("DCACALC_LOG_LEVEL", "error")
	}
	return app.NewApp(*configPath)
}

func writeResult(w io.Writer, a *app.App, result *models.EvaluationResult, asJSON, listPurchases bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printSummary(w, result.Summary, a.Config.Quote.Symbol, a.Config.Quote.Currency, listPurchases)
}

// --- version ---

type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print version information" }
func (*versionCmd) Usage() string            { return "dcacalc version\n" }
func (*versionCmd) SetFlags(_ *flag.FlagSet) {}

func (*versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Println("dcacalc " + common.GetFullVersion())
	return subcommands.ExitSuccess
}

// --- lumpsum ---

type lumpSumCmd struct {
	amount float64
	date   string
	asJSON bool
}

func (*lumpSumCmd) Name() string     { return "lumpsum" }
func (*lumpSumCmd) Synopsis() string { return "evaluate a single purchase held until today" }
func (*lumpSumCmd) Usage() string {
	return `dcacalc lumpsum -amount <amount> -date <YYYY-MM-DD> [-json]

  Buys <amount> of the configured asset at the closing price of <date> and
  values the holding at today's spot price, next to both benchmarks.
`
}

func (c *lumpSumCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 1000, "Amount invested, in the quote currency.")
	f.StringVar(&c.date, "date", "", "Purchase date (YYYY-MM-DD).")
	f.BoolVar(&c.asJSON, "json", false, "Print the full result as JSON.")
}

func (c *lumpSumCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date, err := models.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	result, err := a.ReturnService.EvaluateLumpSum(ctx, c.amount, date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := writeResult(os.Stdout, a, result, c.asJSON, false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- dca ---

type dcaCmd struct {
	amount    float64
	start     string
	end       string
	asJSON    bool
	purchases bool
}

func (*dcaCmd) Name() string     { return "dca" }
func (*dcaCmd) Synopsis() string { return "evaluate a fixed monthly purchase" }
func (*dcaCmd) Usage() string {
	return `dcacalc dca -amount <monthly amount> -start <YYYY-MM-DD> [-end <YYYY-MM-DD>] [-purchases] [-json]

  Buys <monthly amount> on the start date and on the same day of every
  following month up to the end date (default today). Months without a
  closing price on that exact day are skipped.
`
}

func (c *dcaCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "amount", 100, "Amount invested each month, in the quote currency.")
	f.StringVar(&c.start, "start", "", "Date of the first purchase (YYYY-MM-DD).")
	f.StringVar(&c.end, "end", "", "Last possible purchase date (defaults to today).")
	f.BoolVar(&c.asJSON, "json", false, "Print the full result as JSON.")
	f.BoolVar(&c.purchases, "purchases", false, "List every purchase.")
}

func (c *dcaCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start, end, err := parseRange(c.start, c.end)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	result, err := a.ReturnService.EvaluateDCA(ctx, c.amount, start, end)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := writeResult(os.Stdout, a, result, c.asJSON, c.purchases); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- chart ---

type chartCmd struct {
	mode   string
	amount float64
	date   string
	start  string
	end    string
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render the strategy and benchmark values as a PNG chart" }
func (*chartCmd) Usage() string {
	return `dcacalc chart -mode <lump-sum|periodic> -amount <amount> (-date <YYYY-MM-DD> | -start <YYYY-MM-DD> [-end <YYYY-MM-DD>]) [-o <file.png>]

  Evaluates the strategy and writes the comparison chart to <file.png>.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "mode", string(models.ModeLumpSum), "Strategy: lump-sum or periodic.")
	f.Float64Var(&c.amount, "amount", 1000, "Amount invested (per month in periodic mode).")
	f.StringVar(&c.date, "date", "", "Purchase date for lump-sum mode.")
	f.StringVar(&c.start, "start", "", "First purchase date for periodic mode.")
	f.StringVar(&c.end, "end", "", "Last possible purchase date for periodic mode (defaults to today).")
	f.StringVar(&c.output, "o", "chart.png", "Output file.")
}

func (c *chartCmd) params() (models.StrategyParameters, error) {
	switch models.StrategyMode(c.mode) {
	case models.ModeLumpSum:
		date, err := models.ParseDate(c.date)
		if err != nil {
			return models.StrategyParameters{}, err
		}
		return models.StrategyParameters{Mode: models.ModeLumpSum, Amount: c.amount, Date: date}, nil
	case models.ModePeriodic:
		start, end, err := parseRange(c.start, c.end)
		if err != nil {
			return models.StrategyParameters{}, err
		}
		return models.StrategyParameters{Mode: models.ModePeriodic, MonthlyAmount: c.amount, StartDate: start, EndDate: end}, nil
	default:
		return models.StrategyParameters{}, fmt.Errorf("unknown mode %q, want %s or %s", c.mode, models.ModeLumpSum, models.ModePeriodic)
	}
}

func (c *chartCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	params, err := c.params()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	result, err := a.ReturnService.Evaluate(ctx, params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	png, err := returns.RenderComparisonChart(result.Series)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := os.WriteFile(c.output, png, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Chart written to %s (%d points)\n", c.output, result.Series.Len())
	return subcommands.ExitSuccess
}

// parseRange parses a required start and an optional end date.
func parseRange(start, end string) (models.Date, models.Date, error) {
	s, err := models.ParseDate(start)
	if err != nil {
		return models.Date{}, models.Date{}, fmt.Errorf("error parsing start date: %w", err)
	}
	if end == "" {
		return s, models.Date{}, nil
	}
	e, err := models.ParseDate(end)
	if err != nil {
		return models.Date{}, models.Date{}, fmt.Errorf("error parsing end date: %w", err)
	}
	return s, e, nil
}
