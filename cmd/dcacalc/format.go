package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/dcacalc/internal/models"
)

// formatMoney renders amount in the currency's own format, e.g. $1,234.57.
// Unknown currency codes fall back to "1234.57 XYZ".
func formatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return decimal.NewFromFloat(amount).StringFixed(2) + " " + currency
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// formatUnits renders an asset quantity with 8 decimals.
func formatUnits(units float64, symbol string) string {
	return decimal.NewFromFloat(units).StringFixed(8) + " " + symbol
}

// formatPercent renders a ratio as a percentage with 2 decimals (0.1234 -> 12.34%).
func formatPercent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Shift(2).StringFixed(2) + "%"
}

func printSummary(w io.Writer, s models.PerformanceSummary, symbol, currency string, listPurchases bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Total invested\t%s\n", formatMoney(s.TotalInvested, currency))
	fmt.Fprintf(tw, "Units held\t%s\n", formatUnits(s.TotalUnits, symbol))
	fmt.Fprintf(tw, "Average price\t%s\n", formatMoney(s.AveragePrice, currency))
	fmt.Fprintf(tw, "Current price\t%s\n", formatMoney(s.CurrentPrice, currency))
	fmt.Fprintf(tw, "Current value\t%s\n", formatMoney(s.CurrentValue, currency))
	fmt.Fprintf(tw, "Profit/loss\t%s\n", formatMoney(s.ProfitLoss, currency))
	fmt.Fprintf(tw, "ROI\t%s\n", formatPercent(s.ROI))
	fmt.Fprintf(tw, "Annualized return\t%s\n", formatPercent(s.AnnualizedReturn))
	fmt.Fprintf(tw, "Years\t%s\n", decimal.NewFromFloat(s.Years).StringFixed(2))
	for _, b := range s.Benchmarks {
		fmt.Fprintf(tw, "%s (%s/yr)\t%s\n", b.Name, formatPercent(b.AnnualRate), formatPercent(b.TotalReturn))
	}

	if listPurchases && len(s.Investments) > 0 {
		fmt.Fprintf(tw, "\nPurchases\t%d\n", len(s.Investments))
		for _, inv := range s.Investments {
			fmt.Fprintf(tw, "  %s\t%s\n", inv.Date, formatUnits(inv.Units, symbol))
		}
	}

	return tw.Flush()
}
