package models

import "fmt"

// StrategyMode selects the purchase strategy being evaluated
type StrategyMode string

const (
	ModeLumpSum  StrategyMode = "lump-sum" // single purchase of the full amount
	ModePeriodic StrategyMode = "periodic" // fixed amount bought every calendar month
)

// StrategyParameters describes one calculation request.
// Amount/Date apply to lump-sum; MonthlyAmount/StartDate/EndDate to periodic.
// A zero EndDate means "up to today".
type StrategyParameters struct {
	Mode          StrategyMode `json:"mode"`
	Amount        float64      `json:"amount,omitempty"`
	Date          Date         `json:"date,omitempty"`
	MonthlyAmount float64      `json:"monthly_amount,omitempty"`
	StartDate     Date         `json:"start_date,omitempty"`
	EndDate       Date         `json:"end_date,omitempty"`
}

// InputLimits bounds accepted strategy parameters
type InputLimits struct {
	EarliestDate     Date
	MaxLumpSum       float64
	MaxMonthlyAmount float64
}

// Validate checks the parameters against today and limits.
// Zero limit values disable the corresponding check.
func (p StrategyParameters) Validate(today Date, limits InputLimits) error {
	switch p.Mode {
	case ModeLumpSum:
		if err := checkAmount("amount", p.Amount, limits.MaxLumpSum); err != nil {
			return err
		}
		return checkRange("date", p.Date, p.Date, today, limits.EarliestDate)
	case ModePeriodic:
		if err := checkAmount("monthly_amount", p.MonthlyAmount, limits.MaxMonthlyAmount); err != nil {
			return err
		}
		end := p.EndDate
		if end.IsZero() {
			end = today
		}
		if end.After(today) {
			return &ValidationError{Field: "end_date", Message: fmt.Sprintf("must not be after %s", today)}
		}
		return checkRange("start_date", p.StartDate, end, today, limits.EarliestDate)
	default:
		return &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown mode %q", p.Mode)}
	}
}

func checkAmount(field string, amount, max float64) error {
	if !(amount > 0) {
		return &ValidationError{Field: field, Message: "must be greater than zero"}
	}
	if max > 0 && amount > max {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %.0f", max)}
	}
	return nil
}

func checkRange(field string, start, end, today, earliest Date) error {
	if start.IsZero() {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if start.After(end) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not be after %s", end)}
	}
	if start.After(today) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not be after %s", today)}
	}
	if !earliest.IsZero() && start.Before(earliest) {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not be before %s", earliest)}
	}
	return nil
}
