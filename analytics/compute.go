package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthsBetween counts whole calendar months from the month of `from` to the
// month of `t`. Negative when t precedes from's month.
func monthsBetween(from, t time.Time) int {
	return (t.Year()-from.Year())*12 + int(t.Month()) - int(from.Month())
}

func topCategories(breakdown map[string]decimal.Decimal, n int) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(breakdown))
	for category, amount := range breakdown {
		out = append(out, CategoryAmount{Category: category, Amount: amount})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category // stable order for equal amounts
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// healthScore is a coarse 0-100 signal: half for saving anything at all,
// a quarter for having activity, a quarter for a positive net worth.
func healthScore(savingsRate, monthlyExpenses, totalBalance decimal.Decimal) int {
	score := 0
	if savingsRate.IsPositive() {
		score += 50
	}
	if monthlyExpenses.IsPositive() {
		score += 25
	}
	if totalBalance.IsPositive() {
		score += 25
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
