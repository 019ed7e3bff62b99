package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
)

// Aggregator computes read-only summaries over the ledger. It fetches rows
// once per request and reduces them in memory; given the same rows and the
// same clock it always produces the same numbers.
type Aggregator struct {
	storage Storage
	logger  *zap.Logger
}

type Storage interface {
	ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]ledger.Account, error)
	// ListTransactionsBetween returns the user's ledger rows with
	// from <= date < to, restricted to accountIDs when non-empty.
	ListTransactionsBetween(ctx context.Context, userID uuid.UUID, accountIDs []uuid.UUID, from, to time.Time) ([]ledger.Transaction, error)
}

func New(s Storage, l *zap.Logger) *Aggregator {
	return &Aggregator{
		storage: s,
		logger:  l,
	}
}

type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type TrendPoint struct {
	Month    string          `json:"month"`
	Expenses decimal.Decimal `json:"expenses"`
	Income   decimal.Decimal `json:"income"`
}

type Overview struct {
	MonthlyExpenses   decimal.Decimal            `json:"monthlyExpenses"`
	MonthlyIncome     decimal.Decimal            `json:"monthlyIncome"`
	YearlyExpenses    decimal.Decimal            `json:"yearlyExpenses"`
	YearlyIncome      decimal.Decimal            `json:"yearlyIncome"`
	WeeklyExpenses    decimal.Decimal            `json:"weeklyExpenses"`
	CategoryBreakdown map[string]decimal.Decimal `json:"categoryBreakdown"`
	TopCategories     []CategoryAmount           `json:"topCategories"`
	MonthlyTrend      []TrendPoint               `json:"monthlyTrend"`
	TotalBalance      decimal.Decimal            `json:"totalBalance"`
	SavingsRate       decimal.Decimal            `json:"savingsRate"`
	HealthScore       int                        `json:"healthScore"`
	AccountCount      int                        `json:"accountCount"`
	SpendingGrowth    decimal.Decimal            `json:"spendingGrowth"`
}

const (
	trendMonths      = 12
	topCategoryCount = 5
)

// weeksPerMonth projects a monthly total down to a comparable weekly figure.
var weeksPerMonth = decimal.NewFromFloat(4.3)

// Overview aggregates the user's ledger around now. A nil accountID means
// all of the user's accounts.
func (a *Aggregator) Overview(ctx context.Context, userID uuid.UUID, accountID *uuid.UUID, now time.Time) (*Overview, error) {
	if userID == uuid.Nil {
		return nil, ledger.ErrUnauthorized
	}

	accounts, err := a.storage.ListUserAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	var scope []uuid.UUID
	if accountID != nil {
		scope = []uuid.UUID{*accountID}
	}

	monthStart := startOfMonth(now)
	trendStart := monthStart.AddDate(0, -(trendMonths - 1), 0)

	// One window covers the trend, the calendar year to date, the current
	// month and the rolling week; everything below buckets in memory.
	rows, err := a.storage.ListTransactionsBetween(ctx, userID, scope, trendStart, now.Add(time.Second))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)

	out := &Overview{
		MonthlyExpenses:   decimal.Zero,
		MonthlyIncome:     decimal.Zero,
		YearlyExpenses:    decimal.Zero,
		YearlyIncome:      decimal.Zero,
		WeeklyExpenses:    decimal.Zero,
		CategoryBreakdown: map[string]decimal.Decimal{},
		TotalBalance:      decimal.Zero,
		SavingsRate:       decimal.Zero,
		SpendingGrowth:    decimal.Zero,
		AccountCount:      len(accounts),
	}

	trend := make([]TrendPoint, trendMonths)
	for i := range trend {
		m := monthStart.AddDate(0, i-(trendMonths-1), 0)
		trend[i] = TrendPoint{Month: m.Format("Jan 06"), Expenses: decimal.Zero, Income: decimal.Zero}
	}

	for _, tx := range rows {
		amount := tx.Amount.Round(2)
		expense := tx.Type == ledger.TypeExpense

		if bucket := monthsBetween(trendStart, tx.Date); bucket >= 0 && bucket < trendMonths {
			if expense {
				trend[bucket].Expenses = trend[bucket].Expenses.Add(amount)
			} else {
				trend[bucket].Income = trend[bucket].Income.Add(amount)
			}
		}

		if !tx.Date.Before(yearStart) {
			if expense {
				out.YearlyExpenses = out.YearlyExpenses.Add(amount)
			} else {
				out.YearlyIncome = out.YearlyIncome.Add(amount)
			}
		}

		if !tx.Date.Before(monthStart) {
			if expense {
				out.MonthlyExpenses = out.MonthlyExpenses.Add(amount)
				out.CategoryBreakdown[tx.Category] = out.CategoryBreakdown[tx.Category].Add(amount)
			} else {
				out.MonthlyIncome = out.MonthlyIncome.Add(amount)
			}
		}

		if expense && !tx.Date.Before(weekStart) {
			out.WeeklyExpenses = out.WeeklyExpenses.Add(amount)
		}
	}
	out.MonthlyTrend = trend
	out.TopCategories = topCategories(out.CategoryBreakdown, topCategoryCount)

	for _, acc := range accounts {
		out.TotalBalance = out.TotalBalance.Add(acc.Balance)
	}

	if out.MonthlyIncome.IsPositive() {
		out.SavingsRate = out.MonthlyIncome.Sub(out.MonthlyExpenses).
			Div(out.MonthlyIncome).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	out.HealthScore = healthScore(out.SavingsRate, out.MonthlyExpenses, out.TotalBalance)

	if out.WeeklyExpenses.IsPositive() {
		projectedWeekly := out.MonthlyExpenses.Div(weeksPerMonth)
		out.SpendingGrowth = projectedWeekly.Sub(out.WeeklyExpenses).
			Div(out.WeeklyExpenses).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return out, nil
}

type MonthlyComparison struct {
	CurrentMonth     decimal.Decimal `json:"currentMonth"`
	PreviousMonth    decimal.Decimal `json:"previousMonth"`
	PercentageChange decimal.Decimal `json:"percentageChange"`
	IsIncrease       bool            `json:"isIncrease"`
}

// MonthlyComparison compares this calendar month's expenses with the previous one.
func (a *Aggregator) MonthlyComparison(ctx context.Context, userID uuid.UUID, now time.Time) (*MonthlyComparison, error) {
	if userID == uuid.Nil {
		return nil, ledger.ErrUnauthorized
	}

	monthStart := startOfMonth(now)
	prevStart := monthStart.AddDate(0, -1, 0)

	rows, err := a.storage.ListTransactionsBetween(ctx, userID, nil, prevStart, now.Add(time.Second))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := &MonthlyComparison{
		CurrentMonth:     decimal.Zero,
		PreviousMonth:    decimal.Zero,
		PercentageChange: decimal.Zero,
	}

	for _, tx := range rows {
		if tx.Type != ledger.TypeExpense {
			continue
		}
		if tx.Date.Before(monthStart) {
			out.PreviousMonth = out.PreviousMonth.Add(tx.Amount.Round(2))
		} else {
			out.CurrentMonth = out.CurrentMonth.Add(tx.Amount.Round(2))
		}
	}

	if out.PreviousMonth.IsPositive() {
		out.PercentageChange = out.CurrentMonth.Sub(out.PreviousMonth).
			Div(out.PreviousMonth).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	out.IsIncrease = out.CurrentMonth.GreaterThan(out.PreviousMonth)

	return out, nil
}
