package main

import (
	"context"
	"flag"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/config"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/logger"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/postgres"
)

var categories = []string{"groceries", "rent", "salary", "entertainment", "travel", "utilities", "dining"}

// seed fills the database with one demo user, two accounts and a few months
// of random ledger history so the dashboard and analytics have data to show.
func main() {
	months := flag.Int("months", 6, "how many months of history to generate")
	perMonth := flag.Int("per-month", 20, "transactions per month")
	flag.Parse()

	ctx := context.Background()
	_ = godotenv.Load()
	log := logger.New(true)

	cfg, err := config.ParseEnv(ctx)
	if err != nil {
		log.Fatal("can't parse configuration", zap.Error(err))
	}

	pool, err := postgres.Connect(ctx, cfg.DB)
	if err != nil {
		log.Fatal("can't connect to db", zap.Error(err))
	}
	defer pool.Close()

	userID := uuid.New()
	if _, err := pool.Exec(ctx,
		`insert into users (id, email, name) values ($1, $2, $3)`,
		userID, gofakeit.Email(), gofakeit.Name(),
	); err != nil {
		log.Fatal("insert user", zap.Error(err))
	}

	accounts := []struct {
		id        uuid.UUID
		name      string
		kind      ledger.AccountType
		balance   string
		isDefault bool
	}{
		{uuid.New(), "Everyday", ledger.AccountCurrent, "2500.00", true},
		{uuid.New(), "Rainy day", ledger.AccountSavings, "10000.00", false},
	}

	for _, a := range accounts {
		if _, err := pool.Exec(ctx,
			`insert into accounts (id, user_id, name, type, balance, is_default) values ($1, $2, $3, $4, $5, $6)`,
			a.id, userID, a.name, a.kind, a.balance, a.isDefault,
		); err != nil {
			log.Fatal("insert account", zap.Error(err))
		}
	}

	now := time.Now()
	total := 0
	for m := 0; m < *months; m++ {
		for i := 0; i < *perMonth; i++ {
			date := gofakeit.DateRange(now.AddDate(0, -m-1, 0), now.AddDate(0, -m, 0))
			kind := ledger.TypeExpense
			if gofakeit.Number(0, 4) == 0 {
				kind = ledger.TypeIncome
			}
			amount := decimal.NewFromFloat(gofakeit.Price(5, 800)).Round(2)

			if _, err := pool.Exec(ctx,
				`insert into transactions (id, user_id, account_id, type, amount, category, description, date)
				 values ($1, $2, $3, $4, $5, $6, $7, $8)`,
				uuid.New(), userID, accounts[gofakeit.Number(0, 1)].id, kind, amount,
				gofakeit.RandomString(categories), gofakeit.Sentence(4), date,
			); err != nil {
				log.Fatal("insert transaction", zap.Error(err))
			}
			total++
		}
	}

	log.Info("seeded demo data",
		zap.String("user_id", userID.String()),
		zap.Int("accounts", len(accounts)),
		zap.Int("transactions", total),
	)
}
