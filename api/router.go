package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/analytics"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
)

// Ledger is the slice of the transfer engine the HTTP layer needs.
type Ledger interface {
	Transfer(ctx context.Context, userID uuid.UUID, req ledger.TransferRequest) (*ledger.TransferResult, error)
	Accounts(ctx context.Context, userID uuid.UUID) ([]ledger.Account, error)
	History(ctx context.Context, userID, accountID uuid.UUID, limit int) ([]ledger.Transaction, error)
}

type Analytics interface {
	Overview(ctx context.Context, userID uuid.UUID, accountID *uuid.UUID, now time.Time) (*analytics.Overview, error)
	MonthlyComparison(ctx context.Context, userID uuid.UUID, now time.Time) (*analytics.MonthlyComparison, error)
}

func NewRouter(l Ledger, a Analytics, log *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger(log))

	r.HandleFunc("/healthz", HealthHandler).Methods("GET")
	r.HandleFunc("/api/recipients/check", CheckRecipientHandler).Methods("POST")

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(RequireUser)

	authed.HandleFunc("/transfers", TransferHandler(l)).Methods("POST")
	authed.HandleFunc("/accounts", AccountsHandler(l)).Methods("GET")
	authed.HandleFunc("/accounts/{id}/transactions", TransactionsHandler(l)).Methods("GET")
	authed.HandleFunc("/analytics", AnalyticsHandler(a)).Methods("GET")
	authed.HandleFunc("/analytics/comparison", ComparisonHandler(a)).Methods("GET")

	return r
}
