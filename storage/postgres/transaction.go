package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/db"
)

const transactionColumns = "id, user_id, account_id, type, amount, category, description, date, is_recurring, recurring_interval, transfer_ref"

func (s *Storage) CreateTransactions(ctx context.Context, txs []ledger.Transaction) error {
	query := sq.
		Insert("transactions").
		Columns(
			"id",
			"user_id",
			"account_id",
			"type",
			"amount",
			"category",
			"description",
			"date",
			"is_recurring",
			"recurring_interval",
			"transfer_ref",
		)

	for _, tx := range txs {
		query = query.Values(
			tx.ID,
			tx.UserID,
			tx.AccountID,
			tx.Type,
			tx.Amount,
			tx.Category,
			tx.Description,
			tx.Date,
			tx.IsRecurring,
			tx.RecurringInterval,
			tx.TransferRef,
		)
	}
	if err := s.db.Insert(ctx, query, nil); err != nil {
		return fmt.Errorf("insert new transactions: %w", err)
	}

	return nil
}

func (s *Storage) ListAccountTransactions(ctx context.Context, userID, accountID uuid.UUID, limit int) ([]ledger.Transaction, error) {
	query := sq.
		Select(transactionColumns).
		From("transactions").
		Where(sq.Eq{"user_id": userID, "account_id": accountID}).
		OrderBy("date desc").
		Limit(uint64(limit))

	return s.listTransactions(ctx, query)
}

func (s *Storage) ListTransactionsBetween(
	ctx context.Context,
	userID uuid.UUID,
	accountIDs []uuid.UUID,
	from time.Time,
	to time.Time,
) ([]ledger.Transaction, error) {
	query := sq.
		Select(transactionColumns).
		From("transactions").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.Lt{"date": to}).
		OrderBy("date asc")

	if len(accountIDs) > 0 {
		query = query.Where(sq.Eq{"account_id": accountIDs})
	}

	return s.listTransactions(ctx, query)
}

func (s *Storage) listTransactions(ctx context.Context, query sq.SelectBuilder) ([]ledger.Transaction, error) {
	var rows []*ledger.Transaction
	err := s.db.Select(ctx, query, db.ScanAll(&rows, func(t *ledger.Transaction) db.ScanArgs {
		return db.ScanArgs{
			&t.ID,
			&t.UserID,
			&t.AccountID,
			&t.Type,
			&t.Amount,
			&t.Category,
			&t.Description,
			&t.Date,
			&t.IsRecurring,
			&t.RecurringInterval,
			&t.TransferRef,
		}
	}))
	if errors.Is(err, pgx.ErrNoRows) {
		return []ledger.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db select: %w", err)
	}

	out := make([]ledger.Transaction, 0, len(rows))
	for _, t := range rows {
		out = append(out, *t)
	}

	return out, nil
}
