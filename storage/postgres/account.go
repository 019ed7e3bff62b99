package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/db"
)

// GetUserAccountForUpdate locks the account row until the surrounding
// transaction ends. Outside a transaction the lock is released immediately,
// so callers that rely on it must go through InTransaction.
func (s *Storage) GetUserAccountForUpdate(ctx context.Context, userID, accountID uuid.UUID) (*ledger.Account, error) {
	query := `
		select id, user_id, name, type, balance, is_default, created_at, updated_at
		from accounts
		where id = $1 and user_id = $2
		for update;
	`

	account := &ledger.Account{}
	err := s.db.RawQuery(
		ctx,
		db.ScanOnce(
			&account.ID,
			&account.UserID,
			&account.Name,
			&account.Type,
			&account.Balance,
			&account.IsDefault,
			&account.CreatedAt,
			&account.UpdatedAt,
		),
		query,
		accountID,
		userID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db select: %w", err)
	}

	return account, nil
}

func (s *Storage) ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]ledger.Account, error) {
	query := sq.
		Select("id", "user_id", "name", "type", "balance", "is_default", "created_at", "updated_at").
		From("accounts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("is_default desc", "created_at asc")

	var rows []*ledger.Account
	err := s.db.Select(ctx, query, db.ScanAll(&rows, func(a *ledger.Account) db.ScanArgs {
		return db.ScanArgs{&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt}
	}))
	if errors.Is(err, pgx.ErrNoRows) {
		return []ledger.Account{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db select: %w", err)
	}

	out := make([]ledger.Account, 0, len(rows))
	for _, a := range rows {
		out = append(out, *a)
	}

	return out, nil
}

// ApplyBalanceDelta shifts the balance and returns the new value. The
// balance >= 0 check constraint rejects any debit the row lock let through.
func (s *Storage) ApplyBalanceDelta(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		update accounts
		set balance = balance + $2, updated_at = now()
		where id = $1
		returning balance;
	`

	var balance decimal.Decimal
	err := s.db.RawQuery(ctx, db.ScanOnce(&balance), query, accountID, delta)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("apply balance delta: %w", ledger.ErrAccountNotFound)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("db update: %w", err)
	}

	return balance, nil
}
