package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/db"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/reconcile"
)

func (s *Storage) CreateTransfer(ctx context.Context, t ledger.Transfer) error {
	query := sq.
		Insert("transfers").
		Columns(
			"ref",
			"user_id",
			"kind",
			"from_account_id",
			"to_account_id",
			"recipient",
			"amount",
			"status",
			"created_at",
		).
		Values(
			t.Ref,
			t.UserID,
			t.Kind,
			t.FromAccountID,
			t.ToAccountID,
			t.Recipient,
			t.Amount,
			t.Status,
			t.CreatedAt,
		)

	if err := s.db.Insert(ctx, query, nil); err != nil {
		return fmt.Errorf("insert new transfer: %w", err)
	}

	return nil
}

func (s *Storage) GetTransfer(ctx context.Context, ref string) (*ledger.Transfer, error) {
	query := `
		select ref, user_id, kind, from_account_id, to_account_id, recipient, amount, status, created_at, settled_at
		from transfers
		where ref = $1;
	`

	transfer := &ledger.Transfer{}
	err := s.db.RawQuery(
		ctx,
		db.ScanOnce(
			&transfer.Ref,
			&transfer.UserID,
			&transfer.Kind,
			&transfer.FromAccountID,
			&transfer.ToAccountID,
			&transfer.Recipient,
			&transfer.Amount,
			&transfer.Status,
			&transfer.CreatedAt,
			&transfer.SettledAt,
		),
		query,
		ref,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db select: %w", err)
	}

	return transfer, nil
}

// MarkTransferSettled flips a pending transfer to settled. Already-settled
// rows are left alone, so a redelivered settlement job can't rewrite
// settled_at.
func (s *Storage) MarkTransferSettled(ctx context.Context, ref string, at time.Time) error {
	query := sq.
		Update("transfers").
		Set("status", ledger.StatusSettled).
		Set("settled_at", at).
		Where(sq.Eq{"ref": ref, "status": ledger.StatusPending})

	if err := s.db.Update(ctx, query, nil); err != nil {
		return fmt.Errorf("db update: %w", err)
	}

	return nil
}

// ListUnbalancedTransfers cross-checks every transfer against its ledger
// rows: one debit matching the transfer amount, plus one matching credit for
// internal transfers and none for external ones.
func (s *Storage) ListUnbalancedTransfers(ctx context.Context) ([]reconcile.Drift, error) {
	query := `
		select t.ref, t.kind, t.amount::text,
			count(x.id) filter (where x.type = 'EXPENSE') as debit_count,
			count(x.id) filter (where x.type = 'INCOME') as credit_count,
			coalesce(sum(x.amount) filter (where x.type = 'EXPENSE'), 0)::text as debit_sum,
			coalesce(sum(x.amount) filter (where x.type = 'INCOME'), 0)::text as credit_sum
		from transfers t
		left join transactions x on x.transfer_ref = t.ref
		group by t.ref, t.kind, t.amount
		having
			count(x.id) filter (where x.type = 'EXPENSE') <> 1 or
			coalesce(sum(x.amount) filter (where x.type = 'EXPENSE'), 0) <> t.amount or
			(t.kind = 'internal' and (
				count(x.id) filter (where x.type = 'INCOME') <> 1 or
				coalesce(sum(x.amount) filter (where x.type = 'INCOME'), 0) <> t.amount
			)) or
			(t.kind = 'external' and count(x.id) filter (where x.type = 'INCOME') <> 0);
	`

	var rows []*reconcile.Drift
	err := s.db.RawQuery(ctx, db.ScanAll(&rows, func(d *reconcile.Drift) db.ScanArgs {
		return db.ScanArgs{&d.Ref, &d.Kind, &d.Amount, &d.DebitCount, &d.CreditCount, &d.DebitSum, &d.CreditSum}
	}), query)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db select: %w", err)
	}

	out := make([]reconcile.Drift, 0, len(rows))
	for _, d := range rows {
		out = append(out, *d)
	}

	return out, nil
}

func (s *Storage) ListStalePendingTransfers(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
		select ref from transfers
		where status = 'pending' and created_at < $1
		order by created_at asc;
	`

	var refs []string
	err := s.db.RawQuery(ctx, func(rows pgx.Rows) error {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return err
		}
		refs = append(refs, ref)
		return nil
	}, query, cutoff)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db select: %w", err)
	}

	return refs, nil
}
