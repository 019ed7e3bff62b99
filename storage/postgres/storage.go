package postgres

import (
	"context"
	"fmt"

	"github.com/vgarvardt/gue/v5"
	"github.com/vgarvardt/gue/v5/adapter/pgxv5"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/db"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/settlement"
)

// Storage implements the ledger, analytics, settlement and reconcile storage
// interfaces via PostgreSQL. Queue jobs live in the same database, so they
// can be enqueued inside the caller's transaction.
type Storage struct {
	db *db.DB
	q  *gue.Client
}

func New(db *db.DB, q *gue.Client) *Storage {
	return &Storage{
		db: db,
		q:  q,
	}
}

// InTransaction runs f with a Storage bound to a single database transaction.
// Row locks taken by f hold until commit or rollback.
func (s *Storage) InTransaction(ctx context.Context, f func(ctx context.Context, st ledger.Storage) error) error {
	return s.db.RunInTransaction(ctx, func(ctx context.Context, txDB *db.DB) error {
		return f(ctx, New(txDB, s.q))
	})
}

// EnqueueSettlement schedules settlement of an external transfer. When the
// Storage is transaction-scoped the job commits atomically with the transfer.
func (s *Storage) EnqueueSettlement(ctx context.Context, ref string) error {
	job, err := settlement.NewJob(ref)
	if err != nil {
		return fmt.Errorf("build settlement job: %w", err)
	}

	if tx := s.db.Tx(); tx != nil {
		if err := s.q.EnqueueTx(ctx, job, pgxv5.NewTx(tx)); err != nil {
			return fmt.Errorf("gue enqueue tx: %w", err)
		}
		return nil
	}

	if err := s.q.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("gue enqueue: %w", err)
	}

	return nil
}
