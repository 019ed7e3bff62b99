package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vgarvardt/gue/v5"
	adapter "github.com/vgarvardt/gue/v5/adapter/zap"
	"go.uber.org/zap"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
)

// Worker drains pending external transfers: each committed external transfer
// enqueues a job, the worker pushes the funds out through the Rail and marks
// the transfer settled. Jobs are retried by the queue on failure.
type Worker struct {
	cfg     Config
	storage Storage
	rail    Rail
	q       *gue.Client
	logger  *zap.Logger
}

type Storage interface {
	GetTransfer(ctx context.Context, ref string) (*ledger.Transfer, error)
	// MarkTransferSettled flips a pending transfer to settled and is a no-op
	// for any other status.
	MarkTransferSettled(ctx context.Context, ref string, at time.Time) error
}

// Rail is the outbound payment hop. The stock implementation only records
// the handoff; a real payment integration implements this interface.
//
// Delivery is at least once: a crash between Send and the settled mark
// redelivers the job, so ref is the idempotency key and a rail must dedupe
// repeated sends carrying the same ref.
type Rail interface {
	Send(ctx context.Context, recipient string, amount decimal.Decimal, ref string) error
}

type Config struct {
	WorkerPoolSize int `env:"WORKER_POOL_SIZE, default=2"` // How many settlement workers to spawn
}

func New(s Storage, rail Rail, q *gue.Client, l *zap.Logger, cfg Config) *Worker {
	return &Worker{
		cfg:     cfg,
		storage: s,
		rail:    rail,
		q:       q,
		logger:  l,
	}
}

const queueType = "settle_transfer"

type jobArgs struct {
	Ref string `json:"ref"`
}

// NewJob builds the queue job that settles the external transfer ref. The
// storage layer enqueues it inside the transfer's transaction.
func NewJob(ref string) (*gue.Job, error) {
	bb, err := json.Marshal(&jobArgs{Ref: ref})
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}

	return &gue.Job{Type: queueType, Args: bb}, nil
}

// Run panics if it can't initialize the worker queue
func (w *Worker) Run(ctx context.Context) {
	workers, err := gue.NewWorkerPool(
		w.q,
		gue.WorkMap{queueType: w.settle},
		w.cfg.WorkerPoolSize,
		gue.WithPoolLogger(adapter.New(w.logger)),
	)
	if err != nil {
		w.logger.Fatal("gue new worker pool", zap.Error(err))
	}

	w.logger.Info("settlement worker has started")

	if err := workers.Run(ctx); err != nil {
		w.logger.Fatal("settlement workers run", zap.Error(err))
	}
}

func (w *Worker) settle(ctx context.Context, job *gue.Job) error {
	var args jobArgs
	if jsonErr := json.Unmarshal(job.Args, &args); jsonErr != nil {
		return fmt.Errorf("json unmarshal: %w", jsonErr)
	}

	transfer, err := w.storage.GetTransfer(ctx, args.Ref)
	if err != nil {
		return fmt.Errorf("get transfer: %w", err)
	}
	if transfer == nil {
		// nothing to retry against, drop the job
		w.logger.Warn("settle: transfer not found", zap.String("ref", args.Ref))
		return nil
	}

	if transfer.Kind != ledger.KindExternal || transfer.Status == ledger.StatusSettled {
		w.logger.Debug("settle: nothing to do", zap.String("ref", transfer.Ref), zap.String("status", string(transfer.Status)))
		return nil
	}

	recipient := ""
	if transfer.Recipient != nil {
		recipient = *transfer.Recipient
	}

	kind, ok := ledger.ClassifyRecipient(recipient)
	if !ok {
		// free-form contacts are accepted at transfer time, so this is
		// logged rather than failed
		w.logger.Warn("settle: recipient matches neither email nor phone shape", zap.String("ref", transfer.Ref))
	}

	if err := w.rail.Send(ctx, recipient, transfer.Amount, transfer.Ref); err != nil {
		return fmt.Errorf("rail send: %w", err)
	}

	if err := w.storage.MarkTransferSettled(ctx, transfer.Ref, time.Now()); err != nil {
		return fmt.Errorf("mark transfer settled: %w", err)
	}

	w.logger.Info("settle: external transfer handed off",
		zap.String("ref", transfer.Ref),
		zap.String("recipient_kind", string(kind)),
		zap.String("amount", transfer.Amount.StringFixed(2)),
	)

	return nil
}
