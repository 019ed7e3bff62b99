package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/pkg/timeutil"
)

// Checker periodically audits the ledger: every transfer must own exactly one
// debit (plus one matching credit for internal transfers), and external
// transfers must not stay pending forever. It only reads and logs; fixing
// drift is an operator's job.
type Checker struct {
	cfg     Config
	storage Storage
	logger  *zap.Logger
}

type Drift struct {
	Ref         string
	Kind        string
	Amount      string
	DebitCount  int
	CreditCount int
	DebitSum    string
	CreditSum   string
}

type Storage interface {
	// ListUnbalancedTransfers returns transfers whose ledger rows don't add up.
	ListUnbalancedTransfers(ctx context.Context) ([]Drift, error)
	// ListStalePendingTransfers returns refs of external transfers still pending since before cutoff.
	ListStalePendingTransfers(ctx context.Context, cutoff time.Time) ([]string, error)
}

type Config struct {
	Workers      int           `env:"WORKERS, default=1"`            // How many check loops to spawn
	Interval     time.Duration `env:"INTERVAL, default=1m"`          // How long each loop waits between audits
	PendingGrace time.Duration `env:"PENDING_GRACE, default=5m"`     // How long an external transfer may stay pending
	StartDelay   time.Duration `env:"CHECKER_START_DELAY, default=1s"` // How much time to wait before spawning the next loop
}

func New(s Storage, l *zap.Logger, cfg Config) *Checker {
	return &Checker{
		cfg:     cfg,
		storage: s,
		logger:  l,
	}
}

func (c *Checker) Run(ctx context.Context) {
	checkers := pool.New().WithMaxGoroutines(c.cfg.Workers)
	for i := 0; i < c.cfg.Workers; i++ {
		checkers.Go(func() { c.loop(ctx) })
	}
	checkers.Wait()
}

// loop never fails; a broken iteration is logged and the next tick retries.
func (c *Checker) loop(ctx context.Context) {
	time.Sleep(c.cfg.StartDelay)
	for range timeutil.TickWithCtx(ctx, c.cfg.Interval) {
		if err := c.iteration(ctx); err != nil {
			c.logger.Error("reconcile iteration failed", zap.Error(err))
		}
	}
}

func (c *Checker) iteration(ctx context.Context) error {
	drifts, err := c.storage.ListUnbalancedTransfers(ctx)
	if err != nil {
		return fmt.Errorf("list unbalanced transfers: %w", err)
	}

	for _, d := range drifts {
		c.logger.Error("reconcile: transfer out of balance",
			zap.String("ref", d.Ref),
			zap.String("kind", d.Kind),
			zap.String("amount", d.Amount),
			zap.Int("debit_count", d.DebitCount),
			zap.Int("credit_count", d.CreditCount),
			zap.String("debit_sum", d.DebitSum),
			zap.String("credit_sum", d.CreditSum),
		)
	}

	stale, err := c.storage.ListStalePendingTransfers(ctx, time.Now().Add(-c.cfg.PendingGrace))
	if err != nil {
		return fmt.Errorf("list stale pending transfers: %w", err)
	}

	for _, ref := range stale {
		c.logger.Warn("reconcile: external transfer still pending", zap.String("ref", ref))
	}

	if len(drifts) == 0 && len(stale) == 0 {
		c.logger.Debug("reconcile: ledger is consistent")
	}

	return nil
}
