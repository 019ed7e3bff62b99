package settlement

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LogRail is the demo rail: it records the handoff and moves no real money.
// The money is modeled as having left the system once the debit committed.
type LogRail struct {
	logger *zap.Logger
}

func NewLogRail(l *zap.Logger) *LogRail {
	return &LogRail{logger: l}
}

func (r *LogRail) Send(ctx context.Context, recipient string, amount decimal.Decimal, ref string) error {
	r.logger.Info("rail: outbound transfer",
		zap.String("ref", ref),
		zap.String("recipient", recipient),
		zap.String("amount", amount.StringFixed(2)),
	)
	return nil
}
