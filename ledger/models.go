package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountCurrent AccountType = "CURRENT"
	AccountSavings AccountType = "SAVINGS"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

type TransferKind string

const (
	KindInternal TransferKind = "internal"
	KindExternal TransferKind = "external"
)

type TransferStatus string

const (
	StatusPending TransferStatus = "pending"
	StatusSettled TransferStatus = "settled"
)

type Account struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"-"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	IsDefault bool            `json:"isDefault"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Transaction is a single ledger row. Direction is encoded by Type, the
// amount is always positive. Rows are never updated or deleted.
type Transaction struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"-"`
	AccountID         uuid.UUID       `json:"accountId"`
	Type              TransactionType `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	Date              time.Time       `json:"date"`
	IsRecurring       bool            `json:"isRecurring"`
	RecurringInterval *string         `json:"recurringInterval,omitempty"`
	TransferRef       *string         `json:"transactionId,omitempty"`
}

// Transfer owns the debit/credit pair produced by one transfer attempt.
// Both ledger rows reference it by Ref. External transfers start pending
// and become settled once the outbound handoff completes.
type Transfer struct {
	Ref           string
	UserID        uuid.UUID
	Kind          TransferKind
	FromAccountID uuid.UUID
	ToAccountID   *uuid.UUID
	Recipient     *string
	Amount        decimal.Decimal
	Status        TransferStatus
	CreatedAt     time.Time
	SettledAt     *time.Time
}
