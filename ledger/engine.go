package ledger

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine moves money between accounts. Every operation takes the acting
// user explicitly; there is no ambient principal.
type Engine struct {
	storage Storage
	refs    *RefSource
	logger  *zap.Logger
}

type Storage interface {
	// GetUserAccountForUpdate returns the account owned by the user, locking
	// its row for the rest of the surrounding transaction. Returns nil when
	// the account does not exist or belongs to someone else.
	GetUserAccountForUpdate(ctx context.Context, userID, accountID uuid.UUID) (*Account, error)
	ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]Account, error)
	ListAccountTransactions(ctx context.Context, userID, accountID uuid.UUID, limit int) ([]Transaction, error)
	CreateTransfer(ctx context.Context, t Transfer) error
	CreateTransactions(ctx context.Context, txs []Transaction) error
	// ApplyBalanceDelta adds delta to the account balance and returns the new balance.
	ApplyBalanceDelta(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
	// EnqueueSettlement schedules settlement of an external transfer. Inside
	// InTransaction the job commits or rolls back together with the transfer.
	EnqueueSettlement(ctx context.Context, ref string) error
	InTransaction(ctx context.Context, f func(ctx context.Context, s Storage) error) error
}

func NewEngine(s Storage, refs *RefSource, l *zap.Logger) *Engine {
	return &Engine{
		storage: s,
		refs:    refs,
		logger:  l,
	}
}

type TransferRequest struct {
	FromAccountID  string
	ToAccountID    string
	Amount         string
	Description    string
	ToPhoneOrEmail string
}

type AccountBalance struct {
	Name       string          `json:"name"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

type TransferResult struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transactionId"`
	Kind          TransferKind    `json:"type"`
	Message       string          `json:"message"`
	FromAccount   AccountBalance  `json:"fromAccount"`
	ToAccount     *AccountBalance `json:"toAccount,omitempty"`
	Recipient     string          `json:"recipient,omitempty"`
}

const transferCategory = "transfer"

// Transfer debits the source account and, for internal transfers, credits the
// destination. The two balance changes and the ledger rows commit as one
// storage transaction; a failed attempt leaves no trace.
func (e *Engine) Transfer(ctx context.Context, userID uuid.UUID, req TransferRequest) (*TransferResult, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	recipient := strings.TrimSpace(req.ToPhoneOrEmail)
	toAccountRaw := strings.TrimSpace(req.ToAccountID)

	if toAccountRaw != "" && recipient != "" {
		return nil, ErrAmbiguousDestination
	}
	if toAccountRaw == "" && recipient == "" {
		return nil, ErrNoDestination
	}

	fromID, err := uuid.Parse(strings.TrimSpace(req.FromAccountID))
	if err != nil {
		return nil, fmt.Errorf("%w: bad source account id", ErrAccountNotFound)
	}

	var toID uuid.UUID
	if toAccountRaw != "" {
		if toID, err = uuid.Parse(toAccountRaw); err != nil {
			return nil, fmt.Errorf("%w: bad destination account id", ErrAccountNotFound)
		}
	}

	var result *TransferResult
	err = e.storage.InTransaction(ctx, func(ctx context.Context, s Storage) error {
		// Rows lock in account id order so two opposite-direction transfers
		// between the same pair cannot deadlock. Validation still reports
		// source errors before destination errors.
		var to *Account
		lockDestFirst := toAccountRaw != "" && bytes.Compare(toID[:], fromID[:]) < 0
		if lockDestFirst {
			if to, err = s.GetUserAccountForUpdate(ctx, userID, toID); err != nil {
				return fmt.Errorf("get destination account: %w", err)
			}
		}

		from, err := s.GetUserAccountForUpdate(ctx, userID, fromID)
		if err != nil {
			return fmt.Errorf("get source account: %w", err)
		}
		if from == nil {
			return fmt.Errorf("source %w", ErrAccountNotFound)
		}

		amount, err := parseAmount(req.Amount)
		if err != nil {
			return err
		}

		// The source row is locked, so this check cannot race with another
		// transfer debiting the same account.
		if from.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}

		if toAccountRaw != "" {
			if !lockDestFirst {
				if to, err = s.GetUserAccountForUpdate(ctx, userID, toID); err != nil {
					return fmt.Errorf("get destination account: %w", err)
				}
			}
			if to == nil {
				return fmt.Errorf("destination %w", ErrAccountNotFound)
			}
		}

		now := time.Now()
		ref := e.refs.Next(now)

		transfer := Transfer{
			Ref:           ref,
			UserID:        userID,
			Kind:          KindInternal,
			FromAccountID: from.ID,
			Amount:        amount,
			Status:        StatusSettled,
			CreatedAt:     now,
		}
		if to != nil {
			transfer.ToAccountID = &to.ID
		} else {
			transfer.Kind = KindExternal
			transfer.Status = StatusPending
			transfer.Recipient = &recipient
		}
		if err := s.CreateTransfer(ctx, transfer); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}

		counterparty := recipient
		if to != nil {
			counterparty = to.Name
		}
		debitDesc := "Transfer to " + counterparty
		if d := strings.TrimSpace(req.Description); d != "" {
			debitDesc += ": " + d
		}

		rows := []Transaction{{
			ID:          uuid.New(),
			UserID:      userID,
			AccountID:   from.ID,
			Type:        TypeExpense,
			Amount:      amount,
			Category:    transferCategory,
			Description: debitDesc,
			Date:        now,
			TransferRef: &ref,
		}}
		if to != nil {
			rows = append(rows, Transaction{
				ID:          uuid.New(),
				UserID:      userID,
				AccountID:   to.ID,
				Type:        TypeIncome,
				Amount:      amount,
				Category:    transferCategory,
				Description: "Transfer from " + from.Name,
				Date:        now,
				TransferRef: &ref,
			})
		}
		if err := s.CreateTransactions(ctx, rows); err != nil {
			return fmt.Errorf("create ledger rows: %w", err)
		}

		newFromBalance, err := s.ApplyBalanceDelta(ctx, from.ID, amount.Neg())
		if err != nil {
			return fmt.Errorf("debit source account: %w", err)
		}

		result = &TransferResult{
			Success:       true,
			TransactionID: ref,
			Kind:          transfer.Kind,
			FromAccount:   AccountBalance{Name: from.Name, NewBalance: newFromBalance},
		}

		if to != nil {
			newToBalance, err := s.ApplyBalanceDelta(ctx, to.ID, amount)
			if err != nil {
				return fmt.Errorf("credit destination account: %w", err)
			}
			result.Message = "Transfer completed successfully"
			result.ToAccount = &AccountBalance{Name: to.Name, NewBalance: newToBalance}
		} else {
			result.Message = "Transfer initiated to " + recipient
			result.Recipient = recipient
			// the job commits with the transfer, so a pending row can never
			// exist without its settlement job
			if err := s.EnqueueSettlement(ctx, ref); err != nil {
				return fmt.Errorf("enqueue settlement: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		e.logger.Error("transfer failed",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("from_account_id", req.FromAccountID),
		)
		return nil, err
	}

	return result, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	amount = amount.Round(2)
	if !amount.GreaterThan(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}

	return amount, nil
}

// Accounts lists the user's accounts, default account first.
func (e *Engine) Accounts(ctx context.Context, userID uuid.UUID) ([]Account, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	accounts, err := e.storage.ListUserAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, nil
}

const defaultHistoryLimit = 10

// History returns the latest ledger rows of one of the user's accounts.
func (e *Engine) History(ctx context.Context, userID, accountID uuid.UUID, limit int) ([]Transaction, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	txs, err := e.storage.ListAccountTransactions(ctx, userID, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list account transactions: %w", err)
	}

	return txs, nil
}
