package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
)

type transferPayload struct {
	FromAccountID  string `json:"fromAccountId"`
	ToAccountID    string `json:"toAccountId"`
	Amount         string `json:"amount"`
	Description    string `json:"description"`
	ToPhoneOrEmail string `json:"toPhoneOrEmail"`
}

func TransferHandler(l Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload transferPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := l.Transfer(r.Context(), userFrom(r.Context()), ledger.TransferRequest{
			FromAccountID:  payload.FromAccountID,
			ToAccountID:    payload.ToAccountID,
			Amount:         payload.Amount,
			Description:    payload.Description,
			ToPhoneOrEmail: payload.ToPhoneOrEmail,
		})
		if err != nil {
			writeLedgerError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func AccountsHandler(l Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := l.Accounts(r.Context(), userFrom(r.Context()))
		if err != nil {
			writeLedgerError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, accounts)
	}
}

func TransactionsHandler(l Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeJSONError(w, http.StatusNotFound, ledger.ErrAccountNotFound.Error())
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		txs, err := l.History(r.Context(), userFrom(r.Context()), accountID, limit)
		if err != nil {
			writeLedgerError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, txs)
	}
}

func AnalyticsHandler(a Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var accountID *uuid.UUID
		if raw := r.URL.Query().Get("accountId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeJSONError(w, http.StatusNotFound, ledger.ErrAccountNotFound.Error())
				return
			}
			accountID = &id
		}

		overview, err := a.Overview(r.Context(), userFrom(r.Context()), accountID, time.Now())
		if err != nil {
			writeLedgerError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, overview)
	}
}

func ComparisonHandler(a Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comparison, err := a.MonthlyComparison(r.Context(), userFrom(r.Context()), time.Now())
		if err != nil {
			writeLedgerError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, comparison)
	}
}

type recipientPayload struct {
	Recipient string `json:"recipient"`
}

// CheckRecipientHandler is the recipient shape check used by the transfer
// form. It never verifies that anyone actually owns the contact.
func CheckRecipientHandler(w http.ResponseWriter, r *http.Request) {
	var payload recipientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, ok := ledger.ClassifyRecipient(payload.Recipient)
	writeJSON(w, http.StatusOK, map[string]any{
		"valid": ok,
		"kind":  kind,
	})
}

func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeLedgerError maps the engine's error taxonomy onto HTTP statuses. The
// messages are surfaced verbatim; retries are the caller's business.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ledger.ErrAccountNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNoDestination),
		errors.Is(err, ledger.ErrAmbiguousDestination):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
