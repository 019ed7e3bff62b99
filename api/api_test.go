package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/analytics"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/api"
	"github.com/Ratondutta12345/AI-FINANCE-PLATFORM/ledger"
)

type stubLedger struct {
	transferErr error
	result      *ledger.TransferResult
	accounts    []ledger.Account
	history     []ledger.Transaction
}

func (s *stubLedger) Transfer(_ context.Context, _ uuid.UUID, _ ledger.TransferRequest) (*ledger.TransferResult, error) {
	if s.transferErr != nil {
		return nil, s.transferErr
	}
	return s.result, nil
}

func (s *stubLedger) Accounts(_ context.Context, _ uuid.UUID) ([]ledger.Account, error) {
	return s.accounts, nil
}

func (s *stubLedger) History(_ context.Context, _, _ uuid.UUID, _ int) ([]ledger.Transaction, error) {
	return s.history, nil
}

type stubAnalytics struct {
	overview   *analytics.Overview
	comparison *analytics.MonthlyComparison
}

func (s *stubAnalytics) Overview(_ context.Context, _ uuid.UUID, _ *uuid.UUID, _ time.Time) (*analytics.Overview, error) {
	return s.overview, nil
}

func (s *stubAnalytics) MonthlyComparison(_ context.Context, _ uuid.UUID, _ time.Time) (*analytics.MonthlyComparison, error) {
	return s.comparison, nil
}

func newServer(l api.Ledger, a api.Analytics) *httptest.Server {
	return httptest.NewServer(api.NewRouter(l, a, zap.NewNop()))
}

func doJSON(t *testing.T, method, url, userID, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestTransferEndpoint(t *testing.T) {
	l := &stubLedger{
		result: &ledger.TransferResult{
			Success:       true,
			TransactionID: "TXN01HV0000000000000000000000",
			Kind:          ledger.KindInternal,
			Message:       "Transfer completed successfully",
			FromAccount:   ledger.AccountBalance{Name: "Everyday", NewBalance: decimal.RequireFromString("350.00")},
			ToAccount:     &ledger.AccountBalance{Name: "Savings", NewBalance: decimal.RequireFromString("250.00")},
		},
	}
	srv := newServer(l, &stubAnalytics{})
	defer srv.Close()

	resp, body := doJSON(t, "POST", srv.URL+"/api/transfers", uuid.New().String(),
		`{"fromAccountId":"a","toAccountId":"b","amount":"150.00"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["success"] != true || body["type"] != "internal" {
		t.Errorf("unexpected body: %v", body)
	}
	from, _ := body["fromAccount"].(map[string]any)
	if from["newBalance"] != "350" && from["newBalance"] != "350.00" {
		t.Errorf("fromAccount.newBalance = %v", from["newBalance"])
	}
}

func TestTransferEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"insufficient funds", ledger.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"invalid amount", ledger.ErrInvalidAmount, http.StatusBadRequest},
		{"account not found", ledger.ErrAccountNotFound, http.StatusNotFound},
		{"no destination", ledger.ErrNoDestination, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(&stubLedger{transferErr: tt.err}, &stubAnalytics{})
			defer srv.Close()

			resp, body := doJSON(t, "POST", srv.URL+"/api/transfers", uuid.New().String(), `{}`)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if body["error"] == "" {
				t.Error("error message missing")
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	srv := newServer(&stubLedger{}, &stubAnalytics{})
	defer srv.Close()

	resp, _ := doJSON(t, "GET", srv.URL+"/api/accounts", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no header: status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", srv.URL+"/api/accounts", "not-a-uuid", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad header: status = %d, want 401", resp.StatusCode)
	}
}

func TestCheckRecipientEndpoint(t *testing.T) {
	srv := newServer(&stubLedger{}, &stubAnalytics{})
	defer srv.Close()

	resp, body := doJSON(t, "POST", srv.URL+"/api/recipients/check", "", `{"recipient":"user@example.com"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["valid"] != true || body["kind"] != "email" {
		t.Errorf("unexpected body: %v", body)
	}

	_, body = doJSON(t, "POST", srv.URL+"/api/recipients/check", "", `{"recipient":"nonsense"}`)
	if body["valid"] != false {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestComparisonEndpoint(t *testing.T) {
	a := &stubAnalytics{
		comparison: &analytics.MonthlyComparison{
			CurrentMonth:     decimal.RequireFromString("1600.00"),
			PreviousMonth:    decimal.RequireFromString("500.00"),
			PercentageChange: decimal.RequireFromString("220.00"),
			IsIncrease:       true,
		},
	}
	srv := newServer(&stubLedger{}, a)
	defer srv.Close()

	resp, body := doJSON(t, "GET", srv.URL+"/api/analytics/comparison", uuid.New().String(), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["isIncrease"] != true {
		t.Errorf("unexpected body: %v", body)
	}
}
