package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
	"github.com/sillicon-village/backoffice-bfa-go/internal/handler"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/cache"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/client"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/observability"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/resilience"
	"github.com/sillicon-village/backoffice-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// newFakeLedger serves the remote ledger's route shapes with an in-memory
// balance so a deposit is observable in the follow-up reload.
func newFakeLedger(t *testing.T) (*httptest.Server, *struct{ Deposits int }) {
	t.Helper()

	state := &struct{ Deposits int }{}
	balance := decimal.NewFromInt(100)

	account := func(id int) map[string]any {
		return map[string]any{
			"idConta":           id,
			"pessoa":            map[string]any{"idPessoa": 1, "nome": "Carlos Pereira", "cpf": "52998224725", "dataNascimento": "1980-03-12"},
			"saldo":             balance,
			"limiteSaqueDiario": 500,
			"flagAtivo":         true,
			"tipoConta":         1,
			"dataCriacao":       "2024-01-01T09:00:00",
		}
	}

	r := chi.NewRouter()
	r.Get("/contas/listar", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]any{account(1), account(2)})
	})
	r.Get("/contas/buscarPorId/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(account(1))
	})
	r.Get("/transacoes/listar", func(w http.ResponseWriter, req *http.Request) {
		txs := make([]any, 0, state.Deposits)
		for i := 0; i < state.Deposits; i++ {
			txs = append(txs, map[string]any{
				"idTransacao":   i + 1,
				"conta":         account(1),
				"valor":         50,
				"tipoTransacao": "DEPOSITO",
				"dataTransacao": "2024-06-15T14:30:00",
			})
		}
		json.NewEncoder(w).Encode(txs)
	})
	r.Post("/transacoes/deposito/{id}/{valor}", func(w http.ResponseWriter, req *http.Request) {
		amount, err := decimal.NewFromString(chi.URLParam(req, "valor"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		state.Deposits++
		balance = balance.Add(amount)
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/transacoes/saque/{id}/{valor}", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Saldo insuficiente para saque"})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, state
}

func newStack(t *testing.T, ledgerURL string) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("test", client.BreakerOutcome)
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	gateway := client.NewLedgerClient(httpClient, ledgerURL, cb, cfg, logger)
	ledgerSvc := service.NewLedgerService(gateway, metrics, logger, nil)
	personSvc := service.NewPersonService(gateway, cache.New[[]domain.Person](5*time.Minute), metrics, logger)
	accountSvc := service.NewAccountService(gateway, metrics, logger)

	return handler.NewRouter(ledgerSvc, personSvc, accountSvc, metrics, logger)
}

// TestIntegration_DepositFlow runs a deposit end to end: HTTP in, ledger
// mutation out, concurrent reload, refreshed snapshot back.
func TestIntegration_DepositFlow(t *testing.T) {
	ledger, state := newFakeLedger(t)
	router := newStack(t, ledger.URL)

	body, _ := json.Marshal(map[string]string{"valor": "50"})
	req := httptest.NewRequest(http.MethodPost, "/v1/accounts/1/deposit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	if state.Deposits != 1 {
		t.Fatalf("expected exactly one deposit on the ledger, got %d", state.Deposits)
	}

	var result struct {
		Stale    bool                    `json:"stale"`
		Snapshot *domain.AccountSnapshot `json:"snapshot"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Stale {
		t.Error("expected fresh snapshot after successful reload")
	}
	if result.Snapshot == nil || result.Snapshot.Account == nil {
		t.Fatal("expected snapshot with account")
	}
	if !result.Snapshot.Account.Balance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected reloaded balance 150, got %s", result.Snapshot.Account.Balance)
	}
	if len(result.Snapshot.Transactions) != 1 {
		t.Errorf("expected the new transaction in the reloaded history, got %d", len(result.Snapshot.Transactions))
	}
	if len(result.Snapshot.OtherAccounts) != 1 || result.Snapshot.OtherAccounts[0].ID != 2 {
		t.Errorf("expected the other account as transfer destination, got %+v", result.Snapshot.OtherAccounts)
	}

	fmt.Printf("✅ Deposit flow passed: balance %s\n", result.Snapshot.Account.Balance)
}

// TestIntegration_WithdrawRejection checks the ledger's rejection message
// survives the round trip untouched.
func TestIntegration_WithdrawRejection(t *testing.T) {
	ledger, state := newFakeLedger(t)
	router := newStack(t, ledger.URL)

	body, _ := json.Marshal(map[string]string{"valor": "9000"})
	req := httptest.NewRequest(http.MethodPost, "/v1/accounts/1/withdraw", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	if state.Deposits != 0 {
		t.Errorf("expected no ledger state change, got %d deposits", state.Deposits)
	}

	var result struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Error != "Saldo insuficiente para saque" {
		t.Errorf("expected ledger message verbatim, got %q", result.Error)
	}
}

// TestIntegration_StatementFilter exercises the statement endpoint against
// the fake ledger's transaction feed.
func TestIntegration_StatementFilter(t *testing.T) {
	ledger, _ := newFakeLedger(t)
	router := newStack(t, ledger.URL)

	// Seed one transaction through the real deposit route.
	body, _ := json.Marshal(map[string]string{"valor": "50"})
	seed := httptest.NewRequest(http.MethodPost, "/v1/accounts/1/deposit", bytes.NewReader(body))
	seed.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), seed)

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/1/statement?start=2024-06-01&end=2024-06-30", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var rows []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 statement row, got %d", len(rows))
	}

	outside := httptest.NewRequest(http.MethodGet, "/v1/accounts/1/statement?start=2023-01-01&end=2023-12-31", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, outside)

	rows = nil
	if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected empty statement outside the period, got %d rows", len(rows))
	}
}

// TestIntegration_AccountNotFound checks 404 mapping through the whole stack.
func TestIntegration_AccountNotFound(t *testing.T) {
	ledger, _ := newFakeLedger(t)
	router := newStack(t, ledger.URL)

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/99", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}
