// Package client implements the LedgerGateway port over the remote ledger's
// HTTP API. Read-only fetches get retry + circuit breaker; monetary
// mutations go through the breaker but are issued exactly once.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/resilience"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("infra/client")

// LedgerClient talks to the remote ledger service. The route shapes and
// payload field names are the ledger's fixed contract and cannot change here.
type LedgerClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewLedgerClient creates a new LedgerClient. MaxConcurrency bounds the
// number of in-flight requests to the ledger.
func NewLedgerClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *LedgerClient {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &LedgerClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(maxConcurrency),
		cfg:        cfg,
		logger:     logger,
	}
}

// ============================================================
// Wire types
// ============================================================

// wireTime accepts both RFC 3339 and the zone-less ISO form the ledger's
// JVM serializer emits for LocalDateTime.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unparseable ledger timestamp %q", s)
}

type wireAccount struct {
	ID                 int             `json:"idConta"`
	Owner              domain.Person   `json:"pessoa"`
	Balance            decimal.Decimal `json:"saldo"`
	DailyWithdrawLimit decimal.Decimal `json:"limiteSaqueDiario"`
	Active             bool            `json:"flagAtivo"`
	Type               int             `json:"tipoConta"`
	CreatedAt          wireTime        `json:"dataCriacao"`
}

func (w wireAccount) toDomain() domain.Account {
	return domain.Account{
		ID:                 w.ID,
		Owner:              w.Owner,
		Balance:            w.Balance,
		DailyWithdrawLimit: w.DailyWithdrawLimit,
		Active:             w.Active,
		Type:               domain.AccountType(w.Type),
		CreatedAt:          w.CreatedAt.Time,
	}
}

type wireTransaction struct {
	ID        int             `json:"idTransacao"`
	Account   wireAccount     `json:"conta"`
	Value     decimal.Decimal `json:"valor"`
	Type      string          `json:"tipoTransacao"`
	Timestamp wireTime        `json:"dataTransacao"`
}

func (w wireTransaction) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:        w.ID,
		Account:   w.Account.toDomain(),
		Value:     w.Value,
		Type:      domain.TransactionType(w.Type),
		Timestamp: w.Timestamp.Time,
	}
}

// ============================================================
// People
// ============================================================

func (c *LedgerClient) ListPeople(ctx context.Context) ([]domain.Person, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.ListPeople")
	defer span.End()

	var people []domain.Person
	if err := c.fetch(ctx, "/pessoas/listar", "pessoas", &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (c *LedgerClient) GetPerson(ctx context.Context, id int) (*domain.Person, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.GetPerson")
	defer span.End()
	span.SetAttributes(attribute.Int("person.id", id))

	var person domain.Person
	path := fmt.Sprintf("/pessoas/buscarPorId/%d", id)
	if err := c.fetchOne(ctx, path, "pessoa", strconv.Itoa(id), &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (c *LedgerClient) CreatePerson(ctx context.Context, p *domain.Person) (*domain.Person, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.CreatePerson")
	defer span.End()

	var created domain.Person
	if err := c.mutate(ctx, http.MethodPost, "/pessoas/criar", p, "criar pessoa", &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *LedgerClient) UpdatePerson(ctx context.Context, id int, p *domain.Person) (*domain.Person, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.UpdatePerson")
	defer span.End()
	span.SetAttributes(attribute.Int("person.id", id))

	var updated domain.Person
	path := fmt.Sprintf("/pessoas/atualizar/%d", id)
	if err := c.mutate(ctx, http.MethodPut, path, p, "atualizar pessoa", &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *LedgerClient) DeletePerson(ctx context.Context, id int) error {
	ctx, span := tracer.Start(ctx, "LedgerClient.DeletePerson")
	defer span.End()
	span.SetAttributes(attribute.Int("person.id", id))

	path := fmt.Sprintf("/pessoas/deletar/%d", id)
	return c.mutate(ctx, http.MethodDelete, path, nil, "deletar pessoa", nil)
}

// ============================================================
// Accounts
// ============================================================

func (c *LedgerClient) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.ListAccounts")
	defer span.End()

	var wires []wireAccount
	if err := c.fetch(ctx, "/contas/listar", "contas", &wires); err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, len(wires))
	for i, w := range wires {
		accounts[i] = w.toDomain()
	}
	return accounts, nil
}

func (c *LedgerClient) GetAccount(ctx context.Context, id int) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.GetAccount")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", id))

	var wire wireAccount
	path := fmt.Sprintf("/contas/buscarPorId/%d", id)
	if err := c.fetchOne(ctx, path, "conta", strconv.Itoa(id), &wire); err != nil {
		return nil, err
	}
	account := wire.toDomain()
	return &account, nil
}

func (c *LedgerClient) CreateAccount(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.CreateAccount")
	defer span.End()

	var wire wireAccount
	if err := c.mutate(ctx, http.MethodPost, "/contas/criar", a, "criar conta", &wire); err != nil {
		return nil, err
	}
	account := wire.toDomain()
	return &account, nil
}

func (c *LedgerClient) UpdateAccount(ctx context.Context, id int, a *domain.Account) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.UpdateAccount")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", id))

	var wire wireAccount
	path := fmt.Sprintf("/contas/atualizar/%d", id)
	if err := c.mutate(ctx, http.MethodPut, path, a, "atualizar conta", &wire); err != nil {
		return nil, err
	}
	account := wire.toDomain()
	return &account, nil
}

func (c *LedgerClient) DeleteAccount(ctx context.Context, id int) error {
	ctx, span := tracer.Start(ctx, "LedgerClient.DeleteAccount")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", id))

	path := fmt.Sprintf("/contas/deletar/%d", id)
	return c.mutate(ctx, http.MethodDelete, path, nil, "deletar conta", nil)
}

// ============================================================
// Transactions / monetary operations
// ============================================================

func (c *LedgerClient) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerClient.ListTransactions")
	defer span.End()

	var wires []wireTransaction
	if err := c.fetch(ctx, "/transacoes/listar", "transacoes", &wires); err != nil {
		return nil, err
	}
	txs := make([]domain.Transaction, len(wires))
	for i, w := range wires {
		txs[i] = w.toDomain()
	}
	return txs, nil
}

func (c *LedgerClient) Deposit(ctx context.Context, accountID int, amount decimal.Decimal) error {
	ctx, span := tracer.Start(ctx, "LedgerClient.Deposit")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", accountID), attribute.String("amount", amount.String()))

	path := fmt.Sprintf("/transacoes/deposito/%d/%s", accountID, amount.String())
	return c.mutate(ctx, http.MethodPost, path, nil, "deposito", nil)
}

func (c *LedgerClient) Withdraw(ctx context.Context, accountID int, amount decimal.Decimal) error {
	ctx, span := tracer.Start(ctx, "LedgerClient.Withdraw")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", accountID), attribute.String("amount", amount.String()))

	path := fmt.Sprintf("/transacoes/saque/%d/%s", accountID, amount.String())
	return c.mutate(ctx, http.MethodPost, path, nil, "saque", nil)
}

func (c *LedgerClient) Transfer(ctx context.Context, destinationID, sourceID int, amount decimal.Decimal) error {
	ctx, span := tracer.Start(ctx, "LedgerClient.Transfer")
	defer span.End()
	span.SetAttributes(
		attribute.Int("account.source", sourceID),
		attribute.Int("account.destination", destinationID),
		attribute.String("amount", amount.String()),
	)

	path := fmt.Sprintf("/transacoes/transferencia/%d/%d/%s", destinationID, sourceID, amount.String())
	return c.mutate(ctx, http.MethodPost, path, nil, "transferencia", nil)
}

// ============================================================
// Transport helpers
// ============================================================

// BreakerOutcome is the IsSuccessful predicate for the ledger circuit
// breaker: a missing resource or a business rejection is a healthy ledger
// answering, not a sign of outage.
func BreakerOutcome(err error) bool {
	return err == nil || domain.IsBusinessOutcome(err)
}

// fetch performs a read-only GET with retry + circuit breaker. Business
// outcomes (404, rejection) are returned immediately; replaying them cannot
// change the answer.
func (c *LedgerClient) fetch(ctx context.Context, path, resource string, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			err := c.do(ctx, http.MethodGet, path, nil, resource, "", out)
			if domain.IsBusinessOutcome(err) {
				return resilience.Permanent(err)
			}
			return err
		})
	})
	return c.translate(err, resource)
}

// fetchOne is fetch for a single resource, keeping the id for not-found errors.
func (c *LedgerClient) fetchOne(ctx context.Context, path, resource, id string, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			err := c.do(ctx, http.MethodGet, path, nil, resource, id, out)
			if domain.IsBusinessOutcome(err) {
				return resilience.Permanent(err)
			}
			return err
		})
	})
	return c.translate(err, resource)
}

// mutate performs a state-changing call through the breaker, without retry:
// a replayed deposit or transfer would double-apply on the ledger.
func (c *LedgerClient) mutate(ctx context.Context, method, path string, body any, operation string, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.do(ctx, method, path, body, operation, "", out)
	})
	return c.translate(err, operation)
}

// do issues one HTTP request and maps the response. Ledger rejections keep
// their message text verbatim.
func (c *LedgerClient) do(ctx context.Context, method, path string, body any, resource, id string, out any) error {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer c.bulkhead.Release()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &domain.ErrNotFound{Resource: resource, ID: id}
	}
	if resp.StatusCode >= 500 {
		return &domain.ErrExternalService{
			Service: "ledger",
			Err:     fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode),
		}
	}
	if resp.StatusCode >= 400 {
		return &domain.ErrRemoteRejection{
			Operation: resource,
			Message:   rejectionMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// rejectionMessage extracts the human-readable message from an error body,
// which the ledger sends either as {"message": "..."} or as plain text.
func rejectionMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}
	return strings.TrimSpace(string(raw))
}

// translate wraps transport-level failures; domain errors pass through
// untouched so callers can match on them.
func (c *LedgerClient) translate(err error, operation string) error {
	if err == nil {
		return nil
	}

	var notFound *domain.ErrNotFound
	var rejection *domain.ErrRemoteRejection
	var external *domain.ErrExternalService
	if errors.As(err, &notFound) || errors.As(err, &rejection) || errors.As(err, &external) {
		return err
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: "ledger"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ErrTimeout{Operation: operation}
	}

	c.logger.Error("ledger call failed",
		zap.String("operation", operation),
		zap.Error(err),
	)
	return &domain.ErrExternalService{Service: "ledger", Err: err}
}
