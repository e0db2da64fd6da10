// Package service provides the business logic layer (use cases).
// LedgerService orchestrates monetary operations against the remote ledger;
// PersonService and AccountService wrap the administrative CRUD surface.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/observability"
	"github.com/sillicon-village/backoffice-bfa-go/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ledgerTracer = otel.Tracer("service/ledger")

// OperationState tracks a single monetary operation through its lifecycle.
// The service is stateless between calls; states are surfaced through the
// observer so a host can disable controls while an operation is in flight.
// Callers must serialize operations per account themselves.
type OperationState int

const (
	StateIdle OperationState = iota
	StateValidating
	StateSubmitting
	StateReloading
)

func (s OperationState) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateReloading:
		return "reloading"
	default:
		return "idle"
	}
}

// StateObserver receives operation state transitions for one account.
type StateObserver func(accountID int, state OperationState)

// LedgerService turns user-initiated deposit/withdraw/transfer requests into
// validated remote mutations plus a full state reload. It never computes a
// balance locally and never retries a mutation.
type LedgerService struct {
	gateway  port.LedgerGateway
	metrics  *observability.Metrics
	logger   *zap.Logger
	observer StateObserver // may be nil
}

// NewLedgerService creates a new ledger service. observer may be nil.
func NewLedgerService(gateway port.LedgerGateway, metrics *observability.Metrics, logger *zap.Logger, observer StateObserver) *LedgerService {
	return &LedgerService{gateway: gateway, metrics: metrics, logger: logger, observer: observer}
}

func (s *LedgerService) notify(accountID int, state OperationState) {
	if s.observer != nil {
		s.observer(accountID, state)
	}
}

// Deposit credits amount to the account.
func (s *LedgerService) Deposit(ctx context.Context, accountID int, amount decimal.Decimal) (*domain.OperationResult, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.Deposit")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", accountID), attribute.String("amount", amount.String()))

	return s.run(ctx, "deposit", accountID, amount, nil, func(ctx context.Context) error {
		return s.gateway.Deposit(ctx, accountID, amount)
	})
}

// Withdraw debits amount from the account. Funds and daily-limit checks are
// the ledger's responsibility.
func (s *LedgerService) Withdraw(ctx context.Context, accountID int, amount decimal.Decimal) (*domain.OperationResult, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.Withdraw")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", accountID), attribute.String("amount", amount.String()))

	return s.run(ctx, "withdraw", accountID, amount, nil, func(ctx context.Context) error {
		return s.gateway.Withdraw(ctx, accountID, amount)
	})
}

// Transfer moves amount from the source account to the destination account.
// The destination must be selected and differ from the source; whether it
// exists is checked remotely.
func (s *LedgerService) Transfer(ctx context.Context, destinationID, sourceID int, amount decimal.Decimal) (*domain.OperationResult, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.Transfer")
	defer span.End()
	span.SetAttributes(
		attribute.Int("account.source", sourceID),
		attribute.Int("account.destination", destinationID),
		attribute.String("amount", amount.String()),
	)

	preflight := func() error {
		if destinationID <= 0 {
			return &domain.ErrValidation{Field: "destination", Message: "destination account is required"}
		}
		if destinationID == sourceID {
			return &domain.ErrValidation{Field: "destination", Message: "destination must differ from source"}
		}
		return nil
	}
	return s.run(ctx, "transfer", sourceID, amount, preflight, func(ctx context.Context) error {
		return s.gateway.Transfer(ctx, destinationID, sourceID, amount)
	})
}

// run is the shared operation sequence: validate (amount, then the optional
// operation-specific preflight), submit exactly once, then reload the account
// view. A reload failure after a successful mutation does not fail the
// operation; the result is flagged stale instead. Each invocation emits one
// Validating phase regardless of how many checks run inside it.
func (s *LedgerService) run(ctx context.Context, operation string, accountID int, amount decimal.Decimal, preflight func() error, submit func(context.Context) error) (*domain.OperationResult, error) {
	// Correlation id tying together the logs of one operation invocation.
	opID := uuid.NewString()
	logger := s.logger.With(zap.String("op_id", opID))

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration(operation, time.Since(start)) }()
	defer s.notify(accountID, StateIdle)

	s.notify(accountID, StateValidating)
	if !amount.IsPositive() {
		s.metrics.IncrOperation(operation, "validation_error")
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be greater than zero"}
	}
	if preflight != nil {
		if err := preflight(); err != nil {
			s.metrics.IncrOperation(operation, "validation_error")
			return nil, err
		}
	}

	// Note: account.Active is deliberately not checked here. The view layer
	// hides operation controls for inactive accounts and the ledger rejects
	// operations on them; duplicating the check locally would race the
	// authoritative state anyway.

	s.notify(accountID, StateSubmitting)
	if err := submit(ctx); err != nil {
		var rejection *domain.ErrRemoteRejection
		if errors.As(err, &rejection) {
			s.metrics.IncrOperation(operation, "rejected")
		} else {
			s.metrics.IncrOperation(operation, "error")
			s.metrics.IncrExternalError("ledger")
		}
		logger.Warn("ledger operation failed",
			zap.String("operation", operation),
			zap.Int("account_id", accountID),
			zap.String("amount", amount.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.notify(accountID, StateReloading)
	snapshot, reloadErr := s.LoadAccountView(ctx, accountID)
	if reloadErr != nil {
		// The mutation went through; only the refresh failed. Report success
		// with a stale view rather than inventing a rollback.
		s.metrics.IncrStaleReload()
		logger.Warn("view reload failed after successful mutation",
			zap.String("operation", operation),
			zap.Int("account_id", accountID),
			zap.Error(reloadErr),
		)
		s.metrics.IncrOperation(operation, "success_stale")
		return &domain.OperationResult{Stale: true, ReloadErr: reloadErr}, nil
	}

	s.metrics.IncrOperation(operation, "success")
	logger.Info("ledger operation completed",
		zap.String("operation", operation),
		zap.Int("account_id", accountID),
		zap.String("amount", amount.String()),
	)
	return &domain.OperationResult{Snapshot: snapshot}, nil
}

// LoadAccountView fetches a fresh snapshot of one account: the account
// itself, its transactions, and the other accounts (transfer destinations).
// The three fetches run concurrently; all must succeed.
func (s *LedgerService) LoadAccountView(ctx context.Context, accountID int) (*domain.AccountSnapshot, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.LoadAccountView")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", accountID))

	var (
		account      *domain.Account
		transactions []domain.Transaction
		others       []domain.Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		account, err = s.gateway.GetAccount(gctx, accountID)
		return err
	})
	g.Go(func() error {
		all, err := s.gateway.ListTransactions(gctx)
		if err != nil {
			return err
		}
		// The ledger exposes a single transaction log; keep this account's
		// entries only.
		for _, tx := range all {
			if tx.Account.ID == accountID {
				transactions = append(transactions, tx)
			}
		}
		return nil
	})
	g.Go(func() error {
		all, err := s.gateway.ListAccounts(gctx)
		if err != nil {
			return err
		}
		for _, a := range all {
			if a.ID != accountID {
				others = append(others, a)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.AccountSnapshot{
		Account:       account,
		Transactions:  FilterStatement(transactions, Period{}),
		OtherAccounts: others,
	}, nil
}

// GetStatement returns the account's transaction history restricted to the
// period and sorted most recent first.
func (s *LedgerService) GetStatement(ctx context.Context, accountID int, p Period) ([]domain.Transaction, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GetStatement")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", accountID))

	all, err := s.gateway.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]domain.Transaction, 0, len(all))
	for _, tx := range all {
		if tx.Account.ID == accountID {
			mine = append(mine, tx)
		}
	}
	return FilterStatement(mine, p), nil
}
