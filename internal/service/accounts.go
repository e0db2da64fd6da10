package service

import (
	"context"

	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/observability"
	"github.com/sillicon-village/backoffice-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var accountsTracer = otel.Tracer("service/accounts")

// AccountService manages ledger accounts. Balance and limit values flow
// through untouched; only structural pre-flight checks happen here.
type AccountService struct {
	gateway port.LedgerGateway
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(gateway port.LedgerGateway, metrics *observability.Metrics, logger *zap.Logger) *AccountService {
	return &AccountService{gateway: gateway, metrics: metrics, logger: logger}
}

func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	ctx, span := accountsTracer.Start(ctx, "AccountService.List")
	defer span.End()

	return s.gateway.ListAccounts(ctx)
}

func (s *AccountService) Get(ctx context.Context, id int) (*domain.Account, error) {
	ctx, span := accountsTracer.Start(ctx, "AccountService.Get")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", id))

	return s.gateway.GetAccount(ctx, id)
}

func (s *AccountService) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, span := accountsTracer.Start(ctx, "AccountService.Create")
	defer span.End()

	if err := validateAccount(a); err != nil {
		return nil, err
	}

	created, err := s.gateway.CreateAccount(ctx, a)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.Int("account_id", created.ID),
		zap.Int("owner_id", created.Owner.ID),
	)
	return created, nil
}

func (s *AccountService) Update(ctx context.Context, id int, a *domain.Account) (*domain.Account, error) {
	ctx, span := accountsTracer.Start(ctx, "AccountService.Update")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", id))

	if err := validateAccount(a); err != nil {
		return nil, err
	}

	updated, err := s.gateway.UpdateAccount(ctx, id, a)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account updated", zap.Int("account_id", id))
	return updated, nil
}

func (s *AccountService) Delete(ctx context.Context, id int) error {
	ctx, span := accountsTracer.Start(ctx, "AccountService.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int("account.id", id))

	if err := s.gateway.DeleteAccount(ctx, id); err != nil {
		return err
	}

	s.logger.Info("account deleted", zap.Int("account_id", id))
	return nil
}

func validateAccount(a *domain.Account) error {
	if a.Owner.ID <= 0 {
		return &domain.ErrValidation{Field: "pessoa", Message: "owner is required"}
	}
	if !a.DailyWithdrawLimit.IsPositive() {
		return &domain.ErrValidation{Field: "limiteSaqueDiario", Message: "daily withdraw limit must be greater than zero"}
	}
	if !a.Type.Valid() {
		return &domain.ErrValidation{Field: "tipoConta", Message: "unknown account type"}
	}
	return nil
}
