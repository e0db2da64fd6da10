package service

import (
	"context"
	"strings"
	"time"

	"github.com/sillicon-village/backoffice-bfa-go/internal/cpf"
	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/observability"
	"github.com/sillicon-village/backoffice-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var peopleTracer = otel.Tracer("service/people")

const peopleCacheKey = "people"

// PersonService manages account holders through the remote ledger. List
// reads go through a short TTL cache invalidated on every write.
type PersonService struct {
	gateway port.LedgerGateway
	cache   port.Cache[[]domain.Person]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewPersonService creates a new person service.
func NewPersonService(gateway port.LedgerGateway, cache port.Cache[[]domain.Person], metrics *observability.Metrics, logger *zap.Logger) *PersonService {
	return &PersonService{gateway: gateway, cache: cache, metrics: metrics, logger: logger}
}

func (s *PersonService) List(ctx context.Context) ([]domain.Person, error) {
	ctx, span := peopleTracer.Start(ctx, "PersonService.List")
	defer span.End()

	if people, ok := s.cache.Get(peopleCacheKey); ok {
		s.metrics.IncrCacheHit(peopleCacheKey)
		return people, nil
	}
	s.metrics.IncrCacheMiss(peopleCacheKey)

	people, err := s.gateway.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(peopleCacheKey, people)
	return people, nil
}

func (s *PersonService) Get(ctx context.Context, id int) (*domain.Person, error) {
	ctx, span := peopleTracer.Start(ctx, "PersonService.Get")
	defer span.End()
	span.SetAttributes(attribute.Int("person.id", id))

	return s.gateway.GetPerson(ctx, id)
}

func (s *PersonService) Create(ctx context.Context, p *domain.Person) (*domain.Person, error) {
	ctx, span := peopleTracer.Start(ctx, "PersonService.Create")
	defer span.End()

	if err := validatePerson(p); err != nil {
		return nil, err
	}

	created, err := s.gateway.CreatePerson(ctx, p)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(peopleCacheKey)

	s.logger.Info("person created", zap.Int("person_id", created.ID))
	return created, nil
}

func (s *PersonService) Update(ctx context.Context, id int, p *domain.Person) (*domain.Person, error) {
	ctx, span := peopleTracer.Start(ctx, "PersonService.Update")
	defer span.End()
	span.SetAttributes(attribute.Int("person.id", id))

	if err := validatePerson(p); err != nil {
		return nil, err
	}

	updated, err := s.gateway.UpdatePerson(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(peopleCacheKey)

	s.logger.Info("person updated", zap.Int("person_id", id))
	return updated, nil
}

func (s *PersonService) Delete(ctx context.Context, id int) error {
	ctx, span := peopleTracer.Start(ctx, "PersonService.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int("person.id", id))

	if err := s.gateway.DeletePerson(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(peopleCacheKey)

	s.logger.Info("person deleted", zap.Int("person_id", id))
	return nil
}

// validatePerson runs the pre-flight checks and normalizes the CPF so only
// bare digits reach the ledger.
func validatePerson(p *domain.Person) error {
	if strings.TrimSpace(p.Name) == "" {
		return &domain.ErrValidation{Field: "nome", Message: "name is required"}
	}
	if !cpf.IsValid(p.CPF) {
		return &domain.ErrValidation{Field: "cpf", Message: "invalid CPF"}
	}
	p.CPF = cpf.Normalize(p.CPF)

	birth, err := time.Parse("2006-01-02", p.BirthDate)
	if err != nil {
		return &domain.ErrValidation{Field: "dataNascimento", Message: "invalid date, expected YYYY-MM-DD"}
	}
	if birth.After(time.Now()) {
		return &domain.ErrValidation{Field: "dataNascimento", Message: "birth date cannot be in the future"}
	}
	return nil
}
