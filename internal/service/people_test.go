package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/cache"
	"github.com/sillicon-village/backoffice-bfa-go/internal/infra/observability"
	"github.com/sillicon-village/backoffice-bfa-go/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// peopleGateway wraps mockGateway with person-call tracking.
type peopleGateway struct {
	mockGateway
	people          []domain.Person
	listPeopleCalls int
	createCalls     int
	lastCreated     *domain.Person
}

func (m *peopleGateway) ListPeople(_ context.Context) ([]domain.Person, error) {
	m.listPeopleCalls++
	return m.people, nil
}

func (m *peopleGateway) CreatePerson(_ context.Context, p *domain.Person) (*domain.Person, error) {
	m.createCalls++
	created := *p
	created.ID = 99
	m.lastCreated = &created
	return &created, nil
}

func newPersonService(gw *peopleGateway) *service.PersonService {
	return service.NewPersonService(gw, cache.New[[]domain.Person](time.Minute), observability.NewMetrics(), zap.NewNop())
}

func validPerson() *domain.Person {
	return &domain.Person{Name: "Maria Souza", CPF: "529.982.247-25", BirthDate: "1990-05-20"}
}

func TestPersonCreate_NormalizesCPF(t *testing.T) {
	gw := &peopleGateway{}
	svc := newPersonService(gw)

	created, err := svc.Create(context.Background(), validPerson())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if created.CPF != "52998224725" {
		t.Errorf("expected CPF stripped to digits, got %q", created.CPF)
	}
	if gw.createCalls != 1 {
		t.Errorf("expected 1 create call, got %d", gw.createCalls)
	}
}

func TestPersonCreate_InvalidCPF_NoGatewayCall(t *testing.T) {
	gw := &peopleGateway{}
	svc := newPersonService(gw)

	p := validPerson()
	p.CPF = "52998224724" // corrupted check digit

	_, err := svc.Create(context.Background(), p)

	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gw.createCalls != 0 {
		t.Errorf("expected no create calls, got %d", gw.createCalls)
	}
}

func TestPersonCreate_EmptyName(t *testing.T) {
	gw := &peopleGateway{}
	svc := newPersonService(gw)

	p := validPerson()
	p.Name = "   "

	if _, err := svc.Create(context.Background(), p); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestPersonCreate_FutureBirthDate(t *testing.T) {
	gw := &peopleGateway{}
	svc := newPersonService(gw)

	p := validPerson()
	p.BirthDate = time.Now().AddDate(1, 0, 0).Format("2006-01-02")

	_, err := svc.Create(context.Background(), p)

	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gw.createCalls != 0 {
		t.Errorf("expected no create calls, got %d", gw.createCalls)
	}
}

func TestPersonList_UsesCache(t *testing.T) {
	gw := &peopleGateway{people: []domain.Person{{ID: 1, Name: "Maria Souza"}}}
	svc := newPersonService(gw)

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if gw.listPeopleCalls != 1 {
		t.Errorf("expected second list to hit cache, got %d gateway calls", gw.listPeopleCalls)
	}
}

func TestPersonCreate_InvalidatesListCache(t *testing.T) {
	gw := &peopleGateway{people: []domain.Person{{ID: 1, Name: "Maria Souza"}}}
	svc := newPersonService(gw)

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := svc.Create(context.Background(), validPerson()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if gw.listPeopleCalls != 2 {
		t.Errorf("expected cache invalidation after create, got %d gateway calls", gw.listPeopleCalls)
	}
}

func TestAccountCreate_Validations(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
	}{
		{"missing owner", domain.Account{
			DailyWithdrawLimit: decimal.NewFromInt(500),
			Type:               domain.AccountChecking,
		}},
		{"zero daily limit", domain.Account{
			Owner: domain.Person{ID: 1},
			Type:  domain.AccountChecking,
		}},
		{"negative daily limit", domain.Account{
			Owner:              domain.Person{ID: 1},
			DailyWithdrawLimit: decimal.NewFromInt(-1),
			Type:               domain.AccountChecking,
		}},
		{"unknown type", domain.Account{
			Owner:              domain.Person{ID: 1},
			DailyWithdrawLimit: decimal.NewFromInt(500),
			Type:               domain.AccountType(7),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockGateway{}
			svc := service.NewAccountService(gw, observability.NewMetrics(), zap.NewNop())

			_, err := svc.Create(context.Background(), &tt.account)

			var validation *domain.ErrValidation
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAccountCreate_Valid(t *testing.T) {
	gw := &mockGateway{}
	svc := service.NewAccountService(gw, observability.NewMetrics(), zap.NewNop())

	account := &domain.Account{
		Owner:              domain.Person{ID: 1},
		DailyWithdrawLimit: decimal.NewFromInt(500),
		Active:             true,
		Type:               domain.AccountSavings,
	}

	created, err := svc.Create(context.Background(), account)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if created == nil {
		t.Fatal("expected created account")
	}
}
