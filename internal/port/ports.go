// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
)

// LedgerGateway is the remote ledger service: the system of record for
// people, accounts and transactions. Balance arithmetic, daily limit
// bookkeeping and the active-account check all happen on the other side of
// this interface; the BFA only submits requests and re-reads state.
type LedgerGateway interface {
	// People
	ListPeople(ctx context.Context) ([]domain.Person, error)
	GetPerson(ctx context.Context, id int) (*domain.Person, error)
	CreatePerson(ctx context.Context, p *domain.Person) (*domain.Person, error)
	UpdatePerson(ctx context.Context, id int, p *domain.Person) (*domain.Person, error)
	DeletePerson(ctx context.Context, id int) error

	// Accounts
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, id int) (*domain.Account, error)
	CreateAccount(ctx context.Context, a *domain.Account) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id int, a *domain.Account) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int) error

	// Transactions
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// Monetary operations. Exactly one call per user operation; rejections
	// carry the server message verbatim.
	Deposit(ctx context.Context, accountID int, amount decimal.Decimal) error
	Withdraw(ctx context.Context, accountID int, amount decimal.Decimal) error
	Transfer(ctx context.Context, destinationID, sourceID int, amount decimal.Decimal) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
