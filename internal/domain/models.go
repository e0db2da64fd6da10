// Package domain defines the core business entities for the back-office BFA.
// These models mirror what the remote ledger service returns and are the
// canonical data structures used throughout the BFA. Balances, limits and
// transaction values are authoritative on the ledger side only; nothing in
// this process ever computes a new balance.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// People
// ============================================================

// Person is an account holder registered in the ledger.
type Person struct {
	ID        int    `json:"idPessoa"`
	Name      string `json:"nome"`
	CPF       string `json:"cpf"`            // 11 digits, no separators
	BirthDate string `json:"dataNascimento"` // YYYY-MM-DD
}

// ============================================================
// Accounts
// ============================================================

// AccountType is the ledger's integer-coded account classification.
type AccountType int

const (
	AccountChecking AccountType = 1
	AccountSavings  AccountType = 2
	AccountPayroll  AccountType = 3
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t >= AccountChecking && t <= AccountPayroll
}

// Account is a ledger account. Balance and DailyWithdrawLimit are the last
// server-reported values; they are displayed, never recalculated locally.
type Account struct {
	ID                 int             `json:"idConta"`
	Owner              Person          `json:"pessoa"`
	Balance            decimal.Decimal `json:"saldo"`
	DailyWithdrawLimit decimal.Decimal `json:"limiteSaqueDiario"`
	Active             bool            `json:"flagAtivo"`
	Type               AccountType     `json:"tipoConta"`
	CreatedAt          time.Time       `json:"dataCriacao"`
}

// ============================================================
// Transactions
// ============================================================

// TransactionType classifies a ledger log entry. The wire values are the
// ledger's own enum names.
type TransactionType string

const (
	TxDeposit          TransactionType = "DEPOSITO"
	TxWithdrawal       TransactionType = "SAQUE"
	TxTransferSent     TransactionType = "TRANSFERENCIA_ENVIADA"
	TxTransferReceived TransactionType = "TRANSFERENCIA_RECEBIDA"
)

// Credit reports whether the type adds funds to the account it belongs to.
func (t TransactionType) Credit() bool {
	return t == TxDeposit || t == TxTransferReceived
}

// Transaction is an immutable ledger log entry. Value is always positive;
// the debit/credit direction comes from the type.
type Transaction struct {
	ID        int             `json:"idTransacao"`
	Account   Account         `json:"conta"`
	Value     decimal.Decimal `json:"valor"`
	Type      TransactionType `json:"tipoTransacao"`
	Timestamp time.Time       `json:"dataTransacao"`
}

// ============================================================
// Reload snapshot
// ============================================================

// AccountSnapshot is the refreshed view state produced after a successful
// ledger mutation: the account itself, its transaction history, and the
// remaining accounts (transfer destinations for the UI).
type AccountSnapshot struct {
	Account       *Account      `json:"account"`
	Transactions  []Transaction `json:"transactions"`
	OtherAccounts []Account     `json:"other_accounts"`
}

// OperationResult is the outcome of a deposit/withdraw/transfer invocation.
// Stale means the mutation succeeded but the follow-up reload failed, so the
// caller's view no longer reflects ledger state until the next refresh.
type OperationResult struct {
	Snapshot  *AccountSnapshot `json:"snapshot,omitempty"`
	Stale     bool             `json:"stale"`
	ReloadErr error            `json:"-"`
}
