package banking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProviderAccount is a bank account as reported by the provider
type ProviderAccount struct {
	ExternalID string
	Name       string
	IBAN       string
	Balance    decimal.Decimal
	Currency   string
}

// ProviderTransaction is a transaction as reported by the provider.
// Amount is always non-negative; Direction carries the sign.
type ProviderTransaction struct {
	ExternalID   string
	Date         time.Time
	Amount       decimal.Decimal
	Direction    string // DEBIT or CREDIT
	Label        string
	Reference    string
	Counterparty string
}

// BankProvider pulls account and transaction data from a banking API.
// The pull is one-directional; nothing is ever written back to the bank.
type BankProvider interface {
	Name() string
	FetchAccounts(ctx context.Context, credentials []byte) ([]ProviderAccount, error)
	FetchTransactions(ctx context.Context, credentials []byte, externalAccountID string, since time.Time) ([]ProviderTransaction, error)
}

// CredentialSealer encrypts provider credentials at rest
type CredentialSealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}
