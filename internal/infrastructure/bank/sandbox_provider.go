package bank

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	appbanking "github.com/azalscore/backend/internal/application/banking"
	"github.com/shopspring/decimal"
)

// Ensure SandboxProvider implements BankProvider
var _ appbanking.BankProvider = (*SandboxProvider)(nil)

// SandboxProvider serves deterministic fake data for development and demos.
// The same credentials always produce the same accounts and transactions so
// repeated syncs exercise the upsert path.
type SandboxProvider struct{}

// NewSandboxProvider creates a sandbox provider
func NewSandboxProvider() *SandboxProvider {
	return &SandboxProvider{}
}

// Name returns the provider identifier
func (p *SandboxProvider) Name() string { return "sandbox" }

// FetchAccounts returns two fake accounts derived from the credentials
func (p *SandboxProvider) FetchAccounts(_ context.Context, credentials []byte) ([]appbanking.ProviderAccount, error) {
	seed := seedFrom(credentials)
	return []appbanking.ProviderAccount{
		{
			ExternalID: fmt.Sprintf("sb-current-%08x", seed),
			Name:       "Compte courant",
			IBAN:       fmt.Sprintf("FR76%020d", seed%1_000_000_000_000),
			Balance:    decimal.NewFromInt(int64(seed%900000)).Div(decimal.NewFromInt(100)),
			Currency:   "EUR",
		},
		{
			ExternalID: fmt.Sprintf("sb-savings-%08x", seed),
			Name:       "Livret",
			IBAN:       fmt.Sprintf("FR76%020d", (seed+1)%1_000_000_000_000),
			Balance:    decimal.NewFromInt(int64((seed/7)%2000000)).Div(decimal.NewFromInt(100)),
			Currency:   "EUR",
		},
	}, nil
}

// FetchTransactions returns a fixed set of fake transactions after since
func (p *SandboxProvider) FetchTransactions(_ context.Context, credentials []byte, externalAccountID string, since time.Time) ([]appbanking.ProviderTransaction, error) {
	seed := seedFrom(append(credentials, externalAccountID...))
	base := time.Now().Truncate(24 * time.Hour)

	templates := []struct {
		offsetDays int
		amount     int64
		direction  string
		label      string
		reference  string
		party      string
	}{
		{-2, 120000, "CREDIT", "VIR CLIENT DUPONT FACT F-2026-0042", "F-2026-0042", "DUPONT SAS"},
		{-5, 4990, "DEBIT", "PRLV SEPA OVH CLOUD", "OVH-78421", "OVH"},
		{-9, 86400, "DEBIT", "VIR FOURNISSEUR MARTIN", "FM-1124", "MARTIN SARL"},
		{-12, 1250, "DEBIT", "FRAIS TENUE DE COMPTE", "", ""},
		{-20, 230050, "CREDIT", "VIR CLIENT BERNARD", "F-2026-0031", "BERNARD ET FILS"},
	}

	var transactions []appbanking.ProviderTransaction
	for i, t := range templates {
		date := base.AddDate(0, 0, t.offsetDays)
		if !date.After(since) {
			continue
		}
		transactions = append(transactions, appbanking.ProviderTransaction{
			ExternalID:   fmt.Sprintf("sb-tx-%08x-%d", seed, i),
			Date:         date,
			Amount:       decimal.NewFromInt(t.amount).Div(decimal.NewFromInt(100)),
			Direction:    t.direction,
			Label:        t.label,
			Reference:    t.reference,
			Counterparty: t.party,
		})
	}
	return transactions, nil
}

func seedFrom(payload []byte) uint64 {
	sum := sha256.Sum256(payload)
	return binary.BigEndian.Uint64(sum[:8])
}
