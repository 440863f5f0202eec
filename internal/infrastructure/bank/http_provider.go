// Package bank provides pull-mode bank data providers behind the
// application's BankProvider port.
package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	appbanking "github.com/azalscore/backend/internal/application/banking"
	"github.com/shopspring/decimal"
)

// Ensure HTTPProvider implements BankProvider
var _ appbanking.BankProvider = (*HTTPProvider)(nil)

// HTTPProvider talks to an aggregation API over HTTP. Credentials are the
// opaque token payload the user supplied when creating the connection; they
// are forwarded as a bearer token.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates an HTTP provider
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier
func (p *HTTPProvider) Name() string { return "http" }

type wireAccount struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	IBAN     string          `json:"iban"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

type wireTransaction struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Direction    string          `json:"direction"`
	Label        string          `json:"label"`
	Reference    string          `json:"reference"`
	Counterparty string          `json:"counterparty"`
}

// FetchAccounts pulls the account list
func (p *HTTPProvider) FetchAccounts(ctx context.Context, credentials []byte) ([]appbanking.ProviderAccount, error) {
	var wire []wireAccount
	if err := p.get(ctx, credentials, "/accounts", &wire); err != nil {
		return nil, err
	}
	accounts := make([]appbanking.ProviderAccount, len(wire))
	for i, a := range wire {
		accounts[i] = appbanking.ProviderAccount{
			ExternalID: a.ID,
			Name:       a.Name,
			IBAN:       a.IBAN,
			Balance:    a.Balance,
			Currency:   a.Currency,
		}
	}
	return accounts, nil
}

// FetchTransactions pulls transactions for one account since a date
func (p *HTTPProvider) FetchTransactions(ctx context.Context, credentials []byte, externalAccountID string, since time.Time) ([]appbanking.ProviderTransaction, error) {
	path := fmt.Sprintf("/accounts/%s/transactions?since=%s",
		url.PathEscape(externalAccountID), url.QueryEscape(since.Format(time.RFC3339)))
	var wire []wireTransaction
	if err := p.get(ctx, credentials, path, &wire); err != nil {
		return nil, err
	}
	transactions := make([]appbanking.ProviderTransaction, len(wire))
	for i, t := range wire {
		transactions[i] = appbanking.ProviderTransaction{
			ExternalID:   t.ID,
			Date:         t.Date,
			Amount:       t.Amount,
			Direction:    t.Direction,
			Label:        t.Label,
			Reference:    t.Reference,
			Counterparty: t.Counterparty,
		}
	}
	return transactions, nil
}

func (p *HTTPProvider) get(ctx context.Context, credentials []byte, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+string(bytes.TrimSpace(credentials)))
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
