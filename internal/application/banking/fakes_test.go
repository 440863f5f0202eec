package banking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/banking"
	"github.com/azalscore/backend/internal/domain/shared"
)

// In-memory fakes for the banking ports. Single-goroutine use only.

type fakeConnectionRepo struct {
	conns map[uuid.UUID]*banking.BankConnection
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{conns: make(map[uuid.UUID]*banking.BankConnection)}
}

func (r *fakeConnectionRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*banking.BankConnection, error) {
	conn, ok := r.conns[id]
	if !ok || conn.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *conn
	return &copied, nil
}

func (r *fakeConnectionRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]banking.BankConnection, error) {
	out := make([]banking.BankConnection, 0)
	for _, c := range r.conns {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) Save(_ context.Context, conn *banking.BankConnection) error {
	copied := *conn
	r.conns[conn.ID] = &copied
	return nil
}

func (r *fakeConnectionRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	conn, ok := r.conns[id]
	if !ok || conn.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.conns, id)
	return nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*banking.SyncedBankAccount
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*banking.SyncedBankAccount)}
}

func (r *fakeAccountRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*banking.SyncedBankAccount, error) {
	a, ok := r.accounts[id]
	if !ok || a.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) FindByConnection(_ context.Context, tenantID, connectionID uuid.UUID) ([]banking.SyncedBankAccount, error) {
	out := make([]banking.SyncedBankAccount, 0)
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.ConnectionID == connectionID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) FindByExternalID(_ context.Context, tenantID, connectionID uuid.UUID, externalID string) (*banking.SyncedBankAccount, error) {
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.ConnectionID == connectionID && a.ExternalID == externalID {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAccountRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]banking.SyncedBankAccount, error) {
	out := make([]banking.SyncedBankAccount, 0)
	for _, a := range r.accounts {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Save(_ context.Context, account *banking.SyncedBankAccount) error {
	r.accounts[account.ID] = account
	return nil
}

type fakeTransactionRepo struct {
	txs map[uuid.UUID]*banking.SyncedTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make(map[uuid.UUID]*banking.SyncedTransaction)}
}

func (r *fakeTransactionRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*banking.SyncedTransaction, error) {
	tx, ok := r.txs[id]
	if !ok || tx.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *tx
	return &copied, nil
}

func (r *fakeTransactionRepo) FindByAccountAndExternalID(_ context.Context, tenantID, accountID uuid.UUID, externalID string) (*banking.SyncedTransaction, error) {
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && tx.AccountID == accountID && tx.ExternalID == externalID {
			copied := *tx
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTransactionRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter banking.TransactionFilter) ([]banking.SyncedTransaction, int64, error) {
	out := make([]banking.SyncedTransaction, 0)
	for _, tx := range r.txs {
		if tx.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTransactionRepo) FindUnmatched(_ context.Context, tenantID uuid.UUID) ([]banking.SyncedTransaction, error) {
	out := make([]banking.SyncedTransaction, 0)
	for _, tx := range r.txs {
		if tx.TenantID == tenantID && tx.Status == banking.ReconciliationUnmatched {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) Save(_ context.Context, tx *banking.SyncedTransaction) error {
	copied := *tx
	r.txs[tx.ID] = &copied
	return nil
}

type fakeRuleRepo struct {
	rules map[uuid.UUID]*banking.ReconciliationRule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[uuid.UUID]*banking.ReconciliationRule)}
}

func (r *fakeRuleRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*banking.ReconciliationRule, error) {
	rule, ok := r.rules[id]
	if !ok || rule.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return rule, nil
}

func (r *fakeRuleRepo) FindActiveForTenant(_ context.Context, tenantID uuid.UUID) ([]banking.ReconciliationRule, error) {
	out := make([]banking.ReconciliationRule, 0)
	for _, rule := range r.rules {
		if rule.TenantID == tenantID && rule.Active {
			out = append(out, *rule)
		}
	}
	return out, nil
}

func (r *fakeRuleRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]banking.ReconciliationRule, error) {
	out := make([]banking.ReconciliationRule, 0)
	for _, rule := range r.rules {
		if rule.TenantID == tenantID {
			out = append(out, *rule)
		}
	}
	return out, nil
}

func (r *fakeRuleRepo) Save(_ context.Context, rule *banking.ReconciliationRule) error {
	r.rules[rule.ID] = rule
	return nil
}

func (r *fakeRuleRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	rule, ok := r.rules[id]
	if !ok || rule.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.rules, id)
	return nil
}

type fakeHistoryRepo struct {
	records []*banking.ReconciliationHistory
}

func (r *fakeHistoryRepo) FindForTransaction(_ context.Context, tenantID, transactionID uuid.UUID) ([]banking.ReconciliationHistory, error) {
	out := make([]banking.ReconciliationHistory, 0)
	for _, rec := range r.records {
		if rec.TenantID == tenantID && rec.TransactionID == transactionID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) Save(_ context.Context, record *banking.ReconciliationHistory) error {
	r.records = append(r.records, record)
	return nil
}

type fakeDocRepo struct {
	docs map[uuid.UUID]*accounting.AccountingDocument
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[uuid.UUID]*accounting.AccountingDocument)}
}

func (r *fakeDocRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*accounting.AccountingDocument, error) {
	doc, ok := r.docs[id]
	if !ok || doc.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

func (r *fakeDocRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ accounting.DocumentFilter) ([]accounting.AccountingDocument, int64, error) {
	out := make([]accounting.AccountingDocument, 0)
	for _, doc := range r.docs {
		if doc.TenantID == tenantID {
			out = append(out, *doc)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDocRepo) FindByFileHash(_ context.Context, _ uuid.UUID, _ string) (*accounting.AccountingDocument, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeDocRepo) FindOpenForReconciliation(_ context.Context, tenantID uuid.UUID) ([]accounting.AccountingDocument, error) {
	out := make([]accounting.AccountingDocument, 0)
	for _, doc := range r.docs {
		if doc.TenantID == tenantID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) GenerateDocumentNumber(_ context.Context, _ uuid.UUID) (string, error) {
	return "DOC-2026-0001", nil
}

func (r *fakeDocRepo) Save(_ context.Context, doc *accounting.AccountingDocument) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	delete(r.docs, id)
	return nil
}

type fakeBankProvider struct {
	accounts     []ProviderAccount
	transactions map[string][]ProviderTransaction
	accountsErr  error
	txErr        error
	fetchedSince []time.Time
}

func (p *fakeBankProvider) Name() string { return "stub-bank" }

func (p *fakeBankProvider) FetchAccounts(_ context.Context, _ []byte) ([]ProviderAccount, error) {
	if p.accountsErr != nil {
		return nil, p.accountsErr
	}
	return p.accounts, nil
}

func (p *fakeBankProvider) FetchTransactions(_ context.Context, _ []byte, externalAccountID string, since time.Time) ([]ProviderTransaction, error) {
	if p.txErr != nil {
		return nil, p.txErr
	}
	p.fetchedSince = append(p.fetchedSince, since)
	return p.transactions[externalAccountID], nil
}

// plainSealer is a no-op sealer for tests
type plainSealer struct{}

func (plainSealer) Seal(plaintext []byte) ([]byte, error) { return plaintext, nil }
func (plainSealer) Open(sealed []byte) ([]byte, error)    { return sealed, nil }

type fakeAlertRepo struct {
	alerts []*accounting.AccountingAlert
}

func (r *fakeAlertRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*accounting.AccountingAlert, error) {
	for _, a := range r.alerts {
		if a.TenantID == tenantID && a.ID == id {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAlertRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ accounting.AlertFilter) ([]accounting.AccountingAlert, int64, error) {
	out := make([]accounting.AccountingAlert, 0)
	for _, a := range r.alerts {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAlertRepo) Save(_ context.Context, alert *accounting.AccountingAlert) error {
	r.alerts = append(r.alerts, alert)
	return nil
}
