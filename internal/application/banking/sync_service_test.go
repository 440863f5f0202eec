package banking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/banking"
)

type syncServiceFixture struct {
	service   *SyncService
	connRepo  *fakeConnectionRepo
	accRepo   *fakeAccountRepo
	txRepo    *fakeTransactionRepo
	alertRepo *fakeAlertRepo
	provider  *fakeBankProvider
	tenantID  uuid.UUID
}

func newSyncServiceFixture() *syncServiceFixture {
	f := &syncServiceFixture{
		connRepo:  newFakeConnectionRepo(),
		accRepo:   newFakeAccountRepo(),
		txRepo:    newFakeTransactionRepo(),
		alertRepo: &fakeAlertRepo{},
		provider: &fakeBankProvider{
			transactions: make(map[string][]ProviderTransaction),
		},
		tenantID: uuid.New(),
	}
	f.service = NewSyncService(f.connRepo, f.accRepo, f.txRepo, f.alertRepo,
		f.provider, plainSealer{}, zap.NewNop())
	return f
}

func (f *syncServiceFixture) connect(t *testing.T) *ConnectionResponse {
	t.Helper()
	conn, err := f.service.CreateConnection(context.Background(), f.tenantID, CreateConnectionRequest{
		Label:       "Compte courant",
		Credentials: `{"login":"acme","secret":"s3cret"}`,
	})
	require.NoError(t, err)
	return conn
}

func providerTx(externalID, amount, label string) ProviderTransaction {
	return ProviderTransaction{
		ExternalID:   externalID,
		Date:         time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Amount:       decimal.RequireFromString(amount),
		Direction:    string(banking.DirectionDebit),
		Label:        label,
		Counterparty: "EDF",
	}
}

func TestSyncService_CreateConnection(t *testing.T) {
	f := newSyncServiceFixture()
	conn := f.connect(t)

	assert.Equal(t, "stub-bank", conn.Provider)
	assert.Equal(t, "Compte courant", conn.Label)
	assert.Equal(t, string(banking.ConnectionStatusActive), conn.Status)
	assert.Equal(t, string(banking.SyncStatusNever), conn.LastSyncStatus)
}

func TestSyncService_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("pulls accounts and transactions", func(t *testing.T) {
		f := newSyncServiceFixture()
		conn := f.connect(t)
		f.provider.accounts = []ProviderAccount{
			{ExternalID: "acc-1", Name: "Compte courant", IBAN: "FR1420041010050500013M02606",
				Balance: decimal.RequireFromString("8452.10"), Currency: "EUR"},
		}
		f.provider.transactions["acc-1"] = []ProviderTransaction{
			providerTx("tx-1", "120.00", "PRLV EDF"),
			providerTx("tx-2", "89.90", "PRLV FREE MOBILE"),
		}

		result, err := f.service.Sync(ctx, f.tenantID, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.AccountsSynced)
		assert.Equal(t, 2, result.NewTransactions)

		accounts, err := f.service.ListAccounts(ctx, f.tenantID)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.True(t, accounts[0].Balance.Equal(decimal.RequireFromString("8452.10")))

		stored, _ := f.connRepo.FindByIDForTenant(ctx, f.tenantID, conn.ID)
		assert.Equal(t, banking.SyncStatusSuccess, stored.LastSyncStatus)
		assert.NotNil(t, stored.LastSyncAt)
	})

	t.Run("re-pulling the same window is idempotent", func(t *testing.T) {
		f := newSyncServiceFixture()
		conn := f.connect(t)
		f.provider.accounts = []ProviderAccount{{ExternalID: "acc-1", Name: "Compte"}}
		f.provider.transactions["acc-1"] = []ProviderTransaction{providerTx("tx-1", "120.00", "PRLV EDF")}

		first, err := f.service.Sync(ctx, f.tenantID, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, first.NewTransactions)

		second, err := f.service.Sync(ctx, f.tenantID, conn.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, second.NewTransactions)
		assert.Len(t, f.txRepo.txs, 1)

		// the second pull starts from the first sync timestamp
		require.Len(t, f.provider.fetchedSince, 2)
		assert.True(t, f.provider.fetchedSince[0].IsZero())
		assert.False(t, f.provider.fetchedSince[1].IsZero())
	})

	t.Run("provider failure marks the connection and alerts", func(t *testing.T) {
		f := newSyncServiceFixture()
		conn := f.connect(t)
		f.provider.accountsErr = errors.New("provider timeout")

		_, err := f.service.Sync(ctx, f.tenantID, conn.ID)
		require.Error(t, err)

		stored, _ := f.connRepo.FindByIDForTenant(ctx, f.tenantID, conn.ID)
		assert.Equal(t, banking.ConnectionStatusError, stored.Status)
		assert.Equal(t, banking.SyncStatusFailed, stored.LastSyncStatus)
		assert.Contains(t, stored.LastSyncError, "provider timeout")

		require.Len(t, f.alertRepo.alerts, 1)
		assert.Equal(t, accounting.AlertBankSyncFailed, f.alertRepo.alerts[0].AlertType)
	})

	t.Run("errored connection can sync again", func(t *testing.T) {
		f := newSyncServiceFixture()
		conn := f.connect(t)
		f.provider.accountsErr = errors.New("provider timeout")
		_, err := f.service.Sync(ctx, f.tenantID, conn.ID)
		require.Error(t, err)

		f.provider.accountsErr = nil
		f.provider.accounts = []ProviderAccount{{ExternalID: "acc-1", Name: "Compte"}}
		_, err = f.service.Sync(ctx, f.tenantID, conn.ID)
		assert.NoError(t, err)
	})

	t.Run("revoked connection refuses to sync", func(t *testing.T) {
		f := newSyncServiceFixture()
		conn := f.connect(t)
		_, err := f.service.RevokeConnection(ctx, f.tenantID, conn.ID)
		require.NoError(t, err)

		_, err = f.service.Sync(ctx, f.tenantID, conn.ID)
		assert.Error(t, err)
	})

	t.Run("unknown connection", func(t *testing.T) {
		f := newSyncServiceFixture()
		_, err := f.service.Sync(ctx, f.tenantID, uuid.New())
		assert.Error(t, err)
	})
}

func TestSyncService_RevokeConnection(t *testing.T) {
	ctx := context.Background()
	f := newSyncServiceFixture()
	conn := f.connect(t)

	resp, err := f.service.RevokeConnection(ctx, f.tenantID, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, string(banking.ConnectionStatusRevoked), resp.Status)

	// revoking twice is an error
	_, err = f.service.RevokeConnection(ctx, f.tenantID, conn.ID)
	assert.Error(t, err)
}
