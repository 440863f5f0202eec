package banking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleTx(t *testing.T, amount, label, counterparty string) *SyncedTransaction {
	t.Helper()
	tx, err := NewSyncedTransaction(uuid.New(), uuid.New(), "ext-1", time.Now(),
		decimal.RequireFromString(amount), DirectionDebit, label, "", counterparty)
	require.NoError(t, err)
	return tx
}

func TestReconciliationRule_Matches(t *testing.T) {
	tenantID := uuid.New()

	t.Run("substring is case insensitive", func(t *testing.T) {
		rule, err := NewReconciliationRule(tenantID, "Frais bancaires",
			PatternSubstring, "frais bancaires", "627000", 5)
		require.NoError(t, err)

		assert.True(t, rule.Matches(ruleTx(t, "12.50", "FRAIS BANCAIRES TRIMESTRE", "")))
		assert.False(t, rule.Matches(ruleTx(t, "12.50", "VIR SEPA", "")))
	})

	t.Run("counterparty is searched too", func(t *testing.T) {
		rule, err := NewReconciliationRule(tenantID, "EDF",
			PatternSubstring, "edf", "606100", 5)
		require.NoError(t, err)
		assert.True(t, rule.Matches(ruleTx(t, "120.00", "PRLV", "EDF SA")))
	})

	t.Run("regex pattern", func(t *testing.T) {
		rule, err := NewReconciliationRule(tenantID, "Abonnements",
			PatternRegex, `(?i)prlv\s+(free|orange|sfr)`, "626000", 5)
		require.NoError(t, err)

		assert.True(t, rule.Matches(ruleTx(t, "39.99", "PRLV ORANGE", "")))
		assert.False(t, rule.Matches(ruleTx(t, "39.99", "PRLV EDF", "")))
	})

	t.Run("invalid regex refused at creation", func(t *testing.T) {
		_, err := NewReconciliationRule(tenantID, "Bad", PatternRegex, "([", "626000", 5)
		assert.Error(t, err)
	})

	t.Run("amount bounds", func(t *testing.T) {
		minA := decimal.RequireFromString("10.00")
		maxA := decimal.RequireFromString("50.00")
		rule, err := NewReconciliationRule(tenantID, "Petits frais",
			PatternSubstring, "frais", "627000", 5)
		require.NoError(t, err)
		rule.WithAmountBounds(&minA, &maxA)

		assert.True(t, rule.Matches(ruleTx(t, "25.00", "FRAIS TENUE DE COMPTE", "")))
		assert.False(t, rule.Matches(ruleTx(t, "5.00", "FRAIS TENUE DE COMPTE", "")))
		assert.False(t, rule.Matches(ruleTx(t, "80.00", "FRAIS TENUE DE COMPTE", "")))
	})

	t.Run("inactive rule never matches", func(t *testing.T) {
		rule, err := NewReconciliationRule(tenantID, "Frais", PatternSubstring, "frais", "627000", 5)
		require.NoError(t, err)
		rule.Active = false
		assert.False(t, rule.Matches(ruleTx(t, "25.00", "FRAIS", "")))
	})

	t.Run("name and pattern required", func(t *testing.T) {
		_, err := NewReconciliationRule(tenantID, "", PatternSubstring, "x", "", 0)
		assert.Error(t, err)
		_, err = NewReconciliationRule(tenantID, "X", PatternSubstring, "", "", 0)
		assert.Error(t, err)
	})
}
