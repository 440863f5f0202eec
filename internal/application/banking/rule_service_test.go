package banking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azalscore/backend/internal/domain/shared"
)

func TestRuleService_CreateRule(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	repo := newFakeRuleRepo()
	service := NewRuleService(repo)

	t.Run("creates an active substring rule", func(t *testing.T) {
		minAmount := decimal.NewFromFloat(10)
		maxAmount := decimal.NewFromFloat(500)
		createdBy := uuid.New()

		resp, err := service.CreateRule(ctx, tenantID, CreateRuleRequest{
			Name:          "Abonnement OVH",
			PatternKind:   "SUBSTRING",
			Pattern:       "ovh",
			MinAmount:     &minAmount,
			MaxAmount:     &maxAmount,
			TargetAccount: "626100",
			Priority:      10,
			CreatedBy:     &createdBy,
		})
		require.NoError(t, err)

		assert.Equal(t, "Abonnement OVH", resp.Name)
		assert.Equal(t, "SUBSTRING", resp.PatternKind)
		assert.True(t, resp.Active)
		assert.Equal(t, "626100", resp.TargetAccount)
		require.NotNil(t, resp.MinAmount)
		assert.True(t, resp.MinAmount.Equal(minAmount))

		stored, err := repo.FindByIDForTenant(ctx, tenantID, resp.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.CreatedBy)
		assert.Equal(t, createdBy, *stored.CreatedBy)
	})

	t.Run("rejects an invalid regex pattern", func(t *testing.T) {
		_, err := service.CreateRule(ctx, tenantID, CreateRuleRequest{
			Name:        "Broken",
			PatternKind: "REGEX",
			Pattern:     "virement (sepa",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := service.CreateRule(ctx, tenantID, CreateRuleRequest{
			Name:        "",
			PatternKind: "SUBSTRING",
			Pattern:     "ovh",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestRuleService_UpdateRule(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	repo := newFakeRuleRepo()
	service := NewRuleService(repo)

	created, err := service.CreateRule(ctx, tenantID, CreateRuleRequest{
		Name:          "Loyer bureau",
		PatternKind:   "SUBSTRING",
		Pattern:       "sci les oliviers",
		TargetAccount: "613200",
		Priority:      5,
	})
	require.NoError(t, err)

	t.Run("updates tunable fields and keeps the pattern", func(t *testing.T) {
		maxAmount := decimal.NewFromFloat(1800)

		resp, err := service.UpdateRule(ctx, tenantID, created.ID, UpdateRuleRequest{
			Name:          "Loyer bureau Lyon",
			MaxAmount:     &maxAmount,
			TargetAccount: "613200",
			Priority:      1,
			Active:        false,
		})
		require.NoError(t, err)

		assert.Equal(t, "Loyer bureau Lyon", resp.Name)
		assert.Equal(t, 1, resp.Priority)
		assert.False(t, resp.Active)
		assert.Equal(t, "sci les oliviers", resp.Pattern)
		require.NotNil(t, resp.MaxAmount)
		assert.True(t, resp.MaxAmount.Equal(maxAmount))
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, err := service.UpdateRule(ctx, tenantID, uuid.New(), UpdateRuleRequest{Name: "x"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rule of another tenant stays hidden", func(t *testing.T) {
		_, err := service.UpdateRule(ctx, uuid.New(), created.ID, UpdateRuleRequest{Name: "x"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRuleService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	repo := newFakeRuleRepo()
	service := NewRuleService(repo)

	first, err := service.CreateRule(ctx, tenantID, CreateRuleRequest{
		Name: "Frais bancaires", PatternKind: "SUBSTRING", Pattern: "commission", TargetAccount: "627000",
	})
	require.NoError(t, err)
	_, err = service.CreateRule(ctx, tenantID, CreateRuleRequest{
		Name: "URSSAF", PatternKind: "SUBSTRING", Pattern: "urssaf", TargetAccount: "645000",
	})
	require.NoError(t, err)
	_, err = service.CreateRule(ctx, uuid.New(), CreateRuleRequest{
		Name: "Autre tenant", PatternKind: "SUBSTRING", Pattern: "x",
	})
	require.NoError(t, err)

	t.Run("lists only the tenant's rules", func(t *testing.T) {
		rules, err := service.ListRules(ctx, tenantID)
		require.NoError(t, err)
		assert.Len(t, rules, 2)
	})

	t.Run("get returns the stored rule", func(t *testing.T) {
		resp, err := service.GetRule(ctx, tenantID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Frais bancaires", resp.Name)
	})

	t.Run("delete removes the rule", func(t *testing.T) {
		require.NoError(t, service.DeleteRule(ctx, tenantID, first.ID))

		_, err := service.GetRule(ctx, tenantID, first.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		rules, err := service.ListRules(ctx, tenantID)
		require.NoError(t, err)
		assert.Len(t, rules, 1)
	})

	t.Run("deleting a missing rule reports not found", func(t *testing.T) {
		err := service.DeleteRule(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
