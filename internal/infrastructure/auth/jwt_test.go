package auth

import (
	"testing"
	"time"

	"github.com/azalscore/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-unit-tests",
		AccessTokenExpiration: expiration,
		Issuer:                "azalscore-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := testService(time.Hour)
	tenantID := uuid.New()
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(tenantID, userID, "dirigeant")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "dirigeant", claims.Role)
	assert.Equal(t, "azalscore-test", claims.Issuer)

	gotTenant, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, gotTenant)

	gotUser, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	svc := testService(time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret",
			AccessTokenExpiration: time.Hour,
			Issuer:                "azalscore-test",
		})
		token, _, err := other.GenerateToken(uuid.New(), uuid.New(), "expert")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		short := testService(time.Nanosecond)
		token, _, err := short.GenerateToken(uuid.New(), uuid.New(), "assistante")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = short.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestNewJWTService_DefaultExpiration(t *testing.T) {
	svc := testService(0)
	_, expiresAt, err := svc.GenerateToken(uuid.New(), uuid.New(), "expert")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, 5*time.Second)
}
