package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yarnlot/backend/internal/infrastructure/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-32ch",
		TokenExpiration: time.Hour,
		Issuer:          "yarnlot-backend",
	}
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	manager := NewTokenManager(testJWTConfig())

	t.Run("round trip preserves claims", func(t *testing.T) {
		token, expiresAt, err := manager.Issue(7, "storekeeper")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		claims, err := manager.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, "storekeeper", claims.Username)
		assert.Equal(t, "yarnlot-backend", claims.Issuer)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		_, err := manager.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		other := NewTokenManager(config.JWTConfig{
			Secret:          "another-secret-entirely-not-the-same",
			TokenExpiration: time.Hour,
			Issuer:          "yarnlot-backend",
		})
		token, _, err := other.Issue(7, "storekeeper")
		require.NoError(t, err)

		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewTokenManager(config.JWTConfig{
			Secret:          testJWTConfig().Secret,
			TokenExpiration: -time.Minute,
			Issuer:          "yarnlot-backend",
		})
		token, _, err := expired.Issue(7, "storekeeper")
		require.NoError(t, err)

		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects token from a different issuer", func(t *testing.T) {
		other := NewTokenManager(config.JWTConfig{
			Secret:          testJWTConfig().Secret,
			TokenExpiration: time.Hour,
			Issuer:          "someone-else",
		})
		token, _, err := other.Issue(7, "storekeeper")
		require.NoError(t, err)

		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects claims without a user id", func(t *testing.T) {
		token, _, err := manager.Issue(0, "ghost")
		require.NoError(t, err)

		_, err = manager.Verify(token)
		assert.ErrorIs(t, err, ErrMissingUser)
	})
}

func TestPasswordHashing(t *testing.T) {
	t.Run("hash verifies against original password", func(t *testing.T) {
		hash, err := HashPassword("s3cret-password")
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret-password", hash)
		assert.True(t, CheckPassword(hash, "s3cret-password"))
	})

	t.Run("hash rejects wrong password", func(t *testing.T) {
		hash, err := HashPassword("s3cret-password")
		require.NoError(t, err)
		assert.False(t, CheckPassword(hash, "wrong-password"))
	})
}
