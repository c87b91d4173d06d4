package auth_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipstream/clipstream-server/internal/auth"
	"github.com/clipstream/clipstream-server/internal/domain"
)

func TestHashPassword(t *testing.T) {
	t.Run("hash verifies against original password", func(t *testing.T) {
		hash, err := auth.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

		ok, err := auth.VerifyPassword(hash, "correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password does not verify", func(t *testing.T) {
		hash, err := auth.HashPassword("password1")
		require.NoError(t, err)

		ok, err := auth.VerifyPassword(hash, "password2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		h1, err := auth.HashPassword("secret")
		require.NoError(t, err)
		h2, err := auth.HashPassword("secret")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2, "salts must differ")
	})

	t.Run("empty password rejected", func(t *testing.T) {
		_, err := auth.HashPassword("")
		assert.Error(t, err)
	})

	t.Run("malformed hash verifies as false", func(t *testing.T) {
		ok, err := auth.VerifyPassword("not-a-hash", "anything")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	require.Len(t, key1, 32)

	// Second load returns the same key.
	key2, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	// Key file has restricted permissions.
	info, err := os.Stat(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTokenService(t *testing.T) {
	dir := t.TempDir()
	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)

	user := &domain.User{Username: "alice", Email: "alice@example.com"}
	user.ID = "usr-testtoken"

	t.Run("round trip", func(t *testing.T) {
		svc, err := auth.NewTokenService(key, time.Hour)
		require.NoError(t, err)

		token, err := svc.GenerateAccessToken(user)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, "v4.local."))

		claims, err := svc.VerifyAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Username, claims.Username)
		assert.Equal(t, user.ID, claims.Subject)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		svc, err := auth.NewTokenService(key, -time.Minute)
		require.NoError(t, err)

		token, err := svc.GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = svc.VerifyAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		svc, err := auth.NewTokenService(key, time.Hour)
		require.NoError(t, err)

		otherKey, err := auth.LoadOrGenerateKey(t.TempDir())
		require.NoError(t, err)
		otherSvc, err := auth.NewTokenService(otherKey, time.Hour)
		require.NoError(t, err)

		token, err := svc.GenerateAccessToken(user)
		require.NoError(t, err)

		_, err = otherSvc.VerifyAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("short key rejected", func(t *testing.T) {
		_, err := auth.NewTokenService([]byte("too short"), time.Hour)
		assert.Error(t, err)
	})
}
