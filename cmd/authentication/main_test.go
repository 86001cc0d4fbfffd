package main

import (
	"context"
	"testing"

	"github.com/gartstein/workforce/internal/workforce/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestProvisionUser(t *testing.T) {
	repo, err := db.NewRepository(&db.Config{Driver: db.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	ctx := context.Background()

	created, err := provisionUser(ctx, repo, "Ops", "ops@workforce.test", "first-password")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = provisionUser(ctx, repo, "Operations", "ops@workforce.test", "second-password")
	require.NoError(t, err)
	assert.False(t, created)

	user, err := repo.GetUserByEmail(ctx, "ops@workforce.test")
	require.NoError(t, err)
	assert.Equal(t, "Operations", user.Name)
	assert.NotNil(t, user.EmailVerifiedAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("second-password")))
}
