package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
	"github.com/khaifmono/memberbase/internal/testutil"
	pkgerrors "github.com/khaifmono/memberbase/pkg/errors"
)

func TestAdminRepo_GetByEmail(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewAdminRepo(db)
	ctx := context.Background()

	admin := &model.Admin{Email: "admin@cis.com", PasswordHash: "hash", Name: "System Admin"}
	require.NoError(t, repo.Create(ctx, admin))

	got, err := repo.GetByEmail(ctx, "admin@cis.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	byID, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "System Admin", byID.Name)

	_, err = repo.GetByEmail(ctx, "nobody@cis.com")
	assert.True(t, pkgerrors.IsNotFound(err))

	err = repo.Create(ctx, &model.Admin{Email: "admin@cis.com", PasswordHash: "x", Name: "Dup"})
	assert.True(t, pkgerrors.IsDuplicate(err))
}
