package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/khaifmono/memberbase/internal/model"
	"github.com/khaifmono/memberbase/internal/repository"
	"github.com/khaifmono/memberbase/internal/testutil"
)

func TestAuditLogRepo_ListRecentCapsAndOrders(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewAuditLogRepo(db)
	admin := testutil.SeedAdmin(t, db)
	ctx := context.Background()

	for i := 1; i <= 105; i++ {
		require.NoError(t, repo.Create(ctx, &model.AuditLog{
			AdminID:    &admin.ID,
			Action:     model.AuditActionUpdateMember,
			TargetType: model.AuditTargetMember,
			TargetID:   uint(i),
		}))
	}

	logs, err := repo.ListRecent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, logs, 100)
	assert.Equal(t, uint(105), logs[0].TargetID, "最新的记录排在最前")
	assert.Equal(t, uint(6), logs[99].TargetID)
}

func TestAuditLogRepo_DetailsRoundTrip(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewAuditLogRepo(db)
	admin := testutil.SeedAdmin(t, db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.AuditLog{
		AdminID:    &admin.ID,
		Action:     model.AuditActionPreRegister,
		TargetType: model.AuditTargetMember,
		TargetID:   7,
		Details:    datatypes.JSON(`{"ic":"900101145678"}`),
	}))

	logs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"ic":"900101145678"}`, string(logs[0].Details))

	count, err := repo.CountByTarget(ctx, model.AuditTargetMember, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
