//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tordrt/entitysql/internal/sqlgen"
	"github.com/tordrt/entitysql/internal/statements"
)

func TestPostgresRoundTrip(t *testing.T) {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("entitysql"),
		postgres.WithUsername("entitysql"),
		postgres.WithPassword("entitysql"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer func() { _ = store.Close(ctx) }()

	set := accountSet(t, sqlgen.Postgres)
	created, err := ApplyAll(ctx, store, []*statements.Set{set})
	require.NoError(t, err)
	assert.Equal(t, []string{"account"}, created)

	created, err = ApplyAll(ctx, store, []*statements.Set{set})
	require.NoError(t, err)
	assert.Empty(t, created)

	repo, err := NewRepository(store, set)
	require.NoError(t, err)

	id := uuid.New()
	_, err = repo.Insert(ctx, Record{"id": id, "name": "alice", "visits": int64(1)})
	require.NoError(t, err)

	_, err = repo.Update(ctx, Record{"id": id, "name": "bob", "visits": int64(5)})
	require.NoError(t, err)

	rec, found, err := repo.FindByKey(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "bob", rec["name"])
	assert.Equal(t, int64(5), rec["visits"])

	rows, err := store.Query(ctx, "SELECT obj_description('account'::regclass) AS comment;")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ledger accounts", rows[0]["comment"])
}
