package provider

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardhub/pkg/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../docs/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func TestUUIDCacheRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	entries := []models.UUIDCacheEntry{
		{SourceID: "src-1", Side: "a", UUID: "uuid-1"},
		{SourceID: "src-1", Side: "b", UUID: "uuid-2"},
	}
	require.NoError(t, SaveUUIDCache(ctx, db, entries))

	cache, err := LoadUUIDCache(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, map[models.FaceKey]string{
		{SourceID: "src-1", Side: "a"}: "uuid-1",
		{SourceID: "src-1", Side: "b"}: "uuid-2",
	}, cache)
}

func TestUUIDCacheNeverOverwrites(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, SaveUUIDCache(ctx, db, []models.UUIDCacheEntry{
		{SourceID: "src-1", Side: "a", UUID: "original"},
	}))
	require.NoError(t, SaveUUIDCache(ctx, db, []models.UUIDCacheEntry{
		{SourceID: "src-1", Side: "a", UUID: "changed"},
	}))

	cache, err := LoadUUIDCache(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "original", cache[models.FaceKey{SourceID: "src-1", Side: "a"}])
}

func TestUUIDCacheEmptySave(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, SaveUUIDCache(context.Background(), db, nil))
}
