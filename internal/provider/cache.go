package provider

import (
	"context"
	"database/sql"
	"fmt"

	"cardhub/pkg/models"
)

// LoadUUIDCache reads the legacy cache table into the lookup form the
// pipeline consumes. The returned map is treated as read-only for the
// whole build.
func LoadUUIDCache(ctx context.Context, db *sql.DB) (map[models.FaceKey]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT source_id, side, uuid
		FROM uuid_cache
	`)
	if err != nil {
		return nil, fmt.Errorf("query uuid cache: %w", err)
	}
	defer rows.Close()

	cache := make(map[models.FaceKey]string)
	for rows.Next() {
		var e models.UUIDCacheEntry
		if err := rows.Scan(&e.SourceID, &e.Side, &e.UUID); err != nil {
			return nil, fmt.Errorf("scan uuid cache: %w", err)
		}
		cache[models.FaceKey{SourceID: e.SourceID, Side: e.Side}] = e.UUID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("uuid cache rows: %w", err)
	}
	return cache, nil
}

// SaveUUIDCache inserts newly assigned pairs. Existing keys are never
// overwritten: a previously published identifier must survive every
// later build.
func SaveUUIDCache(ctx context.Context, db *sql.DB, entries []models.UUIDCacheEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO uuid_cache (source_id, side, uuid)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.SourceID, e.Side, e.UUID); err != nil {
			return fmt.Errorf("exec insert for %s/%s: %w", e.SourceID, e.Side, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
