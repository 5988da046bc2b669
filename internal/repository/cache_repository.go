package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/contour-backend/internal/models"
)

// CacheRepository handles database operations for cache entries. It
// implements cache.Cache on top of the sqlite cache_entries table.
type CacheRepository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewCacheRepository creates a new cache repository. A zero ttl keeps
// entries until they are flushed.
func NewCacheRepository(db *sql.DB, ttl time.Duration) *CacheRepository {
	return &CacheRepository{db: db, ttl: ttl, now: time.Now}
}

// Get retrieves a live entry and counts the hit
func (r *CacheRepository) Get(ctx context.Context, key []byte) ([]byte, bool, error) {
	var value []byte
	var expiresAt sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM cache_entries WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache entry: %w", err)
	}

	if expiresAt.Valid && r.now().Unix() >= expiresAt.Int64 {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key); err != nil {
			return nil, false, fmt.Errorf("failed to delete expired cache entry: %w", err)
		}
		return nil, false, nil
	}

	if _, err := r.db.ExecContext(ctx, "UPDATE cache_entries SET hits = hits + 1 WHERE key = ?", key); err != nil {
		return nil, false, fmt.Errorf("failed to update cache hits: %w", err)
	}

	return value, true, nil
}

// Set inserts or replaces an entry
func (r *CacheRepository) Set(ctx context.Context, key, value []byte) error {
	now := r.now()
	var expiresAt sql.NullInt64
	if r.ttl > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(r.ttl).Unix(), Valid: true}
	}

	query := `INSERT INTO cache_entries (key, value, created_at, expires_at, hits)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at,
			hits = 0`

	if _, err := r.db.ExecContext(ctx, query, key, value, now.Unix(), expiresAt); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Flush deletes every entry
func (r *CacheRepository) Flush(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM cache_entries"); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed
func (r *CacheRepository) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE expires_at IS NOT NULL AND expires_at <= ?", r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats summarises the cache table
func (r *CacheRepository) Stats(ctx context.Context) (*models.CacheStats, error) {
	var stats models.CacheStats
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(LENGTH(value)), 0), COALESCE(SUM(hits), 0) FROM cache_entries",
	).Scan(&stats.Entries, &stats.Bytes, &stats.Hits)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache stats: %w", err)
	}
	return &stats, nil
}
