package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRunsMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")

	db, err := Open(Config{Path: path})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 2, count)

	_, err = db.Exec("INSERT INTO cache_entries (key, value, created_at) VALUES (?, ?, ?)", []byte("k"), []byte("v"), 1)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not re-apply the ALTER TABLE migration.
	db, err = Open(Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 2, count)

	var hits int
	require.NoError(t, db.QueryRow("SELECT hits FROM cache_entries WHERE key = ?", []byte("k")).Scan(&hits))
	assert.Equal(t, 0, hits)
}

func TestTransactionRollsBack(t *testing.T) {
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "tx.db")})
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO cache_entries (key, value, created_at) VALUES (?, ?, ?)", []byte("k"), []byte("v"), 1); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM cache_entries").Scan(&count))
	assert.Equal(t, 0, count)
}
