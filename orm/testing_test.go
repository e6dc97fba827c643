package orm

import (
	"context"
	"path/filepath"
	"testing"

	"primer-registry/config"

	"github.com/stretchr/testify/require"
)

// setupTestDB opens a fresh sqlite store in a temporary directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := InitDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "primers.db"),
	})
	require.NoError(t, err, "Failed to create database")

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func countRows(t *testing.T, db *DB, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	q := db.dbGorm.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)

	return n
}

func savedGene(t *testing.T, db *DB, id, sequence string) *Gene {
	t.Helper()

	g := NewGene(id, sequence)
	require.NoError(t, g.Save(context.Background(), db))

	return g
}
