package orm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"primer-registry/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func TestInitDBCreatesTables(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	for _, table := range []string{"genes", "primers"} {
		var name string
		err := db.dbGorm.
			Raw("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).
			Scan(&name).Error
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}

	var ddl string
	err := db.dbGorm.
		Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'primers'").
		Scan(&ddl).Error
	require.NoError(t, err)
	assert.Regexp(t, `REFERENCES\s*.?genes.?\s*\(.?gene_id.?\)`, ddl)

	var genesDDL string
	err = db.dbGorm.
		Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'genes'").
		Scan(&genesDDL).Error
	require.NoError(t, err)
	assert.NotContains(t, genesDDL, "REFERENCES", "genes must not reference primers")
}

func TestInitDBGeneInsertWithoutPrimers(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	err := db.dbGorm.Create(&GeneModel{GeneID: "BRCA1", Sequence: "ATGC"}).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, db, &GeneModel{}, ""))
}

func TestInitDBRejectsPrimerOfUnknownGene(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	row := PrimerModel{
		GeneID:          "UNKNOWN",
		ForwardSequence: "ATGC",
		ReverseSequence: "GCAT",
	}
	err := db.dbGorm.Omit(clause.Associations).Create(&row).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)

	var constraint *ConstraintViolationError
	wrapped := wrapErrorWithDetails(err, "insert", "primer pair")
	assert.True(t, errors.As(wrapped, &constraint), "got %T: %v", wrapped, wrapped)
	assert.Equal(t, int64(0), countRows(t, db, &PrimerModel{}, ""))
}

func TestInitDBQueryLogging(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	assert.Equal(t, logger.Default.LogMode(logger.Silent), db.dbGorm.Logger)

	cfg := config.DatabaseConfig{
		Driver:     "sqlite",
		Path:       filepath.Join(t.TempDir(), "primers.db"),
		LogQueries: true,
	}
	verbose, err := InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = verbose.Close() })
	assert.Equal(t, logger.Default.LogMode(logger.Info), verbose.dbGorm.Logger)
}

func TestInitializeIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "primers.db")
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: path}

	db, err := InitDB(cfg)
	require.NoError(t, err)
	savedGene(t, db, "BRCA1", "ATGC")
	require.NoError(t, db.Initialize())
	require.NoError(t, db.Close())

	_, err = os.Stat(path)
	require.NoError(t, err, "store file should exist")

	reopened, err := InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	g, err := LoadGene(context.Background(), reopened, "BRCA1")
	require.NoError(t, err)
	assert.Equal(t, "ATGC", g.Sequence())
}

func TestOpenStorageUnavailable(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := InitDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(blocker, "primers.db"),
	})
	require.Error(t, err)

	var unavailable *StorageUnavailableError
	assert.True(t, errors.As(err, &unavailable), "got %T: %v", err, err)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(config.DatabaseConfig{Driver: "oracle"})

	var badInput *BadInputError
	assert.True(t, errors.As(err, &badInput))
}

func TestTransactionRollsBack(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	g := NewGene("TP53", "ATG")
	err := db.Transaction(ctx, func(tx *DB) error {
		if err := g.Save(ctx, tx); err != nil {
			return err
		}

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = LoadGene(ctx, db, "TP53")
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestCloseTransactionHandle(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	err := db.Transaction(context.Background(), func(tx *DB) error {
		return tx.Close()
	})
	assert.ErrorIs(t, err, ErrNestedClose)
}
