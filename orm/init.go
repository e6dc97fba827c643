package orm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"primer-registry/config"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNestedClose = errors.New("cannot close a transaction-bound handle")

// DB is the explicit storage handle passed into every entity operation. Write
// transactions started through the same handle are serialized.
type DB struct {
	dbGorm   *gorm.DB
	writeMu  *sync.Mutex
	inTx     bool
	location string
}

// InitDB opens the configured store and makes sure both tables exist.
func InitDB(cfg config.DatabaseConfig) (*DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Initialize(); err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

// Open connects to the store without touching the schema. Any failure to
// create or reach the store is reported as a StorageUnavailableError.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	var (
		dialector gorm.Dialector
		location  string
	)

	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host='%s' port='%d' user='%s' password='%s' dbname='%s' sslmode='%s'",
			cfg.Host,
			cfg.Port,
			cfg.Username,
			cfg.Password,
			cfg.Database,
			cfg.SSLMode,
		)

		dsnRedacted := dsn
		if cfg.Password != "" {
			dsnRedacted = strings.ReplaceAll(dsn, cfg.Password, "*****")
		}
		log.Debug().
			Msgf("Connecting to postgres using the following information: %s", dsnRedacted)

		dialector = postgres.Open(dsn)
		location = fmt.Sprintf("postgres://%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	case "sqlite", "":
		location = cfg.Path
		//nolint:mnd // directory permissions
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, &StorageUnavailableError{Location: location, Inner: err}
		}

		log.Debug().Str("path", cfg.Path).Msg("Opening sqlite store")

		dialector = sqlite.Open(cfg.Path + "?_foreign_keys=1&_busy_timeout=5000")
	default:
		return nil, &BadInputError{Reason: "unsupported database driver " + cfg.Driver}
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.LogQueries {
		log.Debug().Msg("SQL statement logging enabled")
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	dbGorm, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, &StorageUnavailableError{Location: location, Inner: err}
	}

	sqlDB, err := dbGorm.DB()
	if err != nil {
		return nil, &StorageUnavailableError{Location: location, Inner: err}
	}

	// sqlite pragmas are per connection and the file has no writer locking
	// of its own, so the pool is pinned to one connection.
	if cfg.Driver != "postgres" {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()

		return nil, &StorageUnavailableError{Location: location, Inner: err}
	}

	log.Debug().Str("location", location).Msg("Successfully connected to the database")

	return &DB{
		dbGorm:   dbGorm,
		writeMu:  &sync.Mutex{},
		location: location,
	}, nil
}

// Initialize creates the genes and primers tables if they do not exist yet.
// It is safe to call on an already initialized store.
func (db *DB) Initialize() error {
	if err := db.dbGorm.AutoMigrate(&GeneModel{}, &PrimerModel{}); err != nil {
		return &DatabaseError{Inner: fmt.Errorf("migrate schema: %w", err)}
	}

	log.Debug().Str("location", db.location).Msg("Database schema initialized")

	return nil
}

// Location describes where the store lives (file path or postgres address).
func (db *DB) Location() string {
	return db.location
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	if db.inTx {
		return ErrNestedClose
	}

	sqlDB, err := db.dbGorm.DB()
	if err != nil {
		return &DatabaseError{Inner: fmt.Errorf("get database instance: %w", err)}
	}

	if err := sqlDB.Close(); err != nil {
		return &DatabaseError{Inner: fmt.Errorf("close database connection: %w", err)}
	}

	return nil
}

// Transaction runs fn inside one database transaction. The handle passed to fn
// is bound to that transaction; entity operations given this handle join it
// instead of committing on their own. Calls on a handle that is already
// transaction-bound nest through a savepoint.
func (db *DB) Transaction(ctx context.Context, fn func(tx *DB) error) error {
	if !db.inTx {
		db.writeMu.Lock()
		defer db.writeMu.Unlock()
	}

	//nolint:wrapcheck // callers classify the error
	return db.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(db.UseTransaction(tx))
	})
}

// UseTransaction returns a handle bound to an open GORM transaction.
func (db *DB) UseTransaction(tx *gorm.DB) *DB {
	return &DB{
		dbGorm:   tx,
		writeMu:  db.writeMu,
		inTx:     true,
		location: db.location,
	}
}

func (db *DB) conn(ctx context.Context) *gorm.DB {
	return db.dbGorm.WithContext(ctx)
}
