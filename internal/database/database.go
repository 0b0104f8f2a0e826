package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects and tunes the backing database.
type Options struct {
	// DatabaseURL selects PostgreSQL when set.
	DatabaseURL string
	// SQLitePath is used when DatabaseURL is empty.
	SQLitePath string
}

// New creates a GORM database connection.
// When DatabaseURL is provided PostgreSQL is used, otherwise SQLite is used.
func New(opts Options, log *zap.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	if opts.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(opts.DatabaseURL), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		logBackend(db, opts, log)
		return db, nil
	}

	db, err := OpenSQLite(SQLiteDSN(opts.SQLitePath), gormConfig)
	if err != nil {
		return nil, err
	}
	logBackend(db, opts, log)
	return db, nil
}

// SQLiteDSN appends the pragmas the store relies on to a sqlite file path or URI.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000"
}

// OpenSQLite opens a sqlite database limited to one connection. The dispatch
// loop and request handlers then queue on the pool instead of racing for the
// file lock.
func OpenSQLite(dsn string, gormConfig *gorm.Config) (*gorm.DB, error) {
	if gormConfig == nil {
		gormConfig = &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func logBackend(db *gorm.DB, opts Options, log *zap.Logger) {
	dialector := db.Dialector.Name()
	switch strings.ToLower(dialector) {
	case "postgres":
		log.Info("database_connected", zap.String("backend", "postgres"))
	case "sqlite":
		log.Info("database_connected", zap.String("backend", "sqlite"), zap.String("path", opts.SQLitePath))
	default:
		log.Info("database_connected", zap.String("backend", dialector))
	}
}
