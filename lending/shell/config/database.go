package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/AntonStoeckl/library-lending-go/relstore/sqlengine"
)

const (
	defaultMaxConnIdleTime   = 5 * time.Minute
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = 5 * time.Second
)

// Store is an engine together with the connection pool it runs on.
type Store struct {
	sqlengine.Engine
	closeFn func() error
}

// Close releases the connection pool.
func (s Store) Close() error {
	if s.closeFn == nil {
		return nil
	}

	return s.closeFn()
}

// OpenStore connects with the configured adapter and builds the engine for the configured dialect and tables.
// The options are applied after the ones derived from cfg.
func OpenStore(ctx context.Context, cfg DatabaseConfig, options ...sqlengine.Option) (Store, error) {
	dialect, err := sqlengine.ParseDialect(cfg.Dialect)
	if err != nil {
		return Store{}, err
	}

	engineOptions := append([]sqlengine.Option{
		sqlengine.WithDialect(dialect),
		sqlengine.WithTableNames(cfg.Tables.Books, cfg.Tables.Borrowers, cfg.Tables.Loans),
	}, options...)

	switch cfg.Adapter {
	case AdapterPGX:
		if dialect != sqlengine.DialectPostgres {
			return Store{}, ErrPGXNeedsPostgres
		}

		pool, err := OpenPGXPool(ctx, cfg)
		if err != nil {
			return Store{}, err
		}

		engine, err := sqlengine.NewEngineFromPGXPool(pool, engineOptions...)
		if err != nil {
			pool.Close()
			return Store{}, err
		}

		return Store{Engine: engine, closeFn: func() error { pool.Close(); return nil }}, nil

	case AdapterSQLX:
		db, err := OpenSQLX(ctx, cfg)
		if err != nil {
			return Store{}, err
		}

		engine, err := sqlengine.NewEngineFromSQLX(db, engineOptions...)
		if err != nil {
			return Store{}, errors.Join(err, db.Close())
		}

		return Store{Engine: engine, closeFn: db.Close}, nil

	case AdapterSQL:
		db, err := OpenSQLDB(ctx, cfg)
		if err != nil {
			return Store{}, err
		}

		engine, err := sqlengine.NewEngineFromSQLDB(db, engineOptions...)
		if err != nil {
			return Store{}, errors.Join(err, db.Close())
		}

		return Store{Engine: engine, closeFn: db.Close}, nil

	default:
		return Store{}, ErrUnknownAdapter
	}
}

// OpenPGXPool creates and pings a pgx connection pool.
func OpenPGXPool(ctx context.Context, cfg DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns) //nolint:gosec // small configured value
	}

	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	poolConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// OpenSQLDB opens and pings a database/sql pool with the driver of the configured dialect.
func OpenSQLDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	driver, dsn, err := driverAndDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	configurePool(db, cfg, driver)

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return db, nil
}

// OpenSQLX opens and pings a sqlx pool with the driver of the configured dialect.
func OpenSQLX(ctx context.Context, cfg DatabaseConfig) (*sqlx.DB, error) {
	driver, dsn, err := driverAndDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	configurePool(db.DB, cfg, driver)

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return db, nil
}

// DriverName returns the database/sql driver registered for dialect.
func DriverName(dialect sqlengine.Dialect) string {
	switch dialect {
	case sqlengine.DialectMySQL:
		return "mysql"
	case sqlengine.DialectSQLite:
		return "sqlite"
	default:
		return "postgres"
	}
}

func driverAndDSN(cfg DatabaseConfig) (string, string, error) {
	dialect, err := sqlengine.ParseDialect(cfg.Dialect)
	if err != nil {
		return "", "", err
	}

	dsn := cfg.DSN

	if dialect == sqlengine.DialectMySQL {
		if dsn, err = mysqlDSN(dsn); err != nil {
			return "", "", err
		}
	}

	if dialect == sqlengine.DialectSQLite {
		dsn = ExpandHome(dsn)
	}

	return DriverName(dialect), dsn, nil
}

// mysqlDSN forces the settings the engine relies on: DATETIME columns scanned into time.Time in UTC.
func mysqlDSN(dsn string) (string, error) {
	mysqlConfig, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}

	mysqlConfig.ParseTime = true
	mysqlConfig.Loc = time.UTC

	return mysqlConfig.FormatDSN(), nil
}

func configurePool(db *sql.DB, cfg DatabaseConfig, driver string) {
	if driver == "sqlite" {
		// sqlite allows one writer at a time.
		db.SetMaxOpenConns(1)
		return
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
}
