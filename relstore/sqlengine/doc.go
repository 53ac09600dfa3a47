// Package sqlengine provides the relational implementation of the relstore boundary
// for PostgreSQL, MySQL, and SQLite.
//
// All statements are built with goqu in prepared mode. Writes that move a book or a borrower
// from one state to the next carry the expected prior state in their WHERE clause; a statement
// that affects no rows yields relstore.ErrConcurrencyConflict and rolls the unit of work back.
//
// The engine supports three database adapter types:
//   - PGX adapter (github.com/jackc/pgx/v5/pgxpool), PostgreSQL only
//   - SQL adapter (database/sql) with lib/pq, go-sql-driver/mysql, or modernc.org/sqlite
//   - SQLX adapter (github.com/jmoiron/sqlx) with the same drivers
//
// Basic usage:
//
//	engine, err := sqlengine.NewEngineFromPGXPool(pool)
//	if err != nil {
//		return err
//	}
//
//	err = engine.WithinUnitOfWork(ctx, func(ctx context.Context, uow relstore.UnitOfWork) error {
//		return uow.MarkBookLent(ctx, bookID, borrowerID)
//	})
//
// With a different dialect and custom table names:
//
//	engine, err := sqlengine.NewEngineFromSQLDB(db,
//		sqlengine.WithDialect(sqlengine.DialectMySQL),
//		sqlengine.WithTableNames("books", "users", "issuedbooks"),
//		sqlengine.WithLogger(logger),
//	)
//
// MySQL connections must be opened with parseTime=true so that DATETIME columns scan into time.Time.
package sqlengine
