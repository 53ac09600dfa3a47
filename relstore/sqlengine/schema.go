package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

const actionEnsureSchema = "ensure_schema"

// EnsureSchema creates the borrowers, books, and loans tables if they do not exist yet.
// Existing tables are left untouched.
func (e Engine) EnsureSchema(ctx context.Context) error {
	for _, statement := range e.schemaStatements() {
		start := time.Now()
		_, execErr := e.db.Exec(ctx, statement)
		e.logQueryWithDuration(ctx, statement, actionEnsureSchema, time.Since(start))

		if execErr != nil {
			e.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, statement)
			e.recordErrorMetrics(ctx, actionEnsureSchema, errorTypeDatabaseExec)

			return errors.Join(relstore.ErrStoreUnavailable, execErr)
		}
	}

	e.logOperation(ctx, logMsgSchemaEnsured, logAttrDialect, string(e.dialect))

	return nil
}

func (e Engine) schemaStatements() []string {
	users := e.dialect.quote(e.tables.Borrowers)
	books := e.dialect.quote(e.tables.Books)
	loans := e.dialect.quote(e.tables.Loans)

	var serialColumn, timestampType, tableSuffix string
	switch e.dialect {
	case DialectMySQL:
		serialColumn = "sno BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY"
		timestampType = "DATETIME(6)"
		tableSuffix = " ENGINE=InnoDB"
	case DialectSQLite:
		serialColumn = "sno INTEGER PRIMARY KEY AUTOINCREMENT"
		timestampType = "TIMESTAMP"
	default:
		serialColumn = "sno BIGSERIAL PRIMARY KEY"
		timestampType = "TIMESTAMPTZ"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGINT NOT NULL PRIMARY KEY,
	name VARCHAR(50) NOT NULL,
	email VARCHAR(50) NOT NULL UNIQUE,
	issued_book_count INTEGER NOT NULL DEFAULT 0,
	CHECK (issued_book_count >= 0)
)%s`, users, tableSuffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGINT NOT NULL PRIMARY KEY,
	title VARCHAR(50) NOT NULL,
	author VARCHAR(50) NOT NULL,
	genre VARCHAR(50) NOT NULL,
	available BOOLEAN NOT NULL DEFAULT TRUE,
	user_id BIGINT NULL,
	FOREIGN KEY (user_id) REFERENCES %s (id),
	CHECK ((available = TRUE AND user_id IS NULL) OR (available = FALSE AND user_id IS NOT NULL))
)%s`, books, users, tableSuffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s,
	book_id BIGINT NOT NULL UNIQUE,
	issued_book_title VARCHAR(50) NOT NULL,
	user_id BIGINT NOT NULL,
	issue_date %s NOT NULL,
	due_date %s NOT NULL,
	FOREIGN KEY (book_id) REFERENCES %s (id),
	FOREIGN KEY (user_id) REFERENCES %s (id)
)%s`, loans, serialColumn, timestampType, timestampType, books, users, tableSuffix),
	}
}
