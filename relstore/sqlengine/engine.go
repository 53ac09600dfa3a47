package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-lending-go/relstore"
	"github.com/AntonStoeckl/library-lending-go/relstore/sqlengine/internal/adapters"
)

const (
	defaultBooksTableName     = "books"
	defaultBorrowersTableName = "users"
	defaultLoansTableName     = "issuedbooks"

	colID              = "id"
	colTitle           = "title"
	colAuthor          = "author"
	colGenre           = "genre"
	colAvailable       = "available"
	colUserID          = "user_id"
	colName            = "name"
	colEmail           = "email"
	colIssuedBookCount = "issued_book_count"
	colSerialNo        = "sno"
	colBookID          = "book_id"
	colIssuedBookTitle = "issued_book_title"
	colIssueDate       = "issue_date"
	colDueDate         = "due_date"

	aliasLoans     = "l"
	aliasBorrowers = "u"

	logMsgBuildQueryFailed    = "failed to build sql statement"
	logMsgDBQueryFailed       = "database query execution failed"
	logMsgDBExecFailed        = "database statement execution failed"
	logMsgRowsAffectedFailed  = "failed to get rows affected count"
	logMsgCloseRowsFailed     = "failed to close database rows"
	logMsgScanRowFailed       = "failed to scan database row"
	logMsgIterateRowsFailed   = "failed to iterate database rows"
	logMsgBeginTxFailed       = "failed to begin transaction"
	logMsgCommitTxFailed      = "failed to commit transaction"
	logMsgRollbackTxFailed    = "failed to roll back transaction"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logMsgDuplicateKey        = "duplicate key on insert"
	logMsgUnitOfWorkCommitted = "unit of work committed"
	logMsgUnitOfWorkAborted   = "unit of work rolled back"
	logMsgQueryCompleted      = "query completed"
	logMsgSchemaEnsured       = "schema ensured"
	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "relstore operation: "

	logAttrError        = "error"
	logAttrQuery        = "query"
	logAttrAction       = "action"
	logAttrDurationMS   = "duration_ms"
	logAttrRowsAffected = "rows_affected"
	logAttrRowCount     = "row_count"
	logAttrDialect      = "dialect"
	logAttrReason       = "reason"
)

// TableNames holds the names of the three tables the engine works on.
type TableNames struct {
	Books     string
	Borrowers string
	Loans     string
}

// Engine is the SQL implementation of the relational store.
// It leverages a database adapter and supports customizable dialect, table names, and observability.
type Engine struct {
	db               adapters.DBAdapter
	dialect          Dialect
	tables           TableNames
	logger           relstore.Logger
	contextualLogger relstore.ContextualLogger
	metricsCollector relstore.MetricsCollector
	tracingCollector relstore.TracingCollector
}

// NewEngineFromPGXPool creates a new Engine using a pgx Pool with optional configuration.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, relstore.ErrNilDatabaseConnection
	}

	e, err := newEngine(adapters.NewPGXAdapter(db), options...)
	if err != nil {
		return Engine{}, err
	}

	if e.dialect != DialectPostgres {
		return Engine{}, relstore.ErrUnsupportedDialect
	}

	return e, nil
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, relstore.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options...)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, relstore.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options...)
}

func newEngine(db adapters.DBAdapter, options ...Option) (Engine, error) {
	e := Engine{
		db:      db,
		dialect: DialectPostgres,
		tables: TableNames{
			Books:     defaultBooksTableName,
			Borrowers: defaultBorrowersTableName,
			Loans:     defaultLoansTableName,
		},
	}

	for _, option := range options {
		if err := option(&e); err != nil {
			return Engine{}, err
		}
	}

	return e, nil
}

// Dialect returns the SQL dialect the engine was configured with.
func (e Engine) Dialect() Dialect {
	return e.dialect
}

// Tables returns the configured table names.
func (e Engine) Tables() TableNames {
	return e.tables
}

// WithinUnitOfWork runs fn inside one database transaction.
//
// The transaction is committed when fn returns nil and rolled back otherwise; the error of fn is
// returned unchanged. Failures to begin or commit are joined with relstore.ErrStoreUnavailable.
func (e Engine) WithinUnitOfWork(ctx context.Context, fn relstore.UnitOfWorkFunc) (err error) {
	start := time.Now()
	ctx, tracer := e.startUnitOfWorkTracing(ctx)
	metrics := e.startUnitOfWorkMetrics(ctx)

	defer func() {
		duration := time.Since(start)

		switch {
		case err == nil:
			e.logOperation(ctx, logMsgUnitOfWorkCommitted, logAttrDurationMS, e.toMilliseconds(duration))
			tracer.finishSuccess(duration)
			metrics.recordSuccess(duration)

		case errors.Is(err, relstore.ErrConcurrencyConflict):
			tracer.finishError(errorTypeConcurrencyConflict, duration)
			metrics.recordConflict(duration)

		case errors.Is(err, relstore.ErrStoreUnavailable):
			tracer.finishError(errorTypeDatabase, duration)
			metrics.recordError(errorTypeDatabase, duration)

		default:
			e.logOperation(ctx, logMsgUnitOfWorkAborted, logAttrReason, err.Error())
			tracer.finishError(errorTypeRejected, duration)
			metrics.recordRejected(duration)
		}
	}()

	tx, beginErr := e.db.BeginTx(ctx)
	if beginErr != nil {
		e.logError(ctx, logMsgBeginTxFailed, beginErr)

		return errors.Join(relstore.ErrStoreUnavailable, relstore.ErrBeginningTxFailed, beginErr)
	}

	defer func() {
		if p := recover(); p != nil {
			e.rollback(ctx, tx)
			panic(p)
		}
	}()

	if fnErr := fn(ctx, unitOfWork{engine: e, tx: tx}); fnErr != nil {
		e.rollback(ctx, tx)

		return fnErr
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		e.logError(ctx, logMsgCommitTxFailed, commitErr)

		return errors.Join(relstore.ErrStoreUnavailable, relstore.ErrCommittingTxFailed, commitErr)
	}

	return nil
}

// rollback aborts the transaction and logs, but does not return, any failure.
// A rollback on a context that is already done still releases the connection.
func (e Engine) rollback(ctx context.Context, tx adapters.DBTx) {
	if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
		e.logWarn(ctx, logMsgRollbackTxFailed, logAttrError, rollbackErr.Error())
	}
}
