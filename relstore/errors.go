package relstore

import "errors"

var (
	// ErrConcurrencyConflict is returned when a compare-and-set write affected no rows
	// because the row was changed by someone else since it was read.
	ErrConcurrencyConflict = errors.New("concurrency conflict, no rows were affected")

	// ErrStoreUnavailable is joined onto every failure that originates in the database driver or transport.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrRecordNotFound is returned by single-row lookups that match nothing.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert violates a primary key or unique constraint.
	ErrDuplicateKey = errors.New("duplicate key")

	ErrNilDatabaseConnection  = errors.New("database connection must not be nil")
	ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
	ErrUnsupportedDialect     = errors.New("unsupported sql dialect")
	ErrBuildingQueryFailed    = errors.New("building query failed")
	ErrScanningDBRowFailed    = errors.New("scanning db row failed")
	ErrBeginningTxFailed      = errors.New("beginning transaction failed")
	ErrCommittingTxFailed     = errors.New("committing transaction failed")
)
