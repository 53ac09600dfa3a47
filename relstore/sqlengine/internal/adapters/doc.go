// Package adapters provide database adapter implementations for the relational store engine.
//
// This package implements the adapter pattern to support multiple Go database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, including transactions, allowing the engine to work
// with any supported connection type.
package adapters
