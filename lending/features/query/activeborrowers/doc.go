// Package activeborrowers implements the Active Borrowers report: everyone holding at least one book.
package activeborrowers
