// Package cli is the librarian command line: cobra subcommands for every lending operation and report,
// plus the interactive menu the library desk works with.
package cli
