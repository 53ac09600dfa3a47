// Package searchbooks implements the Search Books report.
//
// The term matches as a case-insensitive substring of the title, the author, the genre, or any of them.
package searchbooks
