// Package loancount implements the Loan Count Of lookup of the borrower registry.
package loancount
