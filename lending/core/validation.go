package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// ValidateEmail rejects addresses that do not look like local@domain.tld or do not fit the
// borrower column.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return &Rejection{Kind: ErrInvalidEmail, Email: email}
	}

	if utf8.RuneCountInString(email) > MaxTextLength {
		return &Rejection{
			Kind:   ErrInvalidEmail,
			Email:  email,
			Detail: fmt.Sprintf("email must not be longer than %d characters", MaxTextLength),
		}
	}

	return nil
}

// ValidateBookData checks that title, author, and genre are present and fit the catalog columns.
func ValidateBookData(bookID BookID, title, author, genre string) error {
	fields := []struct {
		name  string
		value string
	}{
		{name: "title", value: title},
		{name: "author", value: author},
		{name: "genre", value: genre},
	}

	for _, field := range fields {
		if detail := checkText(field.name, field.value); detail != "" {
			return &Rejection{Kind: ErrInvalidBookData, BookID: bookID, Detail: detail}
		}
	}

	return nil
}

// ValidateBorrowerData checks the name and the email of a new borrower.
func ValidateBorrowerData(borrowerID BorrowerID, name, email string) error {
	if detail := checkText("name", name); detail != "" {
		return &Rejection{Kind: ErrInvalidBorrowerData, BorrowerID: borrowerID, Detail: detail}
	}

	return ValidateEmail(email)
}

func checkText(name, value string) string {
	if strings.TrimSpace(value) == "" {
		return name + " must not be empty"
	}

	if utf8.RuneCountInString(value) > MaxTextLength {
		return fmt.Sprintf("%s must not be longer than %d characters", name, MaxTextLength)
	}

	return ""
}
