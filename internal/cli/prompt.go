package cli

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// prompter reads the operator's answers line by line. It re-asks until an answer is usable.
type prompter struct {
	in    *bufio.Reader
	print printer
}

func newPrompter(in io.Reader, p printer) prompter {
	return prompter{in: bufio.NewReader(in), print: p}
}

// text asks question and returns the trimmed answer. It returns io.EOF when the input is exhausted.
func (p prompter) text(question string) (string, error) {
	_, _ = io.WriteString(p.print.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// number asks question until the answer is a whole number.
func (p prompter) number(question string) (int64, error) {
	for {
		answer, err := p.text(question)
		if err != nil {
			return 0, err
		}

		value, parseErr := strconv.ParseInt(answer, 10, 64)
		if parseErr == nil {
			return value, nil
		}

		p.print.warn("Please enter a valid number!")
	}
}

// email asks question until the answer is a well-formed email address.
func (p prompter) email(question string) (string, error) {
	for {
		answer, err := p.text(question)
		if err != nil {
			return "", err
		}

		if core.ValidateEmail(answer) == nil {
			return answer, nil
		}

		p.print.warn("Please enter a valid email address!")
	}
}
