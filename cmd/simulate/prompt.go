package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter reads answers line by line, re-asking until the input is valid.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// positiveInt asks question until a whole number > 0 is entered.
func (p *prompter) positiveInt(question string) (int, error) {
	for {
		answer, err := p.line(question)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n <= 0 {
			fmt.Fprintln(p.out, "Please enter a whole number greater than zero.")
			continue
		}
		return n, nil
	}
}

// labels asks for count item labels; blank answers become item-N.
func (p *prompter) labels(count int) ([]string, error) {
	out := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		answer, err := p.line(fmt.Sprintf("Enter item %d: ", i))
		if err != nil {
			return nil, err
		}
		if answer == "" {
			answer = fmt.Sprintf("item-%d", i)
		}
		out = append(out, answer)
	}
	return out, nil
}

func (p *prompter) line(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func isEOF(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF)
}
