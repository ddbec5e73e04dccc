// Package console holds the interactive side of pocketledger: line prompts,
// hidden password entry and the main menu loop.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from in after printing prompts to out.
type Prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, r: bufio.NewReader(in), out: out}
}

// Out returns the writer prompts are printed to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Line prints prompt and returns the next input line without its line ending.
// It returns io.EOF once the input is exhausted.
func (p *Prompter) Line(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	s, err := p.r.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// Secret reads a password. Echo is disabled when the input is a terminal;
// otherwise it behaves like Line.
func (p *Prompter) Secret(prompt string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(p.out, "%s: ", prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}
	return p.Line(prompt)
}
