package vault

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	ErrEmptyPassphrase    = errors.New("passphrase must not be empty")
	ErrPassphraseMismatch = errors.New("passphrases do not match")
)

// PassphraseReader obtains a passphrase from the operator.
type PassphraseReader interface {
	ReadPassphrase(prompt string) ([]byte, error)
}

// TerminalPrompt reads without echo when In is a terminal and falls back to a
// plain line read otherwise.
type TerminalPrompt struct {
	In  *os.File
	Out io.Writer

	lines *bufio.Reader
}

// NewTerminalPrompt prompts on stderr and reads stdin.
func NewTerminalPrompt() *TerminalPrompt {
	return &TerminalPrompt{In: os.Stdin, Out: os.Stderr}
}

// ReadPassphrase implements PassphraseReader.
func (p *TerminalPrompt) ReadPassphrase(prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(p.Out, prompt); err != nil {
		return nil, err
	}
	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(p.Out)
		if err != nil {
			return nil, fmt.Errorf("failed to read passphrase: %w", err)
		}
		return pw, nil
	}
	if p.lines == nil {
		p.lines = bufio.NewReader(p.In)
	}
	line, err := p.lines.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

// WithPassphrase reads a passphrase, hands it to fn and zeroes it afterwards.
// The passphrase must not be retained by fn.
func WithPassphrase(r PassphraseReader, prompt string, fn func(passphrase []byte) error) error {
	pw, err := r.ReadPassphrase(prompt)
	defer zero(pw)
	if err != nil {
		return err
	}
	if len(pw) == 0 {
		return ErrEmptyPassphrase
	}
	return fn(pw)
}

// WithConfirmedPassphrase is WithPassphrase with a second confirmation read.
func WithConfirmedPassphrase(r PassphraseReader, prompt, confirm string, fn func(passphrase []byte) error) error {
	return WithPassphrase(r, prompt, func(pw []byte) error {
		again, err := r.ReadPassphrase(confirm)
		defer zero(again)
		if err != nil {
			return err
		}
		if !bytes.Equal(pw, again) {
			return ErrPassphraseMismatch
		}
		return fn(pw)
	})
}
