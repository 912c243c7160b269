// Package passwd implements the interactive password hashing helper used to
// seed user rows by hand.
package passwd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var ErrMismatch = errors.New("passwords do not match")

// Hasher is the subset of auth.Hasher used here.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// GetPassword prints prompt to w and reads a password without echo.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// Run asks for a password twice and writes its hash to out. Prompts go to w.
func Run(w, out io.Writer, h Hasher) error {
	first, err := GetPassword(w, "Enter password: ")
	if err != nil {
		return err
	}
	second, err := GetPassword(w, "Repeat password: ")
	if err != nil {
		return err
	}
	if !bytes.Equal(first, second) {
		return ErrMismatch
	}

	hash, err := h.Hash(string(first))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, hash)
	return err
}
