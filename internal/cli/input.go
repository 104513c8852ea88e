package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is swapped in tests so they never touch the terminal.
var readPassword = term.ReadPassword

// getPassword prints prompt to w and reads a password without echo.
func getPassword(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// getNewPassword asks twice and fails when the answers differ.
func getNewPassword(w io.Writer) (string, error) {
	first, err := getPassword(w, "New password")
	if err != nil {
		return "", err
	}
	second, err := getPassword(w, "Repeat password")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPasswordsDiffer
	}
	return first, nil
}
