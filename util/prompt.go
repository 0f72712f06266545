package util

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompt reads operator input from the controlling terminal. It
// implements model.PasswordPrompt and model.ConfirmPrompt.
type TerminalPrompt struct{}

// ReadPassword reads a password from stdin without echoing input.
func (TerminalPrompt) ReadPassword(prompt string) (string, error) {

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}

	return string(password), nil
}

// Confirm asks a y/N question and returns true only on a 'y' or 'yes' answer.
func (TerminalPrompt) Confirm(question string) (bool, error) {

	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "y" || answer == "yes", nil
}
