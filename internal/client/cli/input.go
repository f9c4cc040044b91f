package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// ErrEmptyInput is returned by GetRequiredText when the user enters nothing.
var ErrEmptyInput = errors.New("input required")

// GetSimpleText prints a prompt to w and reads a single line of input from
// reader. Surrounding whitespace is trimmed. If EOF occurs after some input
// was read, the partial line is returned.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetRequiredText is GetSimpleText that rejects an empty answer.
func GetRequiredText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	s, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(prompt), ErrEmptyInput)
	}
	return s, nil
}

// GetPassword prints prompt to w and reads a secret from the terminal
// without echo. A newline is printed after the read to keep the UI tidy.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
