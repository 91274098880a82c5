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
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// Seams for interactive input. Command handlers call these vars instead of
// the concrete helpers so tests can script a whole dialog.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getChoice     = GetChoice
	confirmFn     = Confirm
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
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

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo. A newline is printed after
// the read to keep the UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// Confirm prints a yes/no question to w and reads the answer.
// Only "y" and "yes" (case-insensitive) count as confirmation;
// anything else, including a read error, is a refusal.
func Confirm(reader *bufio.Reader, prompt string, w io.Writer) bool {
	line, err := GetSimpleText(reader, prompt+" [y/N]", w)
	if err != nil {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

// GetChoice prints a prompt followed by a numbered list of options and reads
// the user's selection, returning its index. The answer may be the option
// number or the option text itself. When required is false an empty line
// skips the question and -1 is returned. Invalid answers are re-prompted.
func GetChoice(reader *bufio.Reader, prompt string, options []string, required bool, w io.Writer) (int, error) {
	fmt.Fprintln(w, prompt)
	for i, opt := range options {
		fmt.Fprintf(w, "  %d) %s\n", i+1, opt)
	}
	for {
		line, err := GetSimpleText(reader, "Choose an option", w)
		if err != nil {
			return -1, err
		}
		if line == "" {
			if !required {
				return -1, nil
			}
			fmt.Fprintln(w, "An answer is required.")
			continue
		}
		if n, err := parseIndex(line, len(options)); err == nil {
			return n, nil
		}
		for i, opt := range options {
			if strings.EqualFold(opt, line) {
				return i, nil
			}
		}
		fmt.Fprintln(w, "Please answer with an option number or its exact text.")
	}
}

func parseIndex(s string, n int) (int, error) {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0, err
	}
	if i < 1 || i > n {
		return 0, errors.New("out of range")
	}
	return i - 1, nil
}
