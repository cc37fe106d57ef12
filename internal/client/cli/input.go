package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
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

// GetPassword prints a password prompt to w and reads a password from the
// terminal without echo.
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

// GetFields reads "name=value" lines until an empty line and returns them as
// a document. Values that parse as JSON (numbers, booleans, quoted strings,
// objects) keep their type, anything else is taken as a plain string.
func GetFields(reader *bufio.Reader, prompt string, w io.Writer) (map[string]any, error) {
	if _, err := fmt.Fprint(w, prompt+" (name=value, empty line to finish)\n"); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return fields, nil
		}
		if err := parseField(fields, line); err != nil {
			return nil, err
		}
		if err != nil {
			return fields, nil
		}
	}
}

// ParseFields turns "name=value" arguments into a document.
func ParseFields(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		if err := parseField(fields, arg); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func parseField(fields map[string]any, s string) error {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}

	raw = strings.TrimSpace(raw)
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		v = raw
	}
	fields[name] = v
	return nil
}
