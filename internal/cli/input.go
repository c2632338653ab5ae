package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// readDescription resolves the search brief from positional args, a file,
// or stdin, in that order.
func readDescription(args []string, file string, stdin io.Reader) (string, error) {
	var desc string
	switch {
	case len(args) > 0:
		desc = strings.Join(args, " ")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read description: %w", err)
		}
		desc = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read description: %w", err)
		}
		desc = string(data)
	}

	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", errors.New("a search description is required (argument, --file, or stdin)")
	}
	return desc, nil
}
