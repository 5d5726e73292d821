// Package confirm gates overwriting an existing output file behind an
// interactive yes/no prompt, skipped entirely when stdin is not a TTY.
package confirm

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Overwrite asks whether to overwrite an existing file at path. In a
// non-interactive run it auto-denies, so scripted pipelines never hang
// waiting on input and never silently clobber prior output.
func Overwrite(path string) bool {
	if !IsInteractive() {
		return false
	}

	fmt.Fprintf(os.Stderr, "%s already exists. Overwrite? [y/N]: ", path)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.TrimSpace(strings.ToLower(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
