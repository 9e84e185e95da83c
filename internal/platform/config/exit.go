package config

import (
	"fmt"
	"io"
	"os"
)

// exit is swapped in tests that cannot tolerate a real os.Exit.
var exit = os.Exit

// Exitf writes a formatted error message to stderr and exits with code 1.
// CLI entry points use it for unrecoverable setup failures.
func Exitf(format string, args ...any) {
	fprintExit(os.Stderr, format, args...)
	exit(1)
}

func fprintExit(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
