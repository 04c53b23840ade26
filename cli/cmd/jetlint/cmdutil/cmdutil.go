// Package cmdutil provides shared helpers for jetlint commands.
package cmdutil

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Fatal prints an error message to stderr and exits the process.
func Fatal(args ...any) {
	fmt.Fprintln(os.Stderr, color.RedString("error:"), fmt.Sprint(args...))
	os.Exit(1)
}

// Fatalf is Fatal with formatting.
func Fatalf(format string, args ...any) {
	Fatal(fmt.Sprintf(format, args...))
}
