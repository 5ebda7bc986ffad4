package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	debugColor = color.New(color.FgCyan)
)

// successf prints a "✓ ..." status line.
func successf(w io.Writer, format string, a ...any) {
	okColor.Fprintf(w, "✓ "+format+"\n", a...)
}

// warnf prints a "⚠ Warning: ..." line to stderr.
func warnf(format string, a ...any) {
	warnColor.Fprintf(os.Stderr, "⚠ Warning: "+format+"\n", a...)
}

// warnAll surfaces non-fatal problems returned by an operation.
func warnAll(warnings []string) {
	for _, w := range warnings {
		warnf("%s", w)
	}
}

// debugf prints diagnostics to stderr when --debug is set.
func debugf(format string, a ...any) {
	if !debug {
		return
	}
	debugColor.Fprintf(os.Stderr, "[debug] %s\n", fmt.Sprintf(format, a...))
}
