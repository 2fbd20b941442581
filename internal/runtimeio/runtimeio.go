// Package runtimeio answers questions about the streams the CLI writes to.
package runtimeio

import (
	"io"
	"os"

	"golang.org/x/term"
)

type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether w is backed by a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Colorize reports whether output to w should carry colour escapes.
// NO_COLOR in the environment always disables it.
func Colorize(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return IsTerminal(w)
}
