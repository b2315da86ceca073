// Package logging builds the logr.Logger shared by every component.
package logging

import (
	"io"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// New returns a logger writing to w. Messages logged with V(n) for n greater
// than verbosity are dropped.
func New(w io.Writer, verbosity int) logr.Logger {
	stdr.SetVerbosity(verbosity)
	return stdr.New(log.New(w, "", log.LstdFlags|log.Lmicroseconds)).WithName("bspwalk")
}

// NewFile returns a logger appending to the file at path. The terminal viewer
// owns stderr, so it logs here instead. The returned close function releases
// the file.
func NewFile(path string, verbosity int) (logr.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return logr.Discard(), nil, err
	}
	return New(f, verbosity), f.Close, nil
}
