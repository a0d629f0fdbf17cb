// Package diagnostics collects the ambient observability helpers used
// across the scheme and PIR packages: structured logging, noise-budget
// charting, and summary statistics.
package diagnostics

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Component names a subsystem for log-field tagging.
type Component string

const (
	ComponentRing    Component = "ring"
	ComponentRLWE    Component = "rlwe"
	ComponentBFV     Component = "bfv"
	ComponentCuckoo  Component = "cuckoo"
	ComponentKeyword Component = "keyword"
)

// NewLogger builds a zerolog.Logger writing to w (os.Stderr if nil),
// tagged with component, at the given level.
func NewLogger(w io.Writer, component Component, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", string(component)).
		Logger()
}

// Default is a process-wide logger at info level, for call sites that
// don't carry their own logger through a constructor.
var Default = NewLogger(os.Stderr, "homomorphic-pir", zerolog.InfoLevel)
