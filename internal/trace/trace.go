// Package trace provides the leveled diagnostic logger shared by the
// reconstruction packages.
//
// Level 0 is silent, 1 logs per-run progress, 2 adds numeric diagnostics.
// The sink defaults to log.Printf and may be replaced or muted, so library
// consumers and tests stay in control of output.
package trace

import (
	"log"
	"sync/atomic"
)

// Logf is the package-level diagnostic sink. It defaults to log.Printf but
// may be replaced via SetLogger.
var Logf func(format string, v ...any) = log.Printf

var level atomic.Int32

// SetLogger replaces the sink. Passing nil installs a no-op sink.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}

// SetLevel sets the verbosity level (0 quiet, 1 normal, 2 debug).
func SetLevel(v int) {
	level.Store(int32(v))
}

// Level returns the current verbosity level.
func Level() int {
	return int(level.Load())
}

// Infof logs at verbosity >= 1.
func Infof(format string, v ...any) {
	if Level() >= 1 {
		Logf(format, v...)
	}
}

// Debugf logs at verbosity >= 2.
func Debugf(format string, v ...any) {
	if Level() >= 2 {
		Logf(format, v...)
	}
}
