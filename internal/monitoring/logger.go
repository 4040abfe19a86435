// Package monitoring holds the process-wide diagnostic logger shared by
// the ingestion and recording paths.
package monitoring

import "log"

// Logf emits one diagnostic line. It defaults to log.Printf and may be
// replaced with SetLogger to redirect or mute output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Prefixed returns a log function that routes through Logf with a fixed
// subsystem prefix, so call sites don't repeat it on every line.
func Prefixed(prefix string) func(format string, v ...interface{}) {
	return func(format string, v ...interface{}) {
		Logf(prefix+": "+format, v...)
	}
}
