package monitoring

import "log"

// Logf is the package-level diagnostic logger for the detection pipeline.
// It defaults to log.Printf but may be replaced with SetLogger; the batch
// driver uses it for per-unit progress and the DSP layer for filter
// instability warnings. Tests can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
