// Package obs wires the process-wide structured logger. Only the CLI,
// runconfig (at debug level, when no .env file is loaded) and the I/O
// collaborators (edgarfetch, filingcache, batchdriver) log; the core
// computation packages return values and errors instead.
package obs

import (
	"os"

	"github.com/phuslu/log"
)

// Configure sets the global logger's level and console writer from a
// --log-level flag value (debug|info|warn|error, default info on
// anything unrecognized).
func Configure(level string) {
	log.DefaultLogger = log.Logger{
		Level:  parseLevel(level),
		Writer: &log.ConsoleWriter{Writer: os.Stderr},
	}
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
