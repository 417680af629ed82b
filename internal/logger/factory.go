package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Setup points the global charm log at stderr and picks its level.
// Debug mode also turns on timestamps and caller info; otherwise only
// warnings and errors are shown.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetReportTimestamp(debug)
	log.SetReportCaller(debug)
}

// Plain creates a stderr logger without timestamps for status output that
// is shown whatever the global level.
func Plain(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.InfoLevel, false, false, log.TextFormatter)
}
