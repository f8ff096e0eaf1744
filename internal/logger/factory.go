package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// Plain creates a logger without timestamps that respects the global log level.
// The CLI uses it for its prompt output.
func Plain(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
