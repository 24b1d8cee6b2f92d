package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing timestamped lines ("15:04:05.00") to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// raiseVerbosity lowers the logger's threshold to the named level. A level
// that is less verbose than the current one, or unparsable, is ignored so
// that --verbose always wins over the configuration file.
func raiseVerbosity(l *log.Logger, name string) bool {
	level, err := log.ParseLevel(name)
	if err != nil || level >= l.GetLevel() {
		return false
	}
	l.SetLevel(level)
	return true
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Resolved 42 neighbours of a/b (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
