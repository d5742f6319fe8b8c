package diag

import (
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// LogrusSink is the default Sink used by cmd/circuitlift: structured
// logging via logrus, with colorized output only when the destination is
// an interactive terminal.
type LogrusSink struct {
	logger *logrus.Logger
}

// NewLogrusSink constructs a LogrusSink writing to w. Colorized formatting
// is enabled only when w has an Fd method (as *os.File does) and that
// descriptor refers to a terminal; otherwise
// output is plain text, suitable for log files and CI.
func NewLogrusSink(w io.Writer, level logrus.Level) *LogrusSink {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)

	colored := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		colored = term.IsTerminal(int(f.Fd()))
	}
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: !colored,
		FullTimestamp: true,
	})

	return &LogrusSink{logger: logger}
}

func (s *LogrusSink) Debug(msg string, fields map[string]any) {
	s.logger.WithFields(fields).Debug(msg)
}

func (s *LogrusSink) Info(msg string, fields map[string]any) {
	s.logger.WithFields(fields).Info(msg)
}

func (s *LogrusSink) Warn(msg string, fields map[string]any) {
	s.logger.WithFields(fields).Warn(msg)
}

func (s *LogrusSink) Error(msg string, fields map[string]any) {
	s.logger.WithFields(fields).Error(msg)
}
