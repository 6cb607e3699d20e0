package baserow

import (
	"io"
	"log"
)

// Logger is the sink every layer of this package writes through. It mirrors
// the density of the upstream Python client's per-layer logger.debug /
// logger.warning / logger.error calls, rendered with the standard library's
// log package the way the teacher repo logs everywhere else in its tree.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// stdLogger adapts *log.Logger to Logger, prefixing each line by level.
type stdLogger struct {
	l *log.Logger
}

// NewLogger wraps dst (e.g. os.Stderr) in a Logger using the standard
// library's log package.
func NewLogger(dst io.Writer) Logger {
	return &stdLogger{l: log.New(dst, "", log.LstdFlags)}
}

func (s *stdLogger) Debugf(format string, args ...any) { s.l.Printf("DEBUG "+format, args...) }
func (s *stdLogger) Warnf(format string, args ...any)  { s.l.Printf("WARN "+format, args...) }
func (s *stdLogger) Errorf(format string, args ...any) { s.l.Printf("ERROR "+format, args...) }

// discardLogger is installed when no logger is configured, so a
// zero-configuration Client never panics on a nil log sink.
type discardLogger struct{}

func (discardLogger) Debugf(string, ...any) {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Errorf(string, ...any) {}
