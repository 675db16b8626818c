package ryys

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about failures that never reach the client in full.
type Logger interface {
	LogUnhandledError(err error)
	LogEmitError(err error)
	LogBodyParseError(err error)
	LogListening(addr string)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledError(err error) {
	l.Logger.Printf("ryys: unhandled error in request handler: %+v", err)
}

func (l stdLogger) LogEmitError(err error) {
	l.Logger.Printf("ryys: unhandled error during emit: %+v", err)
}

func (l stdLogger) LogBodyParseError(err error) {
	l.Logger.Printf("ryys: error parsing request body: %+v", err)
}

func (l stdLogger) LogListening(addr string) {
	l.Logger.Printf("ryys: server listening on %s", addr)
}

// NewStdLogger logs through a standard library logger, or the default one when l is nil.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

// TestLogger counts what it logs so tests can assert on it.
type TestLogger struct {
	tb testing.TB

	NumLogUnhandledError int64
	NumLogEmitError      int64
	NumLogBodyParseError int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledError, 1)
	l.tb.Logf("ryys: unhandled error in request handler: %s", err)
}

func (l *TestLogger) LogEmitError(err error) {
	atomic.AddInt64(&l.NumLogEmitError, 1)
	l.tb.Logf("ryys: unhandled error during emit: %s", err)
}

func (l *TestLogger) LogBodyParseError(err error) {
	atomic.AddInt64(&l.NumLogBodyParseError, 1)
	l.tb.Logf("ryys: error parsing request body: %s", err)
}

func (l *TestLogger) LogListening(addr string) {
	l.tb.Logf("ryys: server listening on %s", addr)
}

var _ Logger = &TestLogger{}
