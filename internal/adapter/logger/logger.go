package logger

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]any)
	Debug(action, message, requestID string, details map[string]any)
	Error(action, message, requestID string, details map[string]any, err error)
}

// jsonLogger emits one JSON object per line to stdout.
type jsonLogger struct {
	service  string
	hostname string
	out      io.Writer
	mu       sync.Mutex
}

func New(service string) Logger {
	hostname, _ := os.Hostname()
	return &jsonLogger{
		service:  service,
		hostname: hostname,
		out:      os.Stdout,
	}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]any) {
	l.log("INFO", action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]any) {
	l.log("DEBUG", action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]any, err error) {
	l.log("ERROR", action, message, requestID, details, err)
}

func (l *jsonLogger) log(level, action, message, requestID string, details map[string]any, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.service,
		Hostname:  l.hostname,
		RequestID: requestID,
		Action:    action,
		Message:   message,
		Details:   details,
	}

	if err != nil {
		entry.Error = &ErrorInfo{Msg: err.Error()}
	}

	json.NewEncoder(l.out).Encode(entry)
}

// Nop discards everything; used in tests.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info(_, _, _ string, _ map[string]any)           {}
func (nopLogger) Debug(_, _, _ string, _ map[string]any)          {}
func (nopLogger) Error(_, _, _ string, _ map[string]any, _ error) {}
