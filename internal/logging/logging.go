// Package logging writes structured JSON log lines, one object per line.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger encodes entries with a "ts" timestamp in a fixed location.
// It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	enc *json.Encoder
	loc *time.Location
}

// New returns a Logger writing to w. A nil location means UTC.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{enc: json.NewEncoder(w), loc: loc}
}

// Stdout is a Logger writing to the process's standard output.
func Stdout(loc *time.Location) *Logger {
	return New(os.Stdout, loc)
}

// Log writes fields as-is, adding ts. Callers set level and msg themselves.
func (l *Logger) Log(fields map[string]any) {
	entry := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)

	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.enc.Encode(entry)
}

func (l *Logger) Info(msg string, fields map[string]any) {
	l.Log(withLevel("info", msg, fields))
}

func (l *Logger) Error(msg string, err error, fields map[string]any) {
	f := withLevel("error", msg, fields)
	if err != nil {
		f["error"] = err.Error()
	}
	l.Log(f)
}

func withLevel(level, msg string, fields map[string]any) map[string]any {
	f := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		f[k] = v
	}
	f["level"] = level
	f["msg"] = msg
	return f
}
