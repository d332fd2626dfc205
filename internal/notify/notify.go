// Package notify carries user-visible notices out of the stores. Stores
// report a failure once through a Notifier and leave presentation to it.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Level classifies a notice
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a single user-visible message
type Notice struct {
	Level     Level
	Operation string
	Message   string
	Err       error
	Time      time.Time
}

func (n Notice) String() string {
	if n.Err != nil {
		return fmt.Sprintf("%s: %v", n.Message, n.Err)
	}
	return n.Message
}

// Notifier receives notices
type Notifier interface {
	Notify(n Notice)
}

// Func adapts a function to a Notifier
type Func func(n Notice)

// Notify calls f
func (f Func) Notify(n Notice) {
	f(n)
}

// Error sends an error notice for operation
func Error(n Notifier, operation, message string, err error) {
	if n == nil {
		return
	}
	n.Notify(Notice{Level: LevelError, Operation: operation, Message: message, Err: err, Time: time.Now()})
}

// Info sends an informational notice
func Info(n Notifier, operation, message string) {
	if n == nil {
		return
	}
	n.Notify(Notice{Level: LevelInfo, Operation: operation, Message: message, Time: time.Now()})
}

// Discard drops every notice
var Discard Notifier = Func(func(Notice) {})

// Log writes notices to the global zerolog logger
type Log struct{}

// Notify logs n
func (Log) Notify(n Notice) {
	event := log.Info()
	if n.Level == LevelError {
		event = log.Error().Err(n.Err)
	}
	event.Str("operation", n.Operation).Msg(n.Message)
}

// Writer prints notices as single lines
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a notifier printing to w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify prints n
func (w *Writer) Notify(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := ""
	if n.Level == LevelError {
		prefix = "error: "
	}
	fmt.Fprintf(w.w, "%s%s\n", prefix, n.String())
}

// Recorder keeps every notice in memory
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify records n
func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Reset forgets recorded notices
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}

// Multi fans a notice out to several notifiers
type Multi []Notifier

// Notify forwards n to every non-nil notifier
func (m Multi) Notify(n Notice) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}
