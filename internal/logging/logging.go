// Package logging provides the component logger shared by the renderer, the sinks and the preview server.
package logging

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type Logger interface {
	Infof(component string, format string, args ...any)
	Errorf(component string, format string, args ...any)
}

type Noop struct{}

func (Noop) Infof(component, format string, args ...any)  {}
func (Noop) Errorf(component, format string, args ...any) {}

// Writer writes one timestamped line per message.
// It may be shared between goroutines.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func New(w io.Writer) *Writer { return &Writer{w: w} }

func (l *Writer) Infof(component string, format string, args ...any) {
	l.write("INFO", component, format, args...)
}

func (l *Writer) Errorf(component string, format string, args ...any) {
	l.write("ERROR", component, format, args...)
}

func (l *Writer) write(level, component, format string, args ...any) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}

// OrNoop returns l, or a Noop logger if l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return Noop{}
	}
	return l
}
