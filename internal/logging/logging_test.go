package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Infof("render", "row %d done", 7)
	l.Errorf("sink", "save: %v", "disk full")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], " [INFO] render: row 7 done") {
		t.Errorf("unexpected info line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " [ERROR] sink: save: disk full") {
		t.Errorf("unexpected error line %q", lines[1])
	}
}

func TestWriterConcurrent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Infof("worker", "hello")
		}()
	}
	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("got %d lines, want 16", n)
	}
}

func TestOrNoop(t *testing.T) {
	if _, ok := OrNoop(nil).(Noop); !ok {
		t.Errorf("OrNoop(nil) is not Noop")
	}
	w := New(&bytes.Buffer{})
	if OrNoop(w) != Logger(w) {
		t.Errorf("OrNoop replaced a non-nil logger")
	}
}
