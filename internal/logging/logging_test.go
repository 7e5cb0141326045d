package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered lines:\n%s", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("output missing lines:\n%s", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug)
	l.SetOutput(&buf)

	child := l.With("stream").With("mqtt")
	child.Info("connected")

	if !strings.Contains(buf.String(), "[INFO] stream/mqtt: connected") {
		t.Errorf("output = %q, want component prefix", buf.String())
	}

	// Level changes on the parent apply to the child.
	buf.Reset()
	l.SetLevel(LevelError)
	child.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("child ignored parent level: %q", buf.String())
	}
}

func TestLogger_Writer(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug)
	l.SetOutput(&buf)

	std := log.New(l.With("mqtt").Writer(LevelWarn), "", 0)
	std.Println("first")
	std.Print("second\nthird")

	out := buf.String()
	for _, want := range []string{"[WARN] mqtt: first", "[WARN] mqtt: second", "[WARN] mqtt: third"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 3 {
		t.Errorf("got %d lines, want 3", n)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing to see")
	l.With("x").Warn("still nothing")
}
