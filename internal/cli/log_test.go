package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
	}{
		{log.InfoLevel, false},
		{log.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("costs", "node", "A")
			l.Info("searched graph")

			out := buf.String()
			if !strings.Contains(out, "searched graph") {
				t.Errorf("info line missing: %q", out)
			}
			if got := strings.Contains(out, "costs"); got != tt.wantDebug {
				t.Errorf("debug line logged = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("searched graph", "nodes", 4)

	out := buf.String()
	for _, want := range []string{"searched graph", "nodes=4", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestLoggerContext(t *testing.T) {
	if l := loggerFromContext(context.Background()); l != log.Default() {
		t.Error("empty context should yield log.Default()")
	}
	if l := loggerFromContext(nil); l != log.Default() {
		t.Error("nil context should yield log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, log.DebugLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
