package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("replaced graph") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("tick") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("tick") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	componentLogger(newLogger(&buf, log.InfoLevel), "server").Info("listening", "addr", ":8080")
	out := buf.String()
	if !strings.Contains(out, "server") || !strings.Contains(out, "listening") {
		t.Errorf("output = %q, want component prefix and message", out)
	}
}

func TestQuietLogger(t *testing.T) {
	l := quietLogger()
	l.Error("dropped")
	if l.GetLevel() > log.ErrorLevel {
		t.Errorf("level = %v", l.GetLevel())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.start = time.Now().Add(-1500 * time.Millisecond)
	p.done("Rendered 2 file(s)")

	out := buf.String()
	if !strings.Contains(out, "Rendered 2 file(s)") || !strings.Contains(out, "1.5") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	l := newLogger(&bytes.Buffer{}, log.DebugLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("missing logger should fall back to log.Default()")
	}
}
