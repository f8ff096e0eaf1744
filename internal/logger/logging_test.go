package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestPlainWritesPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := Plain(&buf, "cli")
	l.SetLevel(log.InfoLevel)
	l.Info("ready")

	out := buf.String()
	if !strings.Contains(out, "cli") || !strings.Contains(out, "ready") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewWithConfigLevel(t *testing.T) {
	l := NewWithConfig("x", log.ErrorLevel, false, false, log.TextFormatter)
	if l.GetLevel() != log.ErrorLevel {
		t.Errorf("level = %v", l.GetLevel())
	}
}
