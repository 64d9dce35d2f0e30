package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harrison/tidyspace/internal/models"
)

func TestMulti_FansOut(t *testing.T) {
	a := &bytes.Buffer{}
	b := &bytes.Buffer{}
	m := NewMulti(NewConsoleLogger(a, "info"), nil, NewConsoleLogger(b, "warn"))

	m.LogInfo("info line")
	m.LogWarn("warn line")
	m.LogAction(moveRecord(false))
	m.LogSummary(models.RunResult{Root: "/tmp/x"})

	if !strings.Contains(a.String(), "info line") || !strings.Contains(a.String(), "warn line") {
		t.Errorf("first sink missing lines: %q", a.String())
	}
	if strings.Contains(b.String(), "info line") {
		t.Errorf("second sink should filter info: %q", b.String())
	}
	if !strings.Contains(b.String(), "warn line") {
		t.Errorf("second sink missing warn: %q", b.String())
	}
}

func TestNoOpLogger(t *testing.T) {
	var s Sink = NewNoOpLogger()
	s.LogInfo("x")
	s.LogAction(models.ActionRecord{})
	s.LogProgress(1, 1)
	s.LogSummary(models.RunResult{})
}
