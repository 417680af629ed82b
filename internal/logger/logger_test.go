package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetup(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	Setup(true)
	if log.GetLevel() != log.DebugLevel {
		t.Errorf("debug level = %v", log.GetLevel())
	}
	if l := New("server"); l.GetLevel() != log.DebugLevel {
		t.Errorf("component logger level = %v, want debug", l.GetLevel())
	}

	Setup(false)
	if log.GetLevel() != log.WarnLevel {
		t.Errorf("default level = %v", log.GetLevel())
	}
	if l := Plain(""); l.GetLevel() != log.InfoLevel {
		t.Errorf("plain logger level = %v, want info", l.GetLevel())
	}
}

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "cli", log.WarnLevel, false, false, log.TextFormatter)
	l.Info("hidden")
	l.Warn("shown", "query", "itm")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written at warn level: %q", out)
	}
	for _, want := range []string{"cli", "shown", "query=itm"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
