package core

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// TestDefaultLogger_Format verifies the level prefix and field rendering
func TestDefaultLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	logger := NewDefaultLogger()
	logger.Info("pool started", F("pool", "alpha"), F("maxWorkers", 4))

	line := buf.String()
	if !strings.Contains(line, "[INFO] pool started") {
		t.Errorf("missing level prefix in %q", line)
	}
	if !strings.Contains(line, "{pool: alpha, maxWorkers: 4}") {
		t.Errorf("missing rendered fields in %q", line)
	}
}

// TestDefaultLogger_NoFields verifies the braces are omitted without fields
func TestDefaultLogger_NoFields(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	NewDefaultLogger().Warn("probe read failed")

	line := buf.String()
	if !strings.Contains(line, "[WARN] probe read failed") {
		t.Errorf("missing message in %q", line)
	}
	if strings.Contains(line, "{") {
		t.Errorf("unexpected field braces in %q", line)
	}
}

// TestNoOpLogger_Discards verifies nothing is emitted
func TestNoOpLogger_Discards(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	l := NewNoOpLogger()
	l.Debug("a")
	l.Info("b", F("k", "v"))
	l.Warn("c")
	l.Error("d")

	if buf.Len() != 0 {
		t.Errorf("NoOpLogger emitted %q", buf.String())
	}
}
