package log

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithAddsFieldToOutput(t *testing.T) {
	var buf bytes.Buffer
	base.SetOutput(&buf)
	defer base.SetOutput(os.Stderr)
	base.SetLevel(logrus.DebugLevel)

	New().With("compilation", "abc-123").Debugf("lowering %d ops", 3)

	out := buf.String()
	if !strings.Contains(out, "compilation=abc-123") {
		t.Fatalf("expected output to carry the field, got %q", out)
	}
	if !strings.Contains(out, "lowering 3 ops") {
		t.Fatalf("expected formatted message in output, got %q", out)
	}
}

func TestSetLevelFiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	base.SetOutput(&buf)
	defer base.SetOutput(os.Stderr)

	SetLevel(LvlError)
	New().Warnf("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected warn to be filtered at error level, got %q", buf.String())
	}

	SetLevel(LvlInfo)
}
