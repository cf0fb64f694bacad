package cmdlog

import (
	"bytes"
	"testing"
)

func TestTask_Step(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf)
	logger.DisableColor()
	logger.emojis = false

	task := logger.NewTask(3)
	task.Step("📚", "Downloading libraries")
	task.Step("🎵", "Downloading assets")

	want := "[1 / 3] Downloading libraries\n[2 / 3] Downloading assets\n"
	if buf.String() != want {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithWriter(buf)
	logger.indention = 2
	logger.Info("hello")
	if buf.String() != "  hello\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
