package logging

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  log.Level
	}{
		{"default", "", "", log.InfoLevel},
		{"configured", "", "debug", log.DebugLevel},
		{"garbage falls back", "", "loud", log.InfoLevel},
		{"env wins", "error", "debug", log.ErrorLevel},
		{"bad env ignored", "nope", "warn", log.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLevel, tt.env)
			if got := ResolveLevel(tt.level); got != tt.want {
				t.Errorf("ResolveLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewWritesPrefix(t *testing.T) {
	t.Setenv(EnvLevel, "")
	var buf bytes.Buffer
	logger := New(&buf, "info")
	logger.Info("level loaded", "id", "level-1")
	out := buf.String()
	if !strings.Contains(out, Prefix) || !strings.Contains(out, "level loaded") {
		t.Errorf("unexpected output %q", out)
	}
	logger.Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug line written at info level")
	}
}

func TestOpenFile(t *testing.T) {
	t.Setenv(EnvLevel, "")
	path := filepath.Join(t.TempDir(), "beatstep.log")
	logger, f, err := OpenFile(path, "warn")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("level = %v, want warn", logger.GetLevel())
	}
}
