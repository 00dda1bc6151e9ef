package main

import (
	"errors"
	"testing"

	"github.com/vovakirdan/beatstep/internal/level"
)

func TestResolveLevel(t *testing.T) {
	pack, err := level.LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}

	tests := []struct {
		arg  string
		want int
	}{
		{"first-steps", 0},
		{"1", 0},
		{"2", 1},
		{"11", 10},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := resolveLevel(pack, tt.arg)
			if err != nil {
				t.Fatalf("resolveLevel(%q): %v", tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("resolveLevel(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}

	if _, err := resolveLevel(pack, "0"); !errors.Is(err, level.ErrInvalidLevelIndex) {
		t.Errorf("level 0: err = %v, want ErrInvalidLevelIndex", err)
	}
	if _, err := resolveLevel(pack, "nope"); err == nil {
		t.Error("unknown id accepted")
	}
}
