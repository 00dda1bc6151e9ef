package core

import "testing"

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(4, 2)
	s.SetColor(1, 1, '#', ColorRed)
	if c := s.GetCell(1, 1); c.Rune != '#' || c.Color != ColorRed {
		t.Errorf("GetCell() = %+v", c)
	}
	s.Set(10, 10, 'x')
	if s.Get(10, 10) != ' ' {
		t.Error("out of bounds read should be space")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "ab")
	s.DrawHLine(0, 1, 3, '-', ColorGray)
	if got, want := s.String(), "ab \n---"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := s.Row(1); got != "---" {
		t.Errorf("Row(1) = %q", got)
	}
}

func TestScreenDrawTextCenteredMultibyte(t *testing.T) {
	s := NewScreen(5, 1)
	s.DrawTextCentered(0, "♪", ColorYellow)
	if s.Get(2, 0) != '♪' {
		t.Errorf("Row = %q", s.Row(0))
	}
}

func TestScreenResizeClears(t *testing.T) {
	s := NewScreen(2, 2)
	s.Set(0, 0, 'x')
	s.Resize(3, 3)
	if s.Width() != 3 || s.Height() != 3 || s.Get(0, 0) != ' ' {
		t.Errorf("Resize did not reset buffer: %q", s.String())
	}
}
