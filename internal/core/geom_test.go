package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"shared edge", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), false},
		{"above", NewRect(0, 0, 10, 10), NewRect(0, -20, 10, 10), false},
		{"contained", NewRect(0, 0, 100, 100), NewRect(40, 40, 2, 2), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectAround(t *testing.T) {
	r := RectAround(V(100, 50), 64, 80)
	if r.Left() != 68 || r.Top() != 10 || r.Right() != 132 || r.Bottom() != 90 {
		t.Errorf("RectAround() = %+v", r)
	}
	if c := r.Center(); c != V(100, 50) {
		t.Errorf("Center() = %+v, want (100,50)", c)
	}
}

func TestSign(t *testing.T) {
	if Sign(-3) != -1 || Sign(0) != 0 || Sign(2.5) != 1 {
		t.Error("Sign returned wrong value")
	}
}

func TestIntentsOr(t *testing.T) {
	a := Intents{Left: true}
	b := Intents{Jump: true}
	got := a.Or(b)
	if !got.Left || !got.Jump || got.Right || got.Dash {
		t.Errorf("Or() = %+v", got)
	}
	if (Intents{}).Any() {
		t.Error("empty intents should not report Any")
	}
}

func TestInputFrameIntents(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRight)
	f.Set(ActionDash)
	got := f.Intents()
	if !got.Right || !got.Dash || got.Left || got.Jump {
		t.Errorf("Intents() = %+v", got)
	}
	f.Clear()
	if f.Intents().Any() {
		t.Error("cleared frame still has intents")
	}
}
