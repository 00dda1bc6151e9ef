package clock

import (
	"testing"
	"time"
)

func TestAdvanceFiresInDueOrder(t *testing.T) {
	c := New()
	var order []string
	c.After(300*time.Millisecond, func() { order = append(order, "c") })
	c.After(100*time.Millisecond, func() { order = append(order, "a") })
	c.After(100*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(50 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("fired early: %v", order)
	}
	c.Advance(time.Second)
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestStopPreventsFire(t *testing.T) {
	c := New()
	fired := false
	timer := c.After(time.Millisecond, func() { fired = true })
	if !timer.Stop() {
		t.Error("Stop() on pending timer should report true")
	}
	if timer.Stop() {
		t.Error("second Stop() should report false")
	}
	c.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestCallbackStopsLaterTimer(t *testing.T) {
	c := New()
	var second *Timer
	fired := false
	c.After(10*time.Millisecond, func() { second.Stop() })
	second = c.After(20*time.Millisecond, func() { fired = true })
	c.Advance(time.Second)
	if fired {
		t.Error("timer stopped by an earlier callback still fired")
	}
}

func TestTimerScheduledInCallbackWaitsForNextAdvance(t *testing.T) {
	c := New()
	count := 0
	c.After(0, func() {
		c.After(0, func() { count++ })
	})
	c.Advance(0)
	if count != 0 {
		t.Fatal("nested timer fired in the same Advance")
	}
	c.Advance(0)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestSlotKeepsSingleTimer(t *testing.T) {
	c := New()
	g := NewGroup(c)
	var slot Slot
	fires := 0
	slot.Set(g, 200*time.Millisecond, func() { fires++ })
	c.Advance(100 * time.Millisecond)
	slot.Set(g, 200*time.Millisecond, func() { fires++ })

	if c.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", c.Pending())
	}
	c.Advance(150 * time.Millisecond)
	if fires != 0 {
		t.Fatal("cancelled timer fired")
	}
	c.Advance(100 * time.Millisecond)
	if fires != 1 {
		t.Errorf("fires = %d, want 1", fires)
	}
	if slot.Active() {
		t.Error("slot still active after firing")
	}
}

func TestGroupStopAll(t *testing.T) {
	c := New()
	g := NewGroup(c)
	other := false
	c.After(time.Millisecond, func() { other = true })
	g.After(time.Millisecond, func() { t.Error("group timer fired after StopAll") })
	g.After(time.Millisecond, func() { t.Error("group timer fired after StopAll") })
	if g.Pending() != 2 {
		t.Fatalf("group Pending() = %d, want 2", g.Pending())
	}
	g.StopAll()
	c.Advance(time.Second)
	if !other {
		t.Error("timer outside the group should still fire")
	}
}

func TestRemaining(t *testing.T) {
	c := New()
	timer := c.After(time.Second, func() {})
	c.Advance(400 * time.Millisecond)
	if got := timer.Remaining(); got != 600*time.Millisecond {
		t.Errorf("Remaining() = %v", got)
	}
}
