package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/level"
	"github.com/vovakirdan/beatstep/internal/sequencer"
	"github.com/vovakirdan/beatstep/internal/session"
	"github.com/vovakirdan/beatstep/internal/storage"
)

var testRuntime = core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60}

func updatePlay(t *testing.T, m PlayModel, msg tea.Msg) PlayModel {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(PlayModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm
}

// tickN sends n ticks one frame apart starting at t0.
func tickN(t *testing.T, m PlayModel, t0 time.Time, n int) PlayModel {
	t.Helper()
	for i := 0; i < n; i++ {
		m = updatePlay(t, m, TickMsg(t0.Add(time.Duration(i)*time.Second/60)))
	}
	return m
}

func TestPlayModelTogglesBeatUnderCursor(t *testing.T) {
	sess := newTestSession(t, "first-steps")
	m := NewPlayModel(sess, testRuntime)

	m = updatePlay(t, m, runeKey("x"))
	if !sess.Sequencer().Pattern().At(sequencer.HiHat, 0) {
		t.Fatal("x should set the beat under the cursor")
	}

	// The cursor wraps to the last step.
	m = updatePlay(t, m, runeKey("h"))
	updatePlay(t, m, runeKey("x"))
	last := sess.Sequencer().Steps() - 1
	if !sess.Sequencer().Pattern().At(sequencer.HiHat, last) {
		t.Errorf("step %d should be set after wrapping left", last)
	}
}

func TestPlayModelRejectedEditFlashes(t *testing.T) {
	sess := newTestSession(t, "forced")
	m := NewPlayModel(sess, testRuntime)

	// Kick is forced on the first step of this level.
	m = updatePlay(t, m, runeKey("x"))
	if !strings.Contains(m.flash, "forced") {
		t.Errorf("flash = %q, want a forced-step message", m.flash)
	}
	if !sess.Sequencer().Pattern().At(sequencer.Kick, 0) {
		t.Error("forced beat must stay set")
	}
}

func TestPlayModelStartLocksEditing(t *testing.T) {
	sess := newTestSession(t, "first-steps")
	m := NewPlayModel(sess, testRuntime)

	m = updatePlay(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = tickN(t, m, time.Unix(0, 0), 1)
	if sess.State() != session.StateRunning {
		t.Fatalf("state = %v, want running", sess.State())
	}

	m = updatePlay(t, m, runeKey("x"))
	if sess.Sequencer().Pattern().At(sequencer.HiHat, 0) {
		t.Error("pattern must not change during a run")
	}
	if m.flash == "" {
		t.Error("locked edit should flash a message")
	}

	m = updatePlay(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if sess.LevelIndex() != 0 {
		t.Error("level must not change during a run")
	}

	m = updatePlay(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	tickN(t, m, time.Unix(1, 0), 1)
	if sess.State() != session.StateIdle {
		t.Errorf("state = %v, want idle after stop", sess.State())
	}
}

func TestPlayModelManualWalk(t *testing.T) {
	sess := newTestSession(t, "first-steps")
	m := NewPlayModel(sess, testRuntime)
	x0 := sess.Level().Player().Body().Pos.X

	m = updatePlay(t, m, runeKey("d"))
	tickN(t, m, time.Unix(0, 0), 10)

	if x := sess.Level().Player().Body().Pos.X; x <= x0 {
		t.Errorf("player x = %v, want > %v after walking right", x, x0)
	}
}

func TestPlayModelWalkHoldExpires(t *testing.T) {
	sess := newTestSession(t, "first-steps")
	m := NewPlayModel(sess, testRuntime)

	m = updatePlay(t, m, runeKey("a"))
	m = tickN(t, m, time.Unix(0, 0), 30)
	if m.walkLeft != 0 {
		t.Errorf("walkLeft = %v, want expired after half a second", m.walkLeft)
	}
}

func TestPlayModelLevelSwitch(t *testing.T) {
	sess := newTestSession(t, "first-steps")
	m := NewPlayModel(sess, testRuntime)

	m = updatePlay(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if sess.LevelIndex() != 1 {
		t.Fatalf("level = %d, want 1", sess.LevelIndex())
	}
	updatePlay(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	updatePlay(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if sess.LevelIndex() != sess.LevelCount()-1 {
		t.Errorf("level = %d, want wrap to %d", sess.LevelIndex(), sess.LevelCount()-1)
	}
}

func TestPlayModelBackAndQuit(t *testing.T) {
	sess := newTestSession(t, "first-steps")
	m := NewPlayModel(sess, testRuntime)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(PlayModel).BackToMenu() {
		t.Error("esc should request the menu")
	}
	if cmd != nil {
		t.Error("esc inside the app must not quit the program")
	}

	next, cmd = m.Update(runeKey("q"))
	if !next.(PlayModel).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}

func TestPlayModelView(t *testing.T) {
	sess := newTestSession(t, "first-steps")
	m := NewPlayModel(sess, testRuntime)

	view := m.View()
	for _, want := range []string{"First Steps", "Hi-Hat", "play/stop"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func testPack(t *testing.T) *level.Pack {
	t.Helper()
	pack, err := level.LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	return pack
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func saveWin(t *testing.T, store *storage.Store, levelID string, beats int) {
	t.Helper()
	err := store.SaveRunResult(session.RunResult{
		LevelID:   levelID,
		Outcome:   session.OutcomeWon,
		MaxLoops:  1,
		BeatsUsed: beats,
		Elapsed:   2 * time.Second,
	})
	if err != nil {
		t.Fatalf("SaveRunResult: %v", err)
	}
}

func TestMenuModel(t *testing.T) {
	pack := testPack(t)
	store := testStore(t)
	saveWin(t, store, "first-steps", 3)

	m := NewMenuModel(pack, store, testRuntime)
	items := m.Items()
	if len(items) != pack.Len() {
		t.Fatalf("items = %d, want %d", len(items), pack.Len())
	}
	if got := items[0].Status(); got != "cleared, best 3 beats" {
		t.Errorf("status = %q", got)
	}
	if got := items[1].Status(); got != "new" {
		t.Errorf("status = %q, want new", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	sel := next.(MenuModel).Selected()
	if sel == nil || sel.Index != 1 || cmd == nil {
		t.Fatalf("selected = %+v, want level 2", sel)
	}
}

func TestMenuModelWithoutStore(t *testing.T) {
	m := NewMenuModel(testPack(t), nil, testRuntime)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !next.(MenuModel).WantsResults() {
		t.Error("tab should open results")
	}
	if !strings.Contains(m.View(), "First Steps") {
		t.Error("menu should list level names")
	}
}

func TestResultsModel(t *testing.T) {
	pack := testPack(t)
	store := testStore(t)
	saveWin(t, store, "first-steps", 5)
	saveWin(t, store, "first-steps", 2)

	m := NewResultsModel(pack, store, 100, 30)
	runs := m.Runs()
	if len(runs) != 2 || runs[0].BeatsUsed != 2 {
		t.Fatalf("runs = %+v, want best first", runs)
	}
	if !strings.Contains(m.View(), "2 attempts, 2 wins") {
		t.Errorf("view missing stats line:\n%s", m.View())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := next.(ResultsModel).Runs(); len(got) != 0 {
		t.Errorf("second level runs = %d, want 0", len(got))
	}

	next, cmd := next.(ResultsModel).Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ResultsModel).IsGoingBack() || cmd == nil {
		t.Error("esc should go back")
	}
}

func TestAppModelFlow(t *testing.T) {
	pack := testPack(t)
	factory := func(index int) (*session.Session, error) {
		return session.New(session.Options{
			Pack:       pack,
			Tuning:     config.DefaultGameConfig(),
			StartLevel: index,
		})
	}
	var app tea.Model = NewAppModel(pack, nil, testRuntime, factory)

	step := func(msg tea.Msg, want string) {
		t.Helper()
		app, _ = app.Update(msg)
		if got := app.(AppModel).Screen(); got != want {
			t.Fatalf("screen = %q, want %q", got, want)
		}
	}

	step(tea.KeyMsg{Type: tea.KeyEnter}, "play")
	step(TickMsg(time.Unix(0, 0)), "play")
	step(tea.KeyMsg{Type: tea.KeyEsc}, "menu")
	step(tea.KeyMsg{Type: tea.KeyTab}, "results")
	step(tea.KeyMsg{Type: tea.KeyEsc}, "menu")

	app, cmd := app.Update(runeKey("q"))
	if cmd == nil || app.View() != "" {
		t.Error("q should quit the app")
	}
}
