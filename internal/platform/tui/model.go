package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/session"
)

// Terminals report key presses but not releases, so walking is held for a
// short window after each press. Key repeat keeps refreshing it.
const (
	walkHold      = 250 * time.Millisecond
	flashDuration = 2 * time.Second
	maxTickGap    = 250 * time.Millisecond
)

// PlayModel is the Bubble Tea model for the play screen: the level view,
// the HUD and the pattern editor.
type PlayModel struct {
	sess   *session.Session
	screen *core.Screen
	config core.RuntimeConfig
	keys   *KeyMapper
	help   help.Model

	walkLeft  time.Duration // remaining hold time
	walkRight time.Duration
	jump      bool // one-shot, consumed by the next frame
	dash      bool

	cursorInst int
	cursorStep int
	levelIndex int

	flash      string
	flashUntil time.Time
	lastTick   time.Time

	quitting   bool
	backToMenu bool
	standalone bool // runs as its own program, so Back ends it
}

// NewPlayModel creates a play screen for an existing session.
func NewPlayModel(sess *session.Session, cfg core.RuntimeConfig) PlayModel {
	h := help.New()
	h.Width = cfg.ScreenW
	return PlayModel{
		sess:       sess,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH-1),
		config:     cfg,
		keys:       NewKeyMapper(),
		help:       h,
		levelIndex: sess.LevelIndex(),
	}
}

// Init starts the frame loop.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Keys()
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Back):
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, k.Left):
		m.walkLeft, m.walkRight = walkHold, 0
	case key.Matches(msg, k.Right):
		m.walkRight, m.walkLeft = walkHold, 0
	case key.Matches(msg, k.Jump):
		m.jump = true
	case key.Matches(msg, k.Dash):
		m.dash = true

	case key.Matches(msg, k.Play):
		m.togglePlay()
	case key.Matches(msg, k.Reset):
		m.sess.Reset()

	case key.Matches(msg, k.CursorUp):
		m.moveCursor(-1, 0)
	case key.Matches(msg, k.CursorDn):
		m.moveCursor(1, 0)
	case key.Matches(msg, k.CursorL):
		m.moveCursor(0, -1)
	case key.Matches(msg, k.CursorR):
		m.moveCursor(0, 1)

	case key.Matches(msg, k.Toggle):
		m.toggleCell()
	case key.Matches(msg, k.Clear):
		if m.editable() {
			m.sess.ClearPattern()
		}
	case key.Matches(msg, k.Preset):
		if m.editable() {
			if err := m.sess.LoadPreset(); err != nil {
				m.setFlash(describeEditError(err))
			} else {
				m.setFlash("Preset loaded")
			}
		}

	case key.Matches(msg, k.NextLevel):
		m.switchLevel(1)
	case key.Matches(msg, k.PrevLevel):
		m.switchLevel(-1)

	case msg.String() == "ctrl+s":
		m.saveScreenshot()
	}
	return m, nil
}

func (m *PlayModel) togglePlay() {
	if m.sess.State() == session.StateRunning {
		m.sess.Stop()
		return
	}
	if err := m.sess.Start(); err != nil {
		m.setFlash(describeEditError(err))
	}
}

// editable reports whether the pattern may change; edits are locked
// while a run is in progress.
func (m *PlayModel) editable() bool {
	switch m.sess.State() {
	case session.StateRunning:
		m.setFlash("Stop the sequencer to edit")
		return false
	case session.StateLevelWon:
		return false
	}
	return true
}

func (m *PlayModel) toggleCell() {
	if !m.editable() {
		return
	}
	insts := m.sess.Sequencer().Config().Instruments
	if len(insts) == 0 {
		return
	}
	if _, err := m.sess.Toggle(insts[m.cursorInst], m.cursorStep); err != nil {
		m.setFlash(describeEditError(err))
	}
}

func (m *PlayModel) moveCursor(dInst, dStep int) {
	insts := len(m.sess.Sequencer().Config().Instruments)
	steps := m.sess.Sequencer().Steps()
	if insts == 0 || steps == 0 {
		return
	}
	m.cursorInst = (m.cursorInst + dInst + insts) % insts
	m.cursorStep = (m.cursorStep + dStep + steps) % steps
}

func (m *PlayModel) switchLevel(delta int) {
	if m.sess.State() == session.StateRunning {
		m.setFlash("Stop the sequencer to change level")
		return
	}
	n := m.sess.LevelCount()
	next := (m.sess.LevelIndex() + delta + n) % n
	if err := m.sess.LoadLevel(next); err != nil {
		m.setFlash(err.Error())
	}
	m.syncLevel()
}

// syncLevel clamps the cursor after the session moved to another level.
func (m *PlayModel) syncLevel() {
	if m.levelIndex == m.sess.LevelIndex() {
		return
	}
	m.levelIndex = m.sess.LevelIndex()
	m.cursorInst = core.Clamp(m.cursorInst, 0, core.Max(0, len(m.sess.Sequencer().Config().Instruments)-1))
	m.cursorStep = core.Clamp(m.cursorStep, 0, core.Max(0, m.sess.Sequencer().Steps()-1))
}

func (m *PlayModel) setFlash(msg string) {
	m.flash = msg
	m.flashUntil = time.Now().Add(flashDuration)
}

// handleTick feeds held keys to the session and advances it by the time
// elapsed since the previous tick.
func (m PlayModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	elapsed := time.Second / time.Duration(core.Max(m.config.TickRate, 1))
	if !m.lastTick.IsZero() {
		elapsed = now.Sub(m.lastTick)
	}
	if elapsed > maxTickGap {
		elapsed = maxTickGap
	}
	m.lastTick = now

	m.sess.SetInput(core.Intents{
		Left:  m.walkLeft > 0,
		Right: m.walkRight > 0,
		Jump:  m.jump,
		Dash:  m.dash,
	})
	if m.sess.Advance(elapsed) > 0 {
		m.jump, m.dash = false, false
	}
	m.walkLeft = max(m.walkLeft-elapsed, 0)
	m.walkRight = max(m.walkRight-elapsed, 0)

	if m.flash != "" && now.After(m.flashUntil) {
		m.flash = ""
	}
	m.syncLevel()
	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to a file.
func (m *PlayModel) saveScreenshot() {
	m.render()

	dir := filepath.Join(config.DataDir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.sess.LevelInfo().Descriptor.ID, timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
	m.setFlash("Screenshot saved")
}

// render draws the HUD, the world, the grid and the status line.
func (m *PlayModel) render() {
	s := m.screen
	s.Clear()
	w, h := s.Width(), s.Height()
	insts := len(m.sess.Sequencer().Config().Instruments)
	gridTop := h - insts - gridHeader - 1
	if gridTop < hudRows+1 {
		gridTop = hudRows + 1
	}

	drawHUD(s, 0, m.sess)
	world := core.Box{X: 0, Y: hudRows, W: w, H: gridTop - hudRows}
	drawWorld(s, world, m.sess.Level())
	if msg := m.sess.Message(); msg != "" {
		drawMessage(s, world, msg, m.messageHint())
	}
	drawGrid(s, gridTop, m.sess, m.cursorInst, m.cursorStep)

	if m.flash != "" {
		s.DrawTextColor(1, h-1, m.flash, core.ColorBrightRed)
	}
}

func (m PlayModel) messageHint() string {
	switch m.sess.State() {
	case session.StateGameOver:
		return "r: reset  enter: play again"
	case session.StateLevelWon:
		return "Loading the next level..."
	}
	return ""
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}
	m.render()
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys.Keys()))
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// Session returns the session driven by this model.
func (m PlayModel) Session() *session.Session {
	return m.sess
}

// RunPlay starts the play screen on its own, without the level menu.
func RunPlay(sess *session.Session, cfg core.RuntimeConfig) error {
	_, err := runPlayProgram(sess, cfg)
	return err
}

// RunPlayFromMenu runs the play screen and reports whether the user asked
// to go back to the menu rather than quit.
func RunPlayFromMenu(sess *session.Session, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	m, err := runPlayProgram(sess, cfg)
	if err != nil {
		return false, err
	}
	return m.BackToMenu() && !m.IsQuitting(), nil
}

func runPlayProgram(sess *session.Session, cfg core.RuntimeConfig) (PlayModel, error) {
	model := NewPlayModel(sess, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return model, err
	}
	if m, ok := finalModel.(PlayModel); ok {
		return m, nil
	}
	return model, nil
}
