package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/beatstep/internal/core"
)

// PlayKeyMap defines the key bindings of the play screen.
type PlayKeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Jump      key.Binding
	Dash      key.Binding
	Play      key.Binding
	Reset     key.Binding
	CursorUp  key.Binding
	CursorDn  key.Binding
	CursorL   key.Binding
	CursorR   key.Binding
	Toggle    key.Binding
	Clear     key.Binding
	Preset    key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Help      key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Toggle, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Jump, k.Dash},
		{k.CursorUp, k.CursorDn, k.CursorL, k.CursorR, k.Toggle},
		{k.Play, k.Reset, k.Clear, k.Preset},
		{k.NextLevel, k.PrevLevel, k.Back, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Left:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "walk left")),
		Right:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "walk right")),
		Jump:      key.NewBinding(key.WithKeys("w", " "), key.WithHelp("w/space", "jump")),
		Dash:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "dash")),
		Play:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play/stop")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		CursorUp:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "prev track")),
		CursorDn:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "next track")),
		CursorL:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("left/h", "prev step")),
		CursorR:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("right/l", "next step")),
		Toggle:    key.NewBinding(key.WithKeys("x", "t"), key.WithHelp("x", "toggle beat")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear pattern")),
		Preset:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "load preset")),
		NextLevel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next level")),
		PrevLevel: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev level")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys PlayKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultPlayKeyMap()}
}

// Keys returns the bindings used by the mapper.
func (km *KeyMapper) Keys() PlayKeyMap {
	return km.keys
}

// MapKey translates a key message to a movement or session action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, km.keys.Left):
		return core.ActionLeft, false
	case key.Matches(msg, km.keys.Right):
		return core.ActionRight, false
	case key.Matches(msg, km.keys.Jump):
		return core.ActionJump, false
	case key.Matches(msg, km.keys.Dash):
		return core.ActionDash, false
	case key.Matches(msg, km.keys.Play):
		return core.ActionConfirm, false
	case key.Matches(msg, km.keys.Back):
		return core.ActionBack, false
	case key.Matches(msg, km.keys.Reset):
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionResults
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionResults
	}
	return MenuActionNone
}
