package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/level"
	"github.com/vovakirdan/beatstep/internal/sequencer"
	"github.com/vovakirdan/beatstep/internal/storage"
)

// MenuItem represents a selectable level in the menu.
type MenuItem struct {
	Index   int
	LevelID string
	Title   string
	Steps   int
	Loops   int
	Stats   storage.LevelStats // zero when never played
}

// Status is the short progress label shown next to the level.
func (it MenuItem) Status() string {
	switch {
	case it.Stats.Wins > 0:
		return fmt.Sprintf("cleared, best %d beats", it.Stats.BestBeats)
	case it.Stats.Attempts > 0:
		return fmt.Sprintf("%d tries", it.Stats.Attempts)
	default:
		return "new"
	}
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	store       *storage.Store
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	quitting    bool
	selected    *MenuItem // Set when user selects a level
	openResults bool      // True if user pressed Tab for results
}

// NewMenuModel creates a new menu model listing every level of the pack.
func NewMenuModel(pack *level.Pack, store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:     menuItems(pack, store),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// menuItems joins the pack with the stored statistics. Statistics are
// best-effort: a failing store just shows every level as new.
func menuItems(pack *level.Pack, store *storage.Store) []MenuItem {
	stats := make(map[string]storage.LevelStats)
	if store != nil {
		if all, err := store.Stats(); err == nil {
			for _, st := range all {
				stats[st.LevelID] = st
			}
		}
	}

	descs := pack.All()
	items := make([]MenuItem, 0, len(descs))
	for i, d := range descs {
		cfg, err := d.SequencerConfig()
		if err != nil {
			cfg = sequencer.DefaultConfig()
		}
		items = append(items, MenuItem{
			Index:   i,
			LevelID: d.ID,
			Title:   d.Title(),
			Steps:   cfg.Steps(),
			Loops:   cfg.MaxLoops,
			Stats:   stats[d.ID],
		})
	}
	return items
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionResults:
		m.openResults = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  B E A T S T E P  ", m.width)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(centerText("Program the beat, walk the level", m.width)))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = activeStyle
		}
		line := fmt.Sprintf("%s%2d. %-24s %2d steps x%d  %s",
			cursor, item.Index+1, item.Title, item.Steps, item.Loops, item.Status())
		b.WriteString(style.Render(centerText(line, m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Results  |  Q: Quit"
	b.WriteString(dimStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Items returns the listed levels.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsResults returns true if user requested the results browser.
func (m MenuModel) WantsResults() bool {
	return m.openResults
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	LevelIndex   int
	Config       core.RuntimeConfig
	WantsResults bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(pack *level.Pack, store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(pack, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsResults():
		result.WantsResults = true
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.LevelIndex = m.Selected().Index
	}
	return result, nil
}
