package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/core"
	"github.com/vovakirdan/beatstep/internal/level"
	"github.com/vovakirdan/beatstep/internal/session"
	"github.com/vovakirdan/beatstep/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.beatstep/host_key.
	HostKeyPath string

	// DBPath is the path to the results database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the frame rate of each connection.
	TickRate int

	Pack   *level.Pack
	Tuning config.GameConfig
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.beatstep/results.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Tuning:      config.DefaultGameConfig(),
	}
}

// SSHServer wraps a Wish SSH server hosting one game session per connection.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Pack == nil || cfg.Pack.Len() == 0 {
		return nil, session.ErrNoLevels
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "beatstep-ssh",
		})
	}

	// Results are optional: the server keeps running without them.
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open results database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		dir := config.DataDir()
		if dir == "" {
			return nil, errors.New("cannot get home directory for the host key")
		}
		hostKeyPath = filepath.Join(dir, "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}
	connLog := s.logger.With("user", sshSession.User())
	model := NewAppModel(s.config.Pack, s.store, cfg, s.sessionFactory(connLog))

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionFactory builds sessions that share the server's pack, tuning and
// results store.
func (s *SSHServer) sessionFactory(logger *log.Logger) SessionFactory {
	return func(index int) (*session.Session, error) {
		opts := session.Options{
			Pack:       s.config.Pack,
			Tuning:     s.config.Tuning,
			Logger:     logger,
			StartLevel: index,
		}
		if s.store != nil {
			opts.Results = s.store
		}
		return session.New(opts)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionFactory creates a game session starting at the given level.
type SessionFactory func(levelIndex int) (*session.Session, error)

type appScreen int

const (
	screenMenu appScreen = iota
	screenPlay
	screenResults
)

// AppModel manages the full flow in one program: menu -> play -> menu,
// and menu -> results -> menu. It is the top-level model of SSH sessions.
type AppModel struct {
	pack       *level.Pack
	store      *storage.Store
	config     core.RuntimeConfig
	newSession SessionFactory

	screen   appScreen
	menu     MenuModel
	play     *PlayModel
	results  *ResultsModel
	err      string
	quitting bool
}

// NewAppModel creates the top-level model.
func NewAppModel(pack *level.Pack, store *storage.Store, cfg core.RuntimeConfig, factory SessionFactory) AppModel {
	return AppModel{
		pack:       pack,
		store:      store,
		config:     cfg,
		newSession: factory,
		menu:       NewMenuModel(pack, store, cfg),
	}
}

// Init initializes the app.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen and handles transitions.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenResults:
		return m.updateResults(msg)
	}
	return m.updateMenu(msg)
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsResults():
		results := NewResultsModel(m.pack, m.store, m.config.ScreenW, m.config.ScreenH)
		m.results = &results
		m.screen = screenResults
		return m, results.Init()

	case m.menu.Selected() != nil:
		sess, err := m.newSession(m.menu.Selected().Index)
		if err != nil {
			m.err = err.Error()
			m.menu = NewMenuModel(m.pack, m.store, m.config)
			return m, nil
		}
		play := NewPlayModel(sess, m.config)
		m.play = &play
		m.screen = screenPlay
		m.err = ""
		return m, play.Init()
	}
	return m, cmd
}

func (m AppModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.play.Update(msg)
	if play, ok := next.(PlayModel); ok {
		m.play = &play
	}

	switch {
	case m.play.IsQuitting():
		m.play.Session().Close()
		m.quitting = true
		return m, tea.Quit

	case m.play.BackToMenu():
		m.play.Session().Close()
		m.play = nil
		return m.backToMenu()
	}
	return m, cmd
}

func (m AppModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.results.Update(msg)
	if results, ok := next.(ResultsModel); ok {
		m.results = &results
	}

	switch {
	case m.results.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.results.IsGoingBack():
		m.results = nil
		return m.backToMenu()
	}
	return m, cmd
}

// backToMenu rebuilds the menu so level statistics are fresh.
func (m AppModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.pack, m.store, m.config)
	return m, m.menu.Init()
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenResults:
		return m.results.View()
	}
	if m.err != "" {
		return m.menu.View() + "\n" + centerText("Error: "+m.err, m.config.ScreenW)
	}
	return m.menu.View()
}

// Screen reports which screen is active: "menu", "play" or "results".
func (m AppModel) Screen() string {
	switch m.screen {
	case screenPlay:
		return "play"
	case screenResults:
		return "results"
	}
	return "menu"
}
