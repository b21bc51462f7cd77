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

	"github.com/vovakirdan/tui-cropper/internal/config"
	"github.com/vovakirdan/tui-cropper/internal/core"
	"github.com/vovakirdan/tui-cropper/internal/registry"
	"github.com/vovakirdan/tui-cropper/internal/session"
	"github.com/vovakirdan/tui-cropper/internal/storage"
)

// Pixel size patterns are rendered at for remote sessions.
const (
	patternW = 1200
	patternH = 800
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.cropper/host_key.
	HostKeyPath string

	// DBPath is the path to the crop history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Config tunes every session's motion.
	Config config.Config

	// TickRate is the frame rate of every session.
	TickRate int

	// MaxSessions caps concurrent sessions. Zero means unlimited.
	MaxSessions int

	// Debug logs motion transitions of every session.
	Debug bool
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		DBPath:      "~/.cropper/history.db",
		IdleTimeout: 30 * time.Minute,
		Config:      config.Default(),
		TickRate:    60,
		MaxSessions: 32,
	}
}

// SSHServer wraps a Wish SSH server serving the crop view.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	sessions *session.Registry
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "cropper-ssh",
	})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		sessions: session.NewRegistry(cfg.MaxSessions),
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".cropper", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
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

	rt := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	model := NewSessionModel(SessionOptions{
		Config:   s.config.Config,
		Runtime:  rt,
		Store:    s.store,
		Sessions: s.sessions,
		ID:       sessionID(sshSession),
		User:     sshSession.User(),
		Logger:   s.sessionLogger(sessionID(sshSession), sshSession.User()),
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware registers and logs SSH sessions. Connections over the
// session limit are turned away.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := sessionID(sshSession)
		remote := sshSession.RemoteAddr().String()

		err := s.sessions.Register(session.Info{
			ID:      id,
			User:    sshSession.User(),
			Remote:  remote,
			Started: time.Now(),
		})
		if err != nil {
			s.logger.Warn("session rejected", "user", sshSession.User(), "remote", remote, "error", err)
			wish.Fatalln(sshSession, "Server is full, try again later.")
			return
		}
		defer s.sessions.Unregister(id)

		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", remote,
			"active", s.sessions.Count(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", remote,
			"active", s.sessions.Count()-1,
		)
	}
}

// sessionLogger tags a session's log lines with its user and remote address.
func (s *SSHServer) sessionLogger(id session.ID, user string) *log.Logger {
	logger := s.logger.With("user", user)
	if info, ok := s.sessions.Get(id); ok {
		logger = logger.With("remote", info.Remote)
	}
	return logger
}

func sessionID(sshSession ssh.Session) session.ID {
	return session.ID(sshSession.Context().SessionID())
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

	for _, info := range s.sessions.List() {
		s.logger.Info("closing session",
			"user", info.User,
			"remote", info.Remote,
			"source", info.Source,
			"duration", time.Since(info.Started).Round(time.Second),
		)
	}

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}


// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Config   config.Config
	Runtime  core.RuntimeConfig
	Store    *storage.Store
	Sessions *session.Registry // Optional
	ID       session.ID
	User     string
	Logger   *log.Logger
}

// SessionModel manages the remote session flow: menu -> crop -> menu.
// Crops are recorded in history but never written to the server's disk.
type SessionModel struct {
	opts      SessionOptions
	menu      MenuModel
	cropModel *Model
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	return SessionModel{
		opts: opts,
		menu: NewMenuModel(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
		if m.cropModel != nil {
			// Keep the hidden menu in step for when the user comes back
			newMenu, _ := m.menu.Update(wsm)
			m.menu = newMenu.(MenuModel)
		}
	}

	if m.cropModel != nil {
		return m.updateCrop(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The last tick of a crop view that was just left ends here
	if _, ok := msg.(TickMsg); ok {
		return m, nil
	}

	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	// Keep the cursor but clear the selection for when the user comes back
	m.menu = m.menu.withoutSelection()

	pattern, err := registry.Create(selected.PatternID)
	if err != nil {
		m.opts.Logger.Error("cannot create pattern", "pattern", selected.PatternID, "error", err)
		return m, nil
	}

	cropModel, err := NewModel(Source{
		Name:  "pattern:" + pattern.ID(),
		Image: pattern.Image(patternW, patternH),
	}, Options{
		Config:  m.opts.Config,
		Runtime: m.opts.Runtime,
		Store:   m.opts.Store,
		CanBack: true,
		Logger:  m.opts.Logger,
	})
	if err != nil {
		m.opts.Logger.Error("cannot start crop view", "error", err)
		return m, nil
	}

	m.opts.Logger.Info("cropping", "pattern", pattern.ID())
	m.setSource("pattern:" + pattern.ID())
	m.cropModel = &cropModel
	return m, m.cropModel.Init()
}

// updateCrop handles updates when the crop view is active.
func (m SessionModel) updateCrop(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.cropModel.Update(msg)
	if cropModel, ok := newModel.(Model); ok {
		m.cropModel = &cropModel
	}

	if m.cropModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.cropModel.BackToMenu() {
		m.cropModel = nil
		m.setSource("")
		return m, nil
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.cropModel != nil {
		return m.cropModel.View()
	}

	return m.menu.View()
}

func (m SessionModel) setSource(source string) {
	if m.opts.Sessions != nil {
		m.opts.Sessions.SetSource(m.opts.ID, source)
	}
}

// InCrop reports whether the crop view is active.
func (m SessionModel) InCrop() bool {
	return m.cropModel != nil
}
