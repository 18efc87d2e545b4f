package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/spacedefenders/internal/asset"
	"github.com/tomz197/spacedefenders/internal/config"
	"github.com/tomz197/spacedefenders/internal/draw"
	"github.com/tomz197/spacedefenders/internal/game"
	"github.com/tomz197/spacedefenders/internal/leaderboard"
	"github.com/tomz197/spacedefenders/internal/leaderboard/remote"
	"github.com/tomz197/spacedefenders/internal/loop"
	"github.com/tomz197/spacedefenders/internal/score"
)

const (
	shutdownWait = 15 * time.Second
	// Terminal render cap for remote players.
	defaultMaxCols = 160
	defaultMaxRows = 50
)

// host is shared by every SSH session.
type host struct {
	settings config.Settings
	sprites  *asset.Sprites
	store    score.Store
	board    leaderboard.Client
	lobby    *loop.Lobby
	logger   *log.Logger
}

func main() {
	if _, err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	settings := config.Load()
	logger, closeLog, err := config.NewLogger(settings, "ssh", os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(settings, logger); err != nil {
		logger.Error("server stopped", "err", err)
		closeLog()
		os.Exit(1)
	}
}

func run(settings config.Settings, logger *log.Logger) error {
	sprites, err := asset.NewLoader(0, logger.With("component", "asset")).Load(context.Background(), settings.Sprites)
	if err != nil {
		return err
	}

	var store score.Store = score.NewMemoryStore()
	if settings.HighScoreFile != "" {
		store = score.NewFileStore(settings.HighScoreFile)
	}
	if settings.MaxCols == 0 && settings.MaxRows == 0 {
		settings.MaxCols, settings.MaxRows = defaultMaxCols, defaultMaxRows
	}

	h := &host{
		settings: settings,
		sprites:  sprites,
		store:    store,
		board:    remote.New(settings.LeaderboardURL, logger.With("component", "leaderboard")),
		lobby:    loop.NewLobby(),
		logger:   logger,
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("SSH config", "host", settings.SSHHost, "port", settings.SSHPort,
		"hostKeyPath", settings.HostKeyPath, "workingDir", workingDir)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(settings.SSHHost, settings.SSHPort)),
		wish.WithMiddleware(
			h.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if settings.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	logger.Info("starting SSH server", "addr", s.Addr)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
	}
	logger.Info("shutting down server")

	// Notify players and wait for them to disconnect
	logger.Info("notifying connected players about shutdown", "players", h.lobby.Count())
	if !h.lobby.Shutdown(shutdownWait) {
		logger.Warn("players still connected after shutdown wait", "players", h.lobby.Count())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// gameMiddleware runs an independent game for each SSH session.
func (h *host) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.logger.With("user", sess.User())
		logger.Info("new game session", "terminal", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		handle := h.lobby.Register(sess.User())
		defer h.lobby.Unregister(handle.ID)

		session, err := loop.NewSession(loop.Options{
			Input:    sess,
			Output:   sess,
			TermSize: sizeTracker.getSize,
			MaxCols:  h.settings.MaxCols,
			MaxRows:  h.settings.MaxRows,
			Sprites:  h.sprites,
			Game: game.Options{
				Score:          score.NewService(h.store, logger.With("component", "score")),
				Leaderboard:    h.board,
				Rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
				PipelineRepeat: h.settings.PipelineRepeat,
			},
			PlayerName:     sess.User(),
			Shutdown:       handle.Shutdown(),
			IdleDisconnect: h.settings.IdleDisconnect,
			InputHold:      h.settings.InputHold,
			Logger:         logger.With("component", "loop"),
		})
		if err != nil {
			logger.Error("session setup failed", "err", err)
			fmt.Fprintf(sess, "Error: %v\n", err)
			return
		}

		err = session.Run(sess.Context())
		switch {
		case errors.Is(err, loop.ErrIdle):
			fmt.Fprintln(sess, "Disconnected for inactivity.")
		case err != nil:
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
