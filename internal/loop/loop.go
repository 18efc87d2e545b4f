// Package loop drives one game session: Input → Update → Draw at a fixed
// frame rate on a terminal.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spacedefenders/internal/asset"
	"github.com/tomz197/spacedefenders/internal/audio"
	"github.com/tomz197/spacedefenders/internal/draw"
	"github.com/tomz197/spacedefenders/internal/game"
	"github.com/tomz197/spacedefenders/internal/input"
	"github.com/tomz197/spacedefenders/internal/leaderboard"
	"github.com/tomz197/spacedefenders/internal/loop/config"
	"github.com/tomz197/spacedefenders/internal/render"
)

// ErrIdle is returned by Run when the player was inactive for too long.
var ErrIdle = errors.New("disconnected for inactivity")

// Options configures a Session.
type Options struct {
	Input    io.Reader
	Output   io.Writer
	TermSize draw.TermSizeFunc // Defaults to the size of os.Stdout
	MaxCols  int               // Render area cap in columns; 0 means none
	MaxRows  int

	Sprites *asset.Sprites
	Game    game.Options
	Audio   audio.Player // Defaults to audio.Nop

	PlayerName      string // Name posted to the leaderboard
	LeaderboardSize int    // Entries shown after game over

	// Shutdown, when closed, shows a notice and ends the session after
	// config.ShutdownDisplaySeconds.
	Shutdown <-chan struct{}
	// IdleDisconnect ends the session after config.InactivityDisconnectUser
	// seconds without input.
	IdleDisconnect bool
	// InputHold is how long a movement key stays down after its last byte.
	InputHold time.Duration

	Logger *log.Logger
}

// Session is one player's game on one terminal.
type Session struct {
	game     *game.Game
	surface  *render.TerminalSurface
	renderer *render.Renderer
	stream   *input.Stream
	audio    audio.Player
	out      io.Writer
	logger   *log.Logger

	name  string
	limit int

	results   render.Results
	resultsCh chan []leaderboard.Entry

	shutdown       <-chan struct{}
	shutdownAt     time.Time
	idleDisconnect bool
	lastActivity   time.Time
	now            func() time.Time
}

// NewSession prepares a session. It fails if the terminal size is
// unavailable. The input reader is not consumed until Run.
func NewSession(opts Options) (*Session, error) {
	if opts.Input == nil || opts.Output == nil {
		return nil, errors.New("session needs input and output")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}

	surface, err := render.NewTerminalSurface(opts.Output, opts.TermSize, opts.MaxCols, opts.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	s := &Session{
		surface:        surface,
		renderer:       render.NewRenderer(opts.Sprites),
		audio:          opts.Audio,
		out:            opts.Output,
		logger:         opts.Logger,
		name:           opts.PlayerName,
		limit:          leaderboard.ClampLimit(opts.LeaderboardSize),
		shutdown:       opts.Shutdown,
		idleDisconnect: opts.IdleDisconnect,
		now:            time.Now,
	}
	s.game = game.New(surface, opts.Game)
	s.stream = input.StartStream(opts.Input, opts.InputHold)
	return s, nil
}

// Run plays until the player quits, the input closes, ctx is cancelled, the
// shutdown notice runs out or the player idles out.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.out)
	defer draw.ShowCursor(s.out)
	draw.ClearScreen(s.out)
	defer draw.ClearScreen(s.out)
	defer func() {
		s.logger.Debug("session finished", "bytes", s.surface.BytesWritten(), "score", s.game.FinalScore())
	}()

	s.audio.SetMuted(s.game.Muted())
	s.lastActivity = s.now()
	s.handleEvents(ctx, s.game.Events())

	for {
		frameStart := time.Now()

		if ctx.Err() != nil {
			return nil
		}

		// ===== INPUT PHASE =====
		done, err := s.step(ctx, s.stream.Read())
		if done || err != nil {
			return err
		}

		// ===== DRAW PHASE =====
		if err := s.renderer.Draw(s.surface, s.game.Snapshot(), s.results); err != nil {
			return fmt.Errorf("draw: %w", err)
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}
}

// step applies one frame of input and advances the game. It reports
// whether the session is over.
func (s *Session) step(ctx context.Context, in input.Frame) (bool, error) {
	if in.Quit || in.Closed {
		return true, nil
	}
	now := s.now()
	if len(in.Pressed) > 0 {
		s.lastActivity = now
	}

	for _, ev := range in.Events {
		s.game.HandleKey(ev)
	}

	// ===== UPDATE PHASE =====
	s.surface.Refresh()
	s.game.Tick()
	s.handleEvents(ctx, s.game.Events())
	s.collectResults()

	return s.updateNotice(now)
}

func (s *Session) handleEvents(ctx context.Context, events []game.Event) {
	audio.Handle(s.audio, events)
	for _, ev := range events {
		s.renderer.Notify(ev)
		switch ev.Kind {
		case game.EventWaveSpawned:
			s.logger.Debug("wave spawned", "wave", ev.Wave)
		case game.EventGameOver:
			s.logger.Info("game over", "score", ev.Score)
			s.submit(ctx)
		}
	}
}

// submit publishes the final score in the background. The result arrives
// on resultsCh and is picked up by collectResults.
func (s *Session) submit(ctx context.Context) {
	if s.resultsCh != nil {
		return
	}
	s.results = render.Results{Pending: true}
	s.resultsCh = make(chan []leaderboard.Entry, 1)

	g, name, limit, ch := s.game, s.name, s.limit, s.resultsCh
	go func() {
		ctx, cancel := context.WithTimeout(ctx, config.SubmitTimeout)
		defer cancel()
		ch <- g.SubmitResult(ctx, name, limit)
	}()
}

func (s *Session) collectResults() {
	if s.resultsCh == nil || s.results.Done {
		return
	}
	select {
	case top := <-s.resultsCh:
		s.results = render.Results{Done: true, Top: top}
		s.logger.Debug("leaderboard updated", "entries", len(top))
	default:
	}
}

// updateNotice refreshes the shutdown and inactivity notices.
func (s *Session) updateNotice(now time.Time) (bool, error) {
	if s.shutdownAt.IsZero() && s.shutdown != nil {
		select {
		case <-s.shutdown:
			s.shutdownAt = now
		default:
		}
	}
	if !s.shutdownAt.IsZero() {
		remaining := config.ShutdownDisplaySeconds - now.Sub(s.shutdownAt).Seconds()
		if remaining <= 0 {
			return true, nil
		}
		s.renderer.SetNotice(
			"SERVER SHUTTING DOWN",
			"The server is restarting for maintenance. Please reconnect in a moment.",
			fmt.Sprintf("Disconnecting in %d seconds... Press Q to disconnect now", int(math.Ceil(remaining))),
		)
		return false, nil
	}

	if s.idleDisconnect {
		idle := now.Sub(s.lastActivity).Seconds()
		switch {
		case idle >= config.InactivityDisconnectUser:
			return true, ErrIdle
		case idle >= config.InactivityWarnUser:
			left := int(math.Ceil(config.InactivityDisconnectUser - idle))
			s.renderer.SetNotice(
				"ARE YOU STILL THERE?",
				fmt.Sprintf("Disconnecting in %d seconds. Press any key to stay.", left),
			)
			return false, nil
		}
	}
	s.renderer.SetNotice()
	return false, nil
}
