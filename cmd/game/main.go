package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/spacedefenders/internal/asset"
	"github.com/tomz197/spacedefenders/internal/audio"
	"github.com/tomz197/spacedefenders/internal/config"
	"github.com/tomz197/spacedefenders/internal/game"
	"github.com/tomz197/spacedefenders/internal/leaderboard/remote"
	"github.com/tomz197/spacedefenders/internal/loop"
	"github.com/tomz197/spacedefenders/internal/score"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if _, err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	settings := config.Load()

	// The screen belongs to the game, so logs go to LOG_FILE or nowhere.
	logger, closeLog, err := config.NewLogger(settings, "game", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sprites, err := asset.NewLoader(0, logger.With("component", "asset")).Load(ctx, settings.Sprites)
	if err != nil {
		return err
	}

	var store score.Store = score.NewMemoryStore()
	if settings.HighScoreFile != "" {
		store = score.NewFileStore(settings.HighScoreFile)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	player := audio.New(audio.Options{
		MusicFile: settings.MusicFile,
		Volume:    settings.Volume,
	}, logger.With("component", "audio"))
	defer player.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	session, err := loop.NewSession(loop.Options{
		Input:   os.Stdin,
		Output:  os.Stdout,
		MaxCols: settings.MaxCols,
		MaxRows: settings.MaxRows,
		Sprites: sprites,
		Game: game.Options{
			Score:          score.NewService(store, logger.With("component", "score")),
			Leaderboard:    remote.New(settings.LeaderboardURL, logger.With("component", "leaderboard")),
			Rand:           rand.New(rand.NewSource(seed)),
			PipelineRepeat: settings.PipelineRepeat,
		},
		Audio:      player,
		PlayerName: settings.PlayerName,
		InputHold:  settings.InputHold,
		Logger:     logger.With("component", "loop"),
	})
	if err != nil {
		return err
	}

	logger.Info("game started", "seed", seed, "repeat", settings.PipelineRepeat)
	return session.Run(ctx)
}
