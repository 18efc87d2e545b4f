package leaderboard

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// Client is the game's view of the leaderboard backend.
type Client interface {
	// PostScore submits a finished run. Failures are logged, not returned.
	PostScore(ctx context.Context, score int, name string)
	// TopScores returns up to limit entries, best first. Failures yield nil.
	TopScores(ctx context.Context, limit int) []Entry
}

// Disabled is the client used when no backend is configured.
type Disabled struct {
	Logger *log.Logger
}

var _ Client = Disabled{}

func (d Disabled) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

// PostScore logs that the score was dropped.
func (d Disabled) PostScore(_ context.Context, score int, _ string) {
	d.logger().Warn("leaderboard not configured, score not posted", "score", score)
}

// TopScores always returns nil.
func (d Disabled) TopScores(context.Context, int) []Entry {
	d.logger().Debug("leaderboard not configured, returning no scores")
	return nil
}
