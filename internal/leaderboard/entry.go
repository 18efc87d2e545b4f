// Package leaderboard submits finished runs to a shared high-score table and
// reads the best of them back. Clients are fail-soft: an unreachable backend
// yields empty results, never an error the game has to handle.
package leaderboard

import (
	"errors"
	"strings"
	"unicode"
)

// Defaults shared by clients and the backend.
const (
	DefaultName   = "Anonymous"
	DefaultLimit  = 10
	MaxLimit      = 100
	MaxNameLength = 16 // Runes
)

// ErrInvalidScore is returned when a submitted score is negative.
var ErrInvalidScore = errors.New("leaderboard: score must not be negative")

// Entry is one submitted run.
type Entry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// NormalizeName trims a display name, drops control characters and caps the
// length. An empty result becomes DefaultName.
func NormalizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	runes := []rune(name)
	if len(runes) > MaxNameLength {
		name = strings.TrimSpace(string(runes[:MaxNameLength]))
	}
	if name == "" {
		return DefaultName
	}
	return name
}

// ClampLimit maps a requested result size into [1, MaxLimit]; zero or
// negative means DefaultLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
