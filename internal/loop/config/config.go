// Package config centralizes frame timing and session limits.
package config

import "time"

// Frame rate
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Leaderboard
const (
	SubmitTimeout = 5 * time.Second // Post plus top-list fetch
)
