package game

// EventKind identifies something that happened during a tick or a key press.
type EventKind int

const (
	EventShotFired EventKind = iota + 1
	EventAlienDestroyed
	EventBreach
	EventWaveSpawned
	EventPaused
	EventResumed
	EventMuteToggled
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventShotFired:
		return "shot-fired"
	case EventAlienDestroyed:
		return "alien-destroyed"
	case EventBreach:
		return "breach"
	case EventWaveSpawned:
		return "wave-spawned"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventMuteToggled:
		return "mute-toggled"
	case EventGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// Event is a notification for the adapter layer (audio cues, banners).
// Only the fields relevant to Kind are set.
type Event struct {
	Kind   EventKind
	X, Y   float64 // Position of the shot, kill or breach
	Points int     // EventAlienDestroyed
	Wave   int     // EventWaveSpawned: number of the new formation
	Lives  int     // EventBreach, EventGameOver: lives left
	Score  int     // EventGameOver: final score
	Muted  bool    // EventMuteToggled
}

func (g *Game) emit(ev Event) {
	g.events = append(g.events, ev)
}

// Events returns the events accumulated since the last call and clears them.
func (g *Game) Events() []Event {
	if len(g.events) == 0 {
		return nil
	}
	out := g.events
	g.events = nil
	return out
}
