package engine

import "time"

// Level classifies an event for display purposes.
type Level int

const (
	LevelInfo Level = iota
	LevelOK
	LevelWarn
	LevelError
)

// Event is a human-readable progress or status message emitted while a
// batch runs.
type Event struct {
	Time    time.Time
	Message string
	Level   Level
}

// Progress reports how far through the batch the run is. It is emitted once
// per terminal outcome (commit, skip, or failure).
type Progress struct {
	Completed int
	Total     int
}

// Notifier receives events and progress updates from a running batch.
type Notifier interface {
	Event(e Event)
	Progress(p Progress)
}

// nopNotifier discards everything; used when no notifier is configured.
type nopNotifier struct{}

func (nopNotifier) Event(Event)       {}
func (nopNotifier) Progress(Progress) {}
