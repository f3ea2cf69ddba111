package cadence

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goutte-app/goutte/internal/cue"
)

// Start rejections. Neither changes driver state.
var (
	ErrNonPositiveRate = errors.New("drop rate must be positive")
	ErrAlreadyRunning  = errors.New("metronome session already running")
)

// StopReason records which exit path ended a session.
type StopReason int

const (
	StopManual StopReason = iota
	StopDismissed
	StopCompleted
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopManual:
		return "manual"
	case StopDismissed:
		return "dismissed"
	case StopCompleted:
		return "completed"
	case StopCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Session is a snapshot of one metronome run.
type Session struct {
	ID               uuid.UUID
	DropsPerMinute   int
	Interval         time.Duration
	SecondsRemaining int
	StartedAt        time.Time
}

// EventType identifies a driver notification.
type EventType int

const (
	EventStarted EventType = iota
	EventCue
	EventCountdown
	EventStopped
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventCue:
		return "cue"
	case EventCountdown:
		return "countdown"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is delivered to the driver's notifier. Report is set for EventCue,
// Reason for EventStopped.
type Event struct {
	Type    EventType
	Session Session
	Report  cue.Report
	Reason  StopReason
}
