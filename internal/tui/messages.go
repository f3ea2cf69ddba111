package tui

import (
	"errors"

	"github.com/google/uuid"

	"github.com/goutte-app/goutte/internal/cadence"
	"github.com/goutte-app/goutte/internal/config"
)

// Message types for Bubble Tea update loop.

// cadenceMsg carries a metronome driver event.
type cadenceMsg struct{ Event cadence.Event }

// flashMsg restarts the drop glyph highlight for the cue of session Session.
type flashMsg struct{ Session uuid.UUID }

// flashEndMsg ends the highlight started by flash number Seq, unless a newer one superseded it.
type flashEndMsg struct{ Seq int }

// configMsg carries a reloaded config file.
type configMsg struct{ Config config.Config }

// clipboardMsg reports the result of a copy.
type clipboardMsg struct {
	Text string
	Err  error
}

// clearStatusMsg clears the status line set as status number Seq.
type clearStatusMsg struct{ Seq int }

// errFlashDropped reports a flash that could not be queued.
var errFlashDropped = errors.New("flash dropped: display busy")
