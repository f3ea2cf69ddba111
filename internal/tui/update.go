package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/goutte-app/goutte/internal/cadence"
	"github.com/goutte-app/goutte/internal/cue"
	"github.com/goutte-app/goutte/internal/infusion"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn,cyclop
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(x)
		return m, cmd

	case cadenceMsg:
		m.applyEvent(x.Event)
		return m, m.listenForCadence()

	case flashMsg:
		if !m.metro.running || x.Session != m.metro.sessionID {
			return m, m.listenForFlash()
		}
		// Each cue restarts the highlight; pending ends of older flashes are ignored.
		m.metro.flashSeq++
		m.metro.flashOn = true
		seq := m.metro.flashSeq
		return m, tea.Batch(
			m.listenForFlash(),
			tea.Tick(flashDuration(m.metro.drops), func(time.Time) tea.Msg { return flashEndMsg{Seq: seq} }),
		)

	case flashEndMsg:
		if x.Seq == m.metro.flashSeq {
			m.metro.flashOn = false
		}
		return m, nil

	case configMsg:
		m.applyConfig(x)
		return m, m.listenForConfig()

	case clipboardMsg:
		status := "copied: " + x.Text
		if x.Err != nil {
			status = "copy failed: " + x.Err.Error()
		}
		var cmd tea.Cmd
		m, cmd = m.setStatus(status)
		return m, cmd

	case clearStatusMsg:
		if x.Seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

// applyEvent folds a driver event into the metronome view state.
// Events of a session other than the one this model started are dropped.
func (m *Model) applyEvent(ev cadence.Event) {
	if ev.Session.ID != m.metro.sessionID {
		return
	}
	switch ev.Type {
	case cadence.EventStarted:
		m.metro.remaining = ev.Session.SecondsRemaining
	case cadence.EventCue:
		m.metro.degraded = ev.Report.Audio == cue.Degraded
	case cadence.EventCountdown:
		m.metro.remaining = ev.Session.SecondsRemaining
	case cadence.EventStopped:
		m.metro.running = false
		m.metro.flashOn = false
		m.metro.remaining = 0
		m.lastStop = ev.Reason.String()
	}
}

// flashDuration is the highlight length for a rate: at most flashMax, and
// never more than half an interval so consecutive flashes stay distinct.
func flashDuration(dropsPerMinute int) time.Duration {
	if dropsPerMinute <= 0 {
		return flashMax
	}
	half := cadence.CueInterval(dropsPerMinute) / 2
	if half < flashMax {
		return half
	}
	return flashMax
}

// copyResult writes the current result line to the clipboard.
func (m Model) copyResult() tea.Cmd {
	text := resultLine(m.format, m.sel.Result())
	write := m.copyText
	return func() tea.Msg {
		return clipboardMsg{Text: text, Err: write(text)}
	}
}

// resultLine is the one-line summary of a result, as copied to the clipboard.
func resultLine(f infusion.Formatter, r infusion.Result) string {
	line := r.Mode.Label() + " " + f.Volume(r.VolumeML) + " / " + f.Duration(r.DurationMin) + ": " + f.Drops(r)
	if rate := f.FlowRate(r); rate != "" {
		line += ", " + rate
	}
	return line
}
