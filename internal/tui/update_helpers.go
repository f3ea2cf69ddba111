package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/goutte-app/goutte/internal/cadence"
	"github.com/goutte-app/goutte/internal/infusion"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn,cyclop
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.driver.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Solute):
		m.setMode(infusion.Solute)
	case key.Matches(msg, m.keys.Blood):
		m.setMode(infusion.Blood)
	case key.Matches(msg, m.keys.ToggleMode):
		if m.sel.Mode() == infusion.Solute {
			m.setMode(infusion.Blood)
		} else {
			m.setMode(infusion.Solute)
		}

	case key.Matches(msg, m.keys.VolumeUp):
		m.sel.Step(infusion.Volume, 1)
	case key.Matches(msg, m.keys.VolumeDown):
		m.sel.Step(infusion.Volume, -1)
	case key.Matches(msg, m.keys.DurationUp):
		m.sel.Step(infusion.Duration, 1)
	case key.Matches(msg, m.keys.DurationDown):
		m.sel.Step(infusion.Duration, -1)

	case key.Matches(msg, m.keys.Start):
		m.start()
	case key.Matches(msg, m.keys.Stop):
		m.stop(m.driver.Stop)
	case key.Matches(msg, m.keys.Escape):
		m.stop(m.driver.Dismiss)

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyResult()
	}

	return m, nil
}

// setMode switches the calculator mode; the selection resets to the mode defaults.
// Re-selecting the active mode resets it too.
func (m *Model) setMode(mode infusion.Mode) {
	m.sel.SetMode(mode)
	m.progress = newProgress(m.cfg.Color(mode))
}

// start begins a metronome session at the current drop rate.
// Rejections (idle rate, session already active) leave the view unchanged.
func (m *Model) start() {
	drops := m.sel.DropsPerMinute()
	if err := m.driver.Start(m.ctx, drops); err != nil {
		if errors.Is(err, cadence.ErrAlreadyRunning) || errors.Is(err, cadence.ErrNonPositiveRate) {
			logrus.Debugf("metronome start ignored: %v", err)
			return
		}
		logrus.Warnf("metronome start failed: %v", err)
		return
	}
	sess, ok := m.driver.Session()
	if !ok {
		// Already over: the first cue's stop raced the start.
		return
	}
	m.metro = metronome{
		running:   true,
		sessionID: sess.ID,
		drops:     sess.DropsPerMinute,
		remaining: sess.SecondsRemaining,
		flashSeq:  m.metro.flashSeq,
	}
	m.lastStop = ""
}

// stop ends the running session through end and updates the view at once;
// the driver's stopped event only records the reason.
func (m *Model) stop(end func()) {
	if !m.metro.running {
		return
	}
	end()
	m.metro.running = false
	m.metro.flashOn = false
	m.metro.remaining = 0
}

// applyConfig applies a reloaded config: theme, locale and audio.
// The selection and a running session are left alone.
func (m *Model) applyConfig(x configMsg) {
	m.cfg = x.Config
	m.format = infusion.NewFormatterFor(x.Config.Locale)
	m.progress = newProgress(m.cfg.Color(m.sel.Mode()))
	if m.audio != nil {
		m.audio.Set(x.Config.Audio)
	}
}

// setStatus shows a transient status line, cleared after statusClear.
func (m Model) setStatus(s string) (Model, tea.Cmd) {
	m.statusSeq++
	m.status = s
	seq := m.statusSeq
	return m, tea.Tick(statusClear, func(time.Time) tea.Msg { return clearStatusMsg{Seq: seq} })
}

func newProgress(color string) progress.Model {
	p := progress.New(progress.WithSolidFill(color), progress.WithoutPercentage())
	p.Width = progressWidth
	return p
}
