package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/goutte-app/goutte/internal/cadence"
	"github.com/goutte-app/goutte/internal/config"
	"github.com/goutte-app/goutte/internal/cue"
	"github.com/goutte-app/goutte/internal/infusion"
)

// metronome is the view state of the active session.
type metronome struct {
	running   bool
	sessionID uuid.UUID
	drops     int
	remaining int
	flashSeq  int
	flashOn   bool
	degraded  bool
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx    context.Context
	sel    *infusion.Selection
	driver *cadence.Driver
	format infusion.Formatter
	cfg    config.Config
	audio  *cue.Toggle

	metro    metronome
	lastStop string

	progress progress.Model
	help     help.Model
	keys     keyMap

	status    string
	statusSeq int
	copyText  func(string) error

	width    int
	height   int
	quitting bool

	// inbound messages from the driver, the visual cue and the config watcher
	cadenceCh chan cadenceMsg
	flashCh   chan flashMsg
	configCh  chan configMsg
}

// NewModel constructs a Model on the configured start-up mode.
func NewModel(ctx context.Context, cfg config.Config, driver *cadence.Driver, cadenceCh chan cadenceMsg, flashCh chan flashMsg, configCh chan configMsg) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{
		ctx:       ctx,
		sel:       infusion.NewSelection(cfg.InitialMode()),
		driver:    driver,
		format:    infusion.NewFormatterFor(cfg.Locale),
		cfg:       cfg,
		progress:  newProgress(cfg.Color(cfg.InitialMode())),
		help:      help.New(),
		keys:      newKeyMap(),
		copyText:  clipboard.WriteAll,
		cadenceCh: cadenceCh,
		flashCh:   flashCh,
		configCh:  configCh,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listenForCadence(),
		m.listenForFlash(),
		m.listenForConfig(),
	)
}

// listenForCadence returns a Tea command that waits for driver events.
func (m Model) listenForCadence() tea.Cmd {
	if m.cadenceCh == nil {
		return nil
	}
	return func() tea.Msg {
		return <-m.cadenceCh
	}
}

// listenForFlash returns a Tea command that waits for visual cues.
func (m Model) listenForFlash() tea.Cmd {
	if m.flashCh == nil {
		return nil
	}
	return func() tea.Msg {
		return <-m.flashCh
	}
}

// listenForConfig returns a Tea command that waits for config reloads.
func (m Model) listenForConfig() tea.Cmd {
	if m.configCh == nil {
		return nil
	}
	return func() tea.Msg {
		return <-m.configCh
	}
}

// flashCue is the visual modality: it queues a flash without ever blocking the driver.
// Flashes are tagged with the session firing them so a queued flash cannot
// light a later session.
type flashCue struct {
	ch      chan<- flashMsg
	session func() (cadence.Session, bool)
}

func (f flashCue) Emit() error {
	var msg flashMsg
	if f.session != nil {
		if s, ok := f.session(); ok {
			msg.Session = s.ID
		}
	}
	select {
	case f.ch <- msg:
		return nil
	default:
		return errFlashDropped
	}
}
