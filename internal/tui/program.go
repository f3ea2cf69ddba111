package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/goutte-app/goutte/internal/cadence"
	"github.com/goutte-app/goutte/internal/config"
	"github.com/goutte-app/goutte/internal/cue"
)

// Options configures Run.
type Options struct {
	Config config.Config
	// ConfigPath is watched for live reloads when non-empty.
	ConfigPath string
	// Scheduler drives the metronome timers; nil uses real time.
	Scheduler cadence.Scheduler
}

// Run starts the Bubble Tea TUI program, wiring the metronome driver and config watcher to messages.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cadenceCh := make(chan cadenceMsg, channelBufferSize)
	flashCh := make(chan flashMsg, channelBufferSize)
	configCh := make(chan configMsg, configBufferSize)

	audio := cue.NewToggle(cue.NewBell(), opts.Config.Audio)
	visual := &flashCue{ch: flashCh}
	signal := cue.Compound{
		Visual: visual,
		Audio:  audio,
		Haptic: hapticFor(opts.Config),
	}
	driver := cadence.NewDriver(opts.Scheduler, signal).WithNotifier(cadenceNotifier(ctx, cadenceCh))
	visual.session = driver.Session
	// Every exit path leaves no timers behind.
	defer driver.Stop()

	model := NewModel(ctx, opts.Config, driver, cadenceCh, flashCh, configCh)
	model.audio = audio

	if opts.ConfigPath != "" {
		go func() {
			err := config.Watch(ctx, opts.ConfigPath, func(cfg config.Config) {
				select {
				case configCh <- configMsg{Config: cfg}:
				case <-ctx.Done():
				}
			})
			if err != nil {
				logrus.Debugf("config watch unavailable: %v", err)
			}
		}()
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	// Run TUI blocking in this goroutine.
	_, err := p.Run()
	return err
}

// cadenceNotifier forwards driver events to ch. Cues and countdown ticks are
// dropped when ch is full so the driver never waits on a busy UI; session
// start and stop are always delivered unless ctx is done.
func cadenceNotifier(ctx context.Context, ch chan<- cadenceMsg) func(cadence.Event) {
	return func(ev cadence.Event) {
		msg := cadenceMsg{Event: ev}
		switch ev.Type {
		case cadence.EventCue, cadence.EventCountdown:
			select {
			case ch <- msg:
			default:
				logrus.Debugf("dropped %s event: UI busy", ev.Type)
			}
		default:
			select {
			case ch <- msg:
			case <-ctx.Done():
			}
		}
	}
}

// hapticFor returns the configured haptic modality, or nil when none is configured.
func hapticFor(cfg config.Config) cue.Modality {
	if len(cfg.HapticCommand) == 0 {
		return nil
	}
	return cue.NewCommandVibrator(cfg.HapticCommand)
}
