//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goutte-app/goutte/internal/cadence"
	"github.com/goutte-app/goutte/internal/config"
	"github.com/goutte-app/goutte/internal/cue"
	"github.com/goutte-app/goutte/internal/infusion"
	"github.com/goutte-app/goutte/internal/testutil"
)

type harness struct {
	m         Model
	sched     *testutil.ManualScheduler
	driver    *cadence.Driver
	cadenceCh chan cadenceMsg
	flashCh   chan flashMsg
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sched:     testutil.NewManualScheduler(),
		cadenceCh: make(chan cadenceMsg, channelBufferSize),
		flashCh:   make(chan flashMsg, channelBufferSize),
	}
	visual := &flashCue{ch: h.flashCh}
	sig := cue.Compound{Visual: visual}
	h.driver = cadence.NewDriver(h.sched, sig).WithNotifier(func(ev cadence.Event) {
		h.cadenceCh <- cadenceMsg{Event: ev}
	})
	visual.session = h.driver.Session
	t.Cleanup(h.driver.Stop)
	h.m = NewModel(context.Background(), config.Default(), h.driver, h.cadenceCh, h.flashCh, make(chan configMsg, 1))
	h.m.copyText = func(string) error { return nil }
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) press(s string) tea.Cmd {
	switch s {
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		return h.send(tea.KeyMsg{Type: tea.KeyTab})
	case "up":
		return h.send(tea.KeyMsg{Type: tea.KeyUp})
	case "down":
		return h.send(tea.KeyMsg{Type: tea.KeyDown})
	case "right":
		return h.send(tea.KeyMsg{Type: tea.KeyRight})
	case "left":
		return h.send(tea.KeyMsg{Type: tea.KeyLeft})
	default:
		return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

// drain feeds every queued driver event back into the model.
func (h *harness) drain() {
	for {
		select {
		case msg := <-h.cadenceCh:
			h.send(msg)
		default:
			return
		}
	}
}

func TestNewModel_StartsOnSoluteDefaults(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, infusion.Solute, h.m.sel.Mode())
	assert.Equal(t, 100, h.m.sel.VolumeML())
	assert.Equal(t, 30, h.m.sel.DurationMin())
	assert.Equal(t, 67, h.m.sel.DropsPerMinute())
}

func TestKeys_ModeSwitchResetsSelection(t *testing.T) {
	h := newHarness(t)
	h.press("up")
	h.press("right")
	assert.Equal(t, 250, h.m.sel.VolumeML())
	assert.Equal(t, 60, h.m.sel.DurationMin())

	h.press("2")
	assert.Equal(t, infusion.Blood, h.m.sel.Mode())
	assert.Equal(t, 350, h.m.sel.VolumeML())
	assert.Equal(t, 60, h.m.sel.DurationMin())

	h.press("tab")
	assert.Equal(t, infusion.Solute, h.m.sel.Mode())
	assert.Equal(t, 100, h.m.sel.VolumeML())
	assert.Equal(t, 30, h.m.sel.DurationMin())
}

func TestKeys_ReselectingActiveModeResets(t *testing.T) {
	h := newHarness(t)
	h.press("up")
	h.press("right")
	require.Equal(t, 250, h.m.sel.VolumeML())

	h.press("1")
	assert.Equal(t, infusion.Solute, h.m.sel.Mode())
	assert.Equal(t, 100, h.m.sel.VolumeML())
	assert.Equal(t, 30, h.m.sel.DurationMin())

	h.press("2")
	h.press("right")
	require.Equal(t, 90, h.m.sel.DurationMin())
	h.press("2")
	assert.Equal(t, 350, h.m.sel.VolumeML())
	assert.Equal(t, 60, h.m.sel.DurationMin())
}

func TestKeys_SteppersClampAtEdges(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 5; i++ {
		h.press("j")
	}
	assert.Equal(t, 50, h.m.sel.VolumeML())
	for i := 0; i < 20; i++ {
		h.press("l")
	}
	assert.Equal(t, 1440, h.m.sel.DurationMin())
}

func TestKeys_StartAndStop(t *testing.T) {
	h := newHarness(t)

	h.press("enter")
	require.True(t, h.driver.Running())
	assert.True(t, h.m.metro.running)
	assert.Equal(t, 67, h.m.metro.drops)
	assert.Equal(t, cadence.SessionSeconds, h.m.metro.remaining)
	assert.Len(t, h.flashCh, 1, "first cue fires immediately")

	h.sched.Advance(3 * time.Second)
	h.drain()
	assert.Equal(t, 57, h.m.metro.remaining)

	h.press("s")
	assert.False(t, h.driver.Running())
	assert.False(t, h.m.metro.running)
	assert.Zero(t, h.sched.Active())

	h.drain()
	assert.Equal(t, "manual", h.m.lastStop)
}

func TestKeys_EscapeDismisses(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.press("esc")
	h.drain()

	assert.False(t, h.driver.Running())
	assert.Equal(t, "dismissed", h.m.lastStop)
	assert.Zero(t, h.sched.Active())
}

func TestKeys_StartWhileRunningKeepsSession(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	id := h.m.metro.sessionID

	h.press("2")
	h.press(" ")
	assert.Equal(t, id, h.m.metro.sessionID)
	assert.Equal(t, 67, h.m.metro.drops, "the panel keeps pacing the running rate")
	assert.Equal(t, 2, h.sched.Scheduled())
}

func TestSession_CompletesAfterSixtySeconds(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.sched.Advance(time.Duration(cadence.SessionSeconds) * time.Second)
	h.drain()

	assert.False(t, h.m.metro.running)
	assert.Equal(t, "completed", h.m.lastStop)
	assert.Zero(t, h.sched.Active())
}

func TestApplyEvent_IgnoresOtherSessions(t *testing.T) {
	h := newHarness(t)
	h.press("enter")

	h.send(cadenceMsg{Event: cadence.Event{
		Type:    cadence.EventStopped,
		Session: cadence.Session{ID: uuid.New()},
		Reason:  cadence.StopCompleted,
	}})
	assert.True(t, h.m.metro.running)
	assert.Empty(t, h.m.lastStop)
}

func TestApplyEvent_AudioDegraded(t *testing.T) {
	h := newHarness(t)
	h.press("enter")

	h.send(cadenceMsg{Event: cadence.Event{
		Type:    cadence.EventCue,
		Session: cadence.Session{ID: h.m.metro.sessionID},
		Report:  cue.Report{Visual: cue.Delivered, Audio: cue.Degraded},
	}})
	assert.True(t, h.m.metro.degraded)
	assert.Contains(t, h.m.View(), "audio unavailable")
}

func TestFlash_RetriggerRestartsHighlight(t *testing.T) {
	h := newHarness(t)
	h.press("enter")

	id := h.m.metro.sessionID
	require.NotNil(t, h.send(flashMsg{Session: id}))
	assert.True(t, h.m.metro.flashOn)
	first := h.m.metro.flashSeq

	h.send(flashMsg{Session: id})
	second := h.m.metro.flashSeq
	assert.Greater(t, second, first)

	h.send(flashEndMsg{Seq: first})
	assert.True(t, h.m.metro.flashOn, "an older flash end must not cut the new flash short")

	h.send(flashEndMsg{Seq: second})
	assert.False(t, h.m.metro.flashOn)
}

func TestFlash_IgnoredWhenIdle(t *testing.T) {
	h := newHarness(t)
	h.send(flashMsg{})
	assert.False(t, h.m.metro.flashOn)
}

func TestFlash_QueuedFlashOfStoppedSessionIgnored(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	require.Len(t, h.flashCh, 1)
	stale := <-h.flashCh
	assert.Equal(t, h.m.metro.sessionID, stale.Session)

	h.press("s")
	h.press("enter")
	require.NotEqual(t, stale.Session, h.m.metro.sessionID)
	seq := h.m.metro.flashSeq

	h.send(stale)
	assert.False(t, h.m.metro.flashOn)
	assert.Equal(t, seq, h.m.metro.flashSeq)

	fresh := <-h.flashCh
	h.send(fresh)
	assert.True(t, h.m.metro.flashOn)
}

func TestFlashDuration(t *testing.T) {
	assert.Equal(t, flashMax, flashDuration(60))
	assert.Equal(t, flashMax, flashDuration(0))
	assert.Equal(t, cadence.CueInterval(6000)/2, flashDuration(6000))
}

func TestFlashCue_DropsWhenFull(t *testing.T) {
	ch := make(chan flashMsg, 1)
	f := flashCue{ch: ch}
	require.NoError(t, f.Emit())
	require.ErrorIs(t, f.Emit(), errFlashDropped)
	assert.Equal(t, uuid.Nil, (<-ch).Session)
}

func TestCadenceNotifier_DropsCuesWhenFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan cadenceMsg, 1)
	notify := cadenceNotifier(ctx, ch)
	sess := cadence.Session{ID: uuid.New()}

	notify(cadence.Event{Type: cadence.EventStarted, Session: sess})
	require.Len(t, ch, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		notify(cadence.Event{Type: cadence.EventCue, Session: sess})
		notify(cadence.Event{Type: cadence.EventCountdown, Session: sess})
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cue and countdown events must not wait on a full channel")
	}
	assert.Equal(t, cadence.EventStarted, (<-ch).Event.Type)

	// Stop events wait for room.
	ch <- cadenceMsg{}
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		notify(cadence.Event{Type: cadence.EventStopped, Session: sess})
	}()
	<-ch
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop event was not delivered")
	}
	assert.Equal(t, cadence.EventStopped, (<-ch).Event.Type)

	// ...unless the program is gone.
	ch <- cadenceMsg{}
	cancel()
	notify(cadence.Event{Type: cadence.EventStopped, Session: sess})
	assert.Len(t, ch, 1)
}

func TestCopy_WritesResultLine(t *testing.T) {
	h := newHarness(t)
	var copied string
	h.m.copyText = func(s string) error {
		copied = s
		return nil
	}

	cmd := h.press("c")
	require.NotNil(t, cmd)
	h.send(cmd())

	assert.Equal(t, "Solute 100 ml / 30 min: 67 gtt/min, 200 ml/h", copied)
	assert.Equal(t, "copied: "+copied, h.m.status)

	h.send(clearStatusMsg{Seq: h.m.statusSeq})
	assert.Empty(t, h.m.status)
}

func TestCopy_Failure(t *testing.T) {
	h := newHarness(t)
	h.m.copyText = func(string) error { return errors.New("no clipboard") }

	h.send(h.press("c")())
	assert.Equal(t, "copy failed: no clipboard", h.m.status)
}

func TestConfigReload_UpdatesLocaleAndAudio(t *testing.T) {
	h := newHarness(t)
	h.m.audio = cue.NewToggle(cue.FlashFunc(func() {}), true)

	cfg := config.Default()
	cfg.Locale = "en"
	cfg.Audio = false
	for i := 0; i < 5; i++ {
		h.press("up")
	}
	require.Equal(t, 1500, h.m.sel.VolumeML())
	h.send(configMsg{Config: cfg})

	assert.False(t, h.m.audio.Enabled())
	assert.Equal(t, "1.5 L", h.m.format.Volume(h.m.sel.VolumeML()))
}

func TestView(t *testing.T) {
	h := newHarness(t)
	out := h.m.View()
	for _, want := range []string{"Solute", "Blood", "100 ml", "30 min", "67 gtt/min", "200 ml/h", "enter: start metronome"} {
		assert.Contains(t, out, want)
	}

	h.press("2")
	assert.NotContains(t, h.m.View(), "ml/h")

	h.press("enter")
	assert.Contains(t, h.m.View(), "pacing 88 gtt/min")
}

func TestQuitStopsSession(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	cmd := h.press("q")

	require.NotNil(t, cmd)
	assert.True(t, h.m.quitting)
	assert.False(t, h.driver.Running())
	assert.Equal(t, tea.Quit(), cmd())
}
