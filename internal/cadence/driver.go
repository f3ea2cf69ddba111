// Package cadence paces manual drip counting: it fires a cue at the computed
// drip interval for a fixed one-minute session with a per-second countdown.
package cadence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goutte-app/goutte/internal/cue"
)

const (
	// SessionSeconds is the fixed length of a metronome session.
	SessionSeconds  = 60
	countdownPeriod = time.Second
)

// CueInterval is the time between two cues at the given drip rate.
func CueInterval(dropsPerMinute int) time.Duration {
	if dropsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(dropsPerMinute)
}

// Driver runs at most one metronome session at a time. It is safe for
// concurrent use; task callbacks from a finished session are ignored.
type Driver struct {
	scheduler Scheduler
	signal    cue.Signal
	notify    func(Event)
	now       func() time.Time

	mu       sync.Mutex
	session  *Session
	cueTask  Task
	tickTask Task
	done     chan struct{}
}

// NewDriver creates an idle driver. A nil scheduler uses Realtime.
func NewDriver(s Scheduler, sig cue.Signal) *Driver {
	if s == nil {
		s = Realtime()
	}
	return &Driver{scheduler: s, signal: sig, now: time.Now}
}

// WithNotifier sets the callback receiving driver events. It is called outside
// the driver lock, possibly from scheduler goroutines.
func (d *Driver) WithNotifier(fn func(Event)) *Driver {
	d.mu.Lock()
	d.notify = fn
	d.mu.Unlock()
	return d
}

// Running reports whether a session is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session != nil
}

// Session returns a snapshot of the active session.
func (d *Driver) Session() (Session, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return Session{}, false
	}
	return *d.session, true
}

// Start begins a session: one cue immediately, then one every CueInterval,
// and a countdown from SessionSeconds that stops the session at zero.
// Cancelling ctx stops the session. A non-positive rate or an active session
// is rejected without any state change.
func (d *Driver) Start(ctx context.Context, dropsPerMinute int) error {
	if dropsPerMinute <= 0 {
		return ErrNonPositiveRate
	}

	d.mu.Lock()
	if d.session != nil {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	sess := &Session{
		ID:               uuid.New(),
		DropsPerMinute:   dropsPerMinute,
		Interval:         CueInterval(dropsPerMinute),
		SecondsRemaining: SessionSeconds,
		StartedAt:        d.now(),
	}
	done := make(chan struct{})
	d.session = sess
	d.done = done
	snap := *sess
	d.mu.Unlock()

	sessionLog(snap).Debug("metronome session started")
	d.emit(Event{Type: EventStarted, Session: snap})
	d.fire(sess)

	d.mu.Lock()
	if d.session != sess {
		// Stopped while the first cue fired.
		d.mu.Unlock()
		return nil
	}
	d.cueTask = d.scheduler.Every(snap.Interval, func() { d.fire(sess) })
	d.tickTask = d.scheduler.Every(countdownPeriod, func() { d.tick(sess) })
	d.mu.Unlock()

	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				d.stop(sess, StopCanceled)
			case <-done:
			}
		}()
	}
	return nil
}

// Stop ends the active session. It is a no-op when idle.
func (d *Driver) Stop() { d.stop(nil, StopManual) }

// Dismiss ends the active session in response to an escape/dismiss signal.
// It shares Stop's semantics.
func (d *Driver) Dismiss() { d.stop(nil, StopDismissed) }

// stop ends the session; when only is non-nil it ends it only if it is still current.
func (d *Driver) stop(only *Session, reason StopReason) {
	d.mu.Lock()
	if d.session == nil || (only != nil && d.session != only) {
		d.mu.Unlock()
		return
	}
	snap := d.detachLocked()
	d.mu.Unlock()

	sessionLog(snap).WithField("reason", reason).Debug("metronome session stopped")
	d.emit(Event{Type: EventStopped, Session: snap, Reason: reason})
}

// detachLocked cancels both tasks together and clears the session.
func (d *Driver) detachLocked() Session {
	snap := *d.session
	if d.cueTask != nil {
		d.cueTask.Cancel()
	}
	if d.tickTask != nil {
		d.tickTask.Cancel()
	}
	close(d.done)
	d.cueTask, d.tickTask, d.session, d.done = nil, nil, nil, nil
	return snap
}

func (d *Driver) fire(sess *Session) {
	d.mu.Lock()
	if d.session != sess {
		d.mu.Unlock()
		return
	}
	snap := *sess
	d.mu.Unlock()

	var report cue.Report
	if d.signal != nil {
		report = d.signal.Fire()
	}
	d.emit(Event{Type: EventCue, Session: snap, Report: report})
}

func (d *Driver) tick(sess *Session) {
	d.mu.Lock()
	if d.session != sess {
		d.mu.Unlock()
		return
	}
	sess.SecondsRemaining--
	snap := *sess
	finished := sess.SecondsRemaining <= 0
	if finished {
		d.detachLocked()
	}
	d.mu.Unlock()

	d.emit(Event{Type: EventCountdown, Session: snap})
	if finished {
		sessionLog(snap).WithField("reason", StopCompleted).Debug("metronome session stopped")
		d.emit(Event{Type: EventStopped, Session: snap, Reason: StopCompleted})
	}
}

func (d *Driver) emit(ev Event) {
	d.mu.Lock()
	fn := d.notify
	d.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func sessionLog(s Session) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"session":          s.ID.String(),
		"drops_per_minute": s.DropsPerMinute,
	})
}
