// Package testutil holds deterministic stand-ins shared by package tests.
package testutil

import (
	"sync"
	"time"

	"github.com/goutte-app/goutte/internal/cadence"
)

// ManualScheduler is a cadence.Scheduler driven by virtual time. Callbacks
// only run inside Advance, in due-time order; ties run in scheduling order.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s        *ManualScheduler
	seq      int
	period   time.Duration
	next     time.Duration
	fn       func()
	canceled bool
}

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

// Every implements cadence.Scheduler.
func (s *ManualScheduler) Every(period time.Duration, fn func()) cadence.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{s: s, seq: s.seq, period: period, next: s.now + period, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Cancel implements cadence.Task.
func (t *manualTask) Cancel() {
	t.s.mu.Lock()
	t.canceled = true
	t.s.mu.Unlock()
}

// Advance moves virtual time forward by d, running every callback that falls due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		t := s.nextDueLocked(target)
		if t == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = t.next
		t.next += t.period
		fn := t.fn
		s.mu.Unlock()
		fn()
	}
}

// Active counts tasks that have not been cancelled.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}

// Scheduled counts every task ever scheduled.
func (s *ManualScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *ManualScheduler) nextDueLocked(target time.Duration) *manualTask {
	var best *manualTask
	for _, t := range s.tasks {
		if t.canceled || t.period <= 0 || t.next > target {
			continue
		}
		if best == nil || t.next < best.next || (t.next == best.next && t.seq < best.seq) {
			best = t
		}
	}
	return best
}
