package cadence

import (
	"sync"
	"time"
)

// Task is a handle to a repeating callback. Cancel is idempotent and never blocks.
type Task interface {
	Cancel()
}

// Scheduler runs fn every period until the returned Task is cancelled.
// The first call happens one period after scheduling.
type Scheduler interface {
	Every(period time.Duration, fn func()) Task
}

// Realtime returns a Scheduler backed by one time.Ticker per task.
func Realtime() Scheduler { return realtime{} }

type realtime struct{}

func (realtime) Every(period time.Duration, fn func()) Task {
	t := &tickerTask{stop: make(chan struct{})}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				// Cancel may race with a tick already received; prefer stopping.
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}

type tickerTask struct {
	once sync.Once
	stop chan struct{}
}

func (t *tickerTask) Cancel() {
	t.once.Do(func() { close(t.stop) })
}
