package cue

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const (
	bellByte  = '\a'
	ttyDevice = "/dev/tty"
)

// ErrAudioLocked reports that the audio output exists but cannot sound yet.
var ErrAudioLocked = errors.New("audio output locked")

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// Bell sounds the terminal bell. The output is opened on the first Emit and
// reused for the life of the process; readiness is re-checked on every Emit.
type Bell struct {
	mu    sync.Mutex
	open  func() (io.Writer, error)
	ready func(io.Writer) bool
	out   io.Writer
}

// NewBell returns a bell on the controlling terminal.
func NewBell() *Bell {
	return &Bell{open: openTTY, ready: isTerminal}
}

// newBellWriter returns a bell writing to w. Writers without a file descriptor are always ready.
func newBellWriter(w io.Writer) *Bell {
	return &Bell{
		open:  func() (io.Writer, error) { return w, nil },
		ready: isTerminal,
	}
}

// Emit implements Modality.
func (b *Bell) Emit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.out == nil {
		out, err := b.open()
		if err != nil {
			return fmt.Errorf("open audio output: %w", err)
		}
		b.out = out
	}
	if b.ready != nil && !b.ready(b.out) {
		return ErrAudioLocked
	}
	if _, err := b.out.Write([]byte{bellByte}); err != nil {
		return fmt.Errorf("write bell: %w", err)
	}
	return nil
}

func openTTY() (io.Writer, error) {
	return os.OpenFile(ttyDevice, os.O_WRONLY, 0)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return true
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in int.
}
