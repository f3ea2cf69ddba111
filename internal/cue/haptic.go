package cue

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const hapticTimeout = 500 * time.Millisecond

// CommandVibrator triggers a haptic pulse by running an external command,
// e.g. `termux-vibrate -d 50` on Android terminals. The command runs in the
// background so a slow helper never delays the beat. At most one command runs
// at a time; pulses falling on a running command are skipped.
type CommandVibrator struct {
	argv     []string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, path string, args ...string) error

	once     sync.Once
	path     string
	err      error
	inFlight atomic.Bool
}

// NewCommandVibrator returns a vibrator for argv. An empty argv yields an unsupported vibrator.
func NewCommandVibrator(argv []string) *CommandVibrator {
	return &CommandVibrator{
		argv:     append([]string(nil), argv...),
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

// Emit implements Modality.
func (v *CommandVibrator) Emit() error {
	v.once.Do(v.resolve)
	if v.err != nil {
		return v.err
	}
	if !v.inFlight.CompareAndSwap(false, true) {
		logrus.Debug("haptic pulse skipped: previous command still running")
		return nil
	}
	args := v.argv[1:]
	go func() {
		defer v.inFlight.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), hapticTimeout)
		defer cancel()
		if err := v.run(ctx, v.path, args...); err != nil {
			logrus.Debugf("haptic command failed: %v", err)
		}
	}()
	return nil
}

func (v *CommandVibrator) resolve() {
	if len(v.argv) == 0 {
		v.err = ErrUnsupported
		return
	}
	path, err := v.lookPath(v.argv[0])
	if err != nil {
		v.err = fmt.Errorf("%w: %s not found", ErrUnsupported, v.argv[0])
		return
	}
	v.path = path
}

func runCommand(ctx context.Context, path string, args ...string) error {
	return exec.CommandContext(ctx, path, args...).Run()
}
