// Package cue emits the compound flash/tone/vibration signal of one metronome beat.
// Each modality is optional; a missing or failing modality only skips itself.
package cue

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrUnsupported reports that a modality is not available on this platform.
var ErrUnsupported = errors.New("cue modality unsupported")

// Outcome is the per-modality result of one cue.
type Outcome int

const (
	Delivered Outcome = iota
	Degraded
	Unavailable
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Degraded:
		return "degraded"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Modality is a single output channel of the cue.
type Modality interface {
	Emit() error
}

// Signal fires a cue and reports how each modality fared. It never fails.
type Signal interface {
	Fire() Report
}

// Report collects the outcome of each modality for one cue.
type Report struct {
	Visual Outcome
	Audio  Outcome
	Haptic Outcome
}

// Degraded reports whether any modality that exists failed to deliver.
func (r Report) Degraded() bool {
	return r.Visual == Degraded || r.Audio == Degraded || r.Haptic == Degraded
}

// Compound emits visual, audio and haptic modalities in that order.
// Nil modalities are reported as Unavailable.
type Compound struct {
	Visual Modality
	Audio  Modality
	Haptic Modality
}

// Fire implements Signal.
func (c Compound) Fire() Report {
	return Report{
		Visual: emit("visual", c.Visual),
		Audio:  emit("audio", c.Audio),
		Haptic: emit("haptic", c.Haptic),
	}
}

func emit(name string, m Modality) Outcome {
	if m == nil {
		return Unavailable
	}
	err := m.Emit()
	switch {
	case err == nil:
		return Delivered
	case errors.Is(err, ErrUnsupported):
		return Unavailable
	default:
		logrus.Debugf("%s cue degraded: %v", name, err)
		return Degraded
	}
}

// FlashFunc adapts a function into the visual modality.
type FlashFunc func()

// Emit implements Modality.
func (f FlashFunc) Emit() error {
	if f == nil {
		return ErrUnsupported
	}
	f()
	return nil
}
