package cue

import "sync/atomic"

// Toggle wraps a modality that can be switched off at runtime, e.g. after a config reload.
// A disabled toggle reports ErrUnsupported without touching the wrapped modality.
type Toggle struct {
	enabled atomic.Bool
	inner   Modality
}

// NewToggle wraps m, initially enabled or not.
func NewToggle(m Modality, enabled bool) *Toggle {
	t := &Toggle{inner: m}
	t.enabled.Store(enabled)
	return t
}

// Set switches the modality on or off.
func (t *Toggle) Set(enabled bool) { t.enabled.Store(enabled) }

// Enabled reports the current switch position.
func (t *Toggle) Enabled() bool { return t.enabled.Load() }

// Emit implements Modality.
func (t *Toggle) Emit() error {
	if !t.enabled.Load() || t.inner == nil {
		return ErrUnsupported
	}
	return t.inner.Emit()
}
