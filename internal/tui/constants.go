package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	channelBufferSize = 256
	configBufferSize  = 4

	// flashMaxMS caps the drop glyph highlight; fast rates shorten it to half an interval.
	flashMaxMS = 150
	// statusClearSeconds is how long transient status lines (clipboard) stay visible.
	statusClearSeconds = 3

	progressWidth = 40
	panelWidth    = 44
	mutedColor    = "241"
	disabledColor = "238"

	flashMax    = time.Duration(flashMaxMS) * time.Millisecond
	statusClear = time.Duration(statusClearSeconds) * time.Second
)
