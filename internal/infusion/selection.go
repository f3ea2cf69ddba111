package infusion

import "math"

const minutesPerHour = 60

// Result is the derived output of a selection.
type Result struct {
	Mode           Mode `json:"mode"`
	VolumeML       int  `json:"volume_ml"`
	DurationMin    int  `json:"duration_min"`
	DropFactor     int  `json:"drop_factor"`
	DropsPerMinute int  `json:"drops_per_minute"`
	FlowRateMLH    int  `json:"flow_rate_ml_h"`
}

// ShowsFlowRate reports whether FlowRateMLH is meaningful for the result's mode.
func (r Result) ShowsFlowRate() bool { return r.Mode.ShowsFlowRate() }

// Compute derives the drip rate and flow rate. Rounding is half away from zero.
func Compute(m Mode, volumeML, durationMin int) Result {
	r := Result{
		Mode:        m,
		VolumeML:    volumeML,
		DurationMin: durationMin,
		DropFactor:  m.DropFactor(),
	}
	if durationMin <= 0 {
		return r
	}
	r.DropsPerMinute = int(math.Round(float64(volumeML*r.DropFactor) / float64(durationMin)))
	r.FlowRateMLH = int(math.Round(float64(volumeML) / float64(durationMin) * minutesPerHour))
	return r
}

// Selection is the calculator state: a mode and one index into each of its catalogs.
// The zero value is not usable; construct with NewSelection or SelectValues.
type Selection struct {
	mode          Mode
	volumeIndex   int
	durationIndex int
	result        Result
}

// NewSelection returns a selection on the mode's default volume and duration.
func NewSelection(m Mode) *Selection {
	s := &Selection{}
	s.SetMode(m)
	return s
}

// SelectValues returns a selection pointing at explicit catalog values.
func SelectValues(m Mode, volumeML, durationMin int) (*Selection, error) {
	s := NewSelection(m)
	vi := presetFor(s.mode).volumes.Index(volumeML)
	if vi < 0 {
		return nil, NotInCatalogError{Mode: s.mode, Dimension: Volume, Value: volumeML, Allowed: Volumes(s.mode)}
	}
	di := presetFor(s.mode).durations.Index(durationMin)
	if di < 0 {
		return nil, NotInCatalogError{Mode: s.mode, Dimension: Duration, Value: durationMin, Allowed: Durations(s.mode)}
	}
	s.volumeIndex, s.durationIndex = vi, di
	s.recompute()
	return s, nil
}

// SetMode switches mode and resets both indices to the mode defaults.
// Indices are never carried across modes because the catalogs are unrelated.
func (s *Selection) SetMode(m Mode) {
	if _, ok := presets[m]; !ok {
		m = Solute
	}
	p := presets[m]
	s.mode = m
	s.volumeIndex = p.volumeIndex
	s.durationIndex = p.durationIndex
	s.recompute()
}

// Step moves one dimension by delta (-1 or +1). Steps past a catalog edge are ignored.
func (s *Selection) Step(d Dimension, delta int) {
	if !s.CanStep(d, delta) {
		return
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	if d == Duration {
		s.durationIndex += step
	} else {
		s.volumeIndex += step
	}
	s.recompute()
}

// CanStep reports whether Step(d, delta) would move the index.
func (s *Selection) CanStep(d Dimension, delta int) bool {
	idx, c := s.volumeIndex, presetFor(s.mode).volumes
	if d == Duration {
		idx, c = s.durationIndex, presetFor(s.mode).durations
	}
	switch {
	case delta < 0:
		return idx > 0
	case delta > 0:
		return idx < c.last()
	default:
		return false
	}
}

func (s *Selection) Mode() Mode          { return s.mode }
func (s *Selection) VolumeIndex() int    { return s.volumeIndex }
func (s *Selection) DurationIndex() int  { return s.durationIndex }
func (s *Selection) VolumeML() int       { return presetFor(s.mode).volumes[s.volumeIndex] }
func (s *Selection) DurationMin() int    { return presetFor(s.mode).durations[s.durationIndex] }
func (s *Selection) Result() Result      { return s.result }
func (s *Selection) DropsPerMinute() int { return s.result.DropsPerMinute }
func (s *Selection) FlowRateMLH() int    { return s.result.FlowRateMLH }
func (s *Selection) Catalog(d Dimension) Catalog {
	return CatalogFor(s.mode, d)
}

// recompute refreshes the cached result; it is the only writer of s.result.
func (s *Selection) recompute() {
	s.volumeIndex = clampIndex(s.volumeIndex, presetFor(s.mode).volumes)
	s.durationIndex = clampIndex(s.durationIndex, presetFor(s.mode).durations)
	s.result = Compute(s.mode, s.VolumeML(), s.DurationMin())
}

func clampIndex(i int, c Catalog) int {
	return min(max(i, 0), c.last())
}

// Table computes every volume/duration combination of a mode, volumes outermost.
func Table(m Mode) []Result {
	p := presetFor(m)
	out := make([]Result, 0, len(p.volumes)*len(p.durations))
	for _, v := range p.volumes {
		for _, d := range p.durations {
			out = append(out, Compute(m, v, d))
		}
	}
	return out
}

// isAscending reports whether a catalog is non-empty and strictly ascending.
func isAscending(c Catalog) bool {
	if len(c) == 0 {
		return false
	}
	for i := 1; i < len(c); i++ {
		if c[i] <= c[i-1] {
			return false
		}
	}
	return true
}
