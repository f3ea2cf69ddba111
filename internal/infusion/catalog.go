package infusion

// Dimension names one of the two stepped selections.
type Dimension int

const (
	Volume Dimension = iota
	Duration
)

func (d Dimension) String() string {
	if d == Duration {
		return "duration"
	}
	return "volume"
}

// Catalog is an ordered, strictly ascending list of permitted values.
// Volumes are in milliliters, durations in minutes.
type Catalog []int

// Index returns the position of v, or -1 when v is not in the catalog.
func (c Catalog) Index(v int) int {
	for i, x := range c {
		if x == v {
			return i
		}
	}
	return -1
}

func (c Catalog) last() int { return len(c) - 1 }

type preset struct {
	volumes       Catalog
	durations     Catalog
	volumeIndex   int
	durationIndex int
}

//nolint:gochecknoglobals // Fixed clinical presets.
var presets = map[Mode]preset{
	Solute: {
		volumes:       Catalog{50, 100, 250, 350, 500, 1000, 1500, 3000},
		durations:     Catalog{10, 15, 20, 30, 60, 120, 240, 360, 480, 720, 960, 1440},
		volumeIndex:   1, // 100 ml
		durationIndex: 3, // 30 min
	},
	Blood: {
		volumes:       Catalog{350},
		durations:     Catalog{30, 60, 90, 120},
		volumeIndex:   0, // 350 ml
		durationIndex: 1, // 60 min
	},
}

// Volumes returns a copy of the mode's volume catalog.
func Volumes(m Mode) Catalog { return clone(presetFor(m).volumes) }

// Durations returns a copy of the mode's duration catalog.
func Durations(m Mode) Catalog { return clone(presetFor(m).durations) }

// CatalogFor returns the catalog of the given dimension for a mode.
func CatalogFor(m Mode, d Dimension) Catalog {
	if d == Duration {
		return Durations(m)
	}
	return Volumes(m)
}

func presetFor(m Mode) preset {
	if p, ok := presets[m]; ok {
		return p
	}
	return presets[Solute]
}

func clone(c Catalog) Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	return out
}
