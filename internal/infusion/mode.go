package infusion

import (
	"fmt"
	"strings"
)

// Mode selects the infusion set: its catalogs, drop factor and display rules.
type Mode string

const (
	Solute Mode = "solute"
	Blood  Mode = "blood"
)

// Drop factors of the infusion sets, in drops per milliliter.
const (
	soluteDropFactor = 20
	bloodDropFactor  = 15
)

// Modes lists every mode in display order.
func Modes() []Mode { return []Mode{Solute, Blood} }

// ParseMode accepts a mode name case-insensitively. "sang" is accepted as an alias of blood.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Solute):
		return Solute, nil
	case string(Blood), "sang":
		return Blood, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// DropFactor returns the drops-per-milliliter constant of the mode's infusion set.
func (m Mode) DropFactor() int {
	if m == Blood {
		return bloodDropFactor
	}
	return soluteDropFactor
}

// ShowsFlowRate reports whether the ml/h rate is displayed for this mode.
func (m Mode) ShowsFlowRate() bool { return m == Solute }

// Label is the human-facing tab title.
func (m Mode) Label() string {
	if m == Blood {
		return "Blood"
	}
	return "Solute"
}

func (m Mode) String() string { return string(m) }
