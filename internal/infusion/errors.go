package infusion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownMode is returned when a mode name is neither solute nor blood.
var ErrUnknownMode = errors.New("unknown mode")

// NotInCatalogError reports a value that is not one of the mode's preset values.
type NotInCatalogError struct {
	Mode      Mode
	Dimension Dimension
	Value     int
	Allowed   []int
}

func (e NotInCatalogError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, v := range e.Allowed {
		allowed = append(allowed, strconv.Itoa(v))
	}
	return fmt.Sprintf("%s %d is not available in %s mode (allowed: %s)",
		e.Dimension, e.Value, e.Mode, strings.Join(allowed, ", "))
}
