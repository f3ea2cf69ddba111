package infusion

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const mlPerLiter = 1000

// DefaultLocale is used when no locale is configured. Its decimal separator is a comma.
//
//nolint:gochecknoglobals // Immutable language tag.
var DefaultLocale = language.French

// Formatter renders volumes, durations and rates for display.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter returns a formatter for the given locale tag.
func NewFormatter(tag language.Tag) Formatter {
	return Formatter{tag: tag, printer: message.NewPrinter(tag)}
}

// NewFormatterFor parses a BCP 47 locale, falling back to DefaultLocale when it is empty or invalid.
func NewFormatterFor(locale string) Formatter {
	if locale == "" {
		return NewFormatter(DefaultLocale)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return NewFormatter(DefaultLocale)
	}
	return NewFormatter(tag)
}

// Locale returns the formatter's language tag.
func (f Formatter) Locale() language.Tag { return f.tag }

// Volume renders milliliters below one liter, liters from one liter up.
// Fractional liters keep exactly one decimal with the locale separator.
func (f Formatter) Volume(ml int) string {
	if ml < mlPerLiter {
		return fmt.Sprintf("%d ml", ml)
	}
	if ml%mlPerLiter == 0 {
		return fmt.Sprintf("%d L", ml/mlPerLiter)
	}
	liters := float64(ml) / mlPerLiter
	return f.p().Sprintf("%v L", number.Decimal(liters, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
}

// Duration renders minutes below one hour, hours from one hour up.
func (f Formatter) Duration(minutes int) string {
	if minutes < minutesPerHour {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/minutesPerHour, minutes%minutesPerHour
	switch m {
	case 0:
		return fmt.Sprintf("%d h", h)
	case 30: //nolint:mnd // Half hour keeps the compact form explicitly.
		return fmt.Sprintf("%dh30", h)
	default:
		return fmt.Sprintf("%dh%d", h, m)
	}
}

// FlowRate renders the ml/h rate, or an empty string when the mode does not show it.
func (f Formatter) FlowRate(r Result) string {
	if !r.ShowsFlowRate() {
		return ""
	}
	return fmt.Sprintf("%d ml/h", r.FlowRateMLH)
}

// Drops renders the drip rate.
func (f Formatter) Drops(r Result) string {
	return fmt.Sprintf("%d gtt/min", r.DropsPerMinute)
}

func (f Formatter) p() *message.Printer {
	if f.printer == nil {
		return message.NewPrinter(DefaultLocale)
	}
	return f.printer
}
