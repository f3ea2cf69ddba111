// Package chart renders every volume/duration combination of a mode as a
// drip-rate lookup table, for the terminal, for scripts (JSON) or for print (PDF).
package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/goutte-app/goutte/internal/infusion"
)

// Chart is the drip-rate grid of one mode.
type Chart struct {
	Mode      infusion.Mode     `json:"mode"`
	Volumes   []int             `json:"volumes_ml"`
	Durations []int             `json:"durations_min"`
	Rows      []infusion.Result `json:"rows"`
}

// Build computes the chart of a mode.
func Build(m infusion.Mode) Chart {
	return Chart{
		Mode:      m,
		Volumes:   infusion.Volumes(m),
		Durations: infusion.Durations(m),
		Rows:      infusion.Table(m),
	}
}

// At returns the result for the i-th volume and j-th duration.
func (c Chart) At(i, j int) infusion.Result {
	return c.Rows[i*len(c.Durations)+j]
}

// Print writes the chart to w, as indented JSON when jsonOutput is set,
// otherwise as a bordered table tinted with color.
func Print(w io.Writer, c Chart, f infusion.Formatter, color string, jsonOutput bool) error {
	if jsonOutput {
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}
	_, err := fmt.Fprintln(w, Render(c, f, color))
	return err
}

// Render returns the chart as a table: one row per volume, one column per duration.
// Cells hold drops per minute; solute cells add the ml/h rate.
func Render(c Chart, f infusion.Formatter, color string) string {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	headers := make([]string, 0, len(c.Durations)+1)
	headers = append(headers, "")
	for _, d := range c.Durations {
		headers = append(headers, f.Duration(d))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return accent.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
		})

	for i, v := range c.Volumes {
		row := make([]string, 0, len(c.Durations)+1)
		row = append(row, f.Volume(v))
		for j := range c.Durations {
			row = append(row, cell(c.At(i, j)))
		}
		t.Row(row...)
	}

	title := accent.Render(fmt.Sprintf("%s - drops/min (drop factor %d)", c.Mode.Label(), c.Mode.DropFactor()))
	return title + "\n" + t.Render()
}

func cell(r infusion.Result) string {
	s := strconv.Itoa(r.DropsPerMinute)
	if r.ShowsFlowRate() {
		s += " · " + strconv.Itoa(r.FlowRateMLH)
	}
	return s
}
