package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goutte-app/goutte/internal/cadence"
	"github.com/goutte-app/goutte/internal/infusion"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	accent := lipgloss.Color(m.cfg.Color(m.sel.Mode()))

	var b strings.Builder
	b.WriteString(renderTabs(m.sel.Mode(), m.cfg.Color(infusion.Solute), m.cfg.Color(infusion.Blood)))
	b.WriteString("\n\n")
	b.WriteString(renderStepper(m, infusion.Volume, m.format.Volume(m.sel.VolumeML())))
	b.WriteString("\n")
	b.WriteString(renderStepper(m, infusion.Duration, m.format.Duration(m.sel.DurationMin())))
	b.WriteString("\n\n")
	b.WriteString(renderResult(m.format, m.sel.Result(), accent))
	b.WriteString("\n\n")
	b.WriteString(renderMetronome(m, accent))

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(panelWidth).
		Render(b.String())

	var out strings.Builder
	out.WriteString(panel)
	out.WriteString("\n")
	if m.status != "" {
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColor)).Render(m.status))
		out.WriteString("\n")
	}
	out.WriteString(m.help.View(m.keys))
	return out.String()
}

// renderTabs draws one tab per mode, the active one filled with its color.
func renderTabs(active infusion.Mode, soluteColor, bloodColor string) string {
	colors := map[infusion.Mode]string{infusion.Solute: soluteColor, infusion.Blood: bloodColor}
	tabs := make([]string, 0, len(colors))
	for i, mode := range infusion.Modes() {
		label := fmt.Sprintf("%d %s", i+1, mode.Label())
		style := lipgloss.NewStyle().Padding(0, 1)
		if mode == active {
			style = style.Bold(true).
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color(colors[mode]))
		} else {
			style = style.Foreground(lipgloss.Color(colors[mode]))
		}
		tabs = append(tabs, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderStepper draws one dimension with its decrease/increase controls,
// dimmed at the catalog edges.
func renderStepper(m Model, d infusion.Dimension, value string) string {
	label := lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color(mutedColor)).Render(d.String())
	value = lipgloss.NewStyle().Width(10).Align(lipgloss.Center).Bold(true).Render(value)
	return label + control("−", m.sel.CanStep(d, -1)) + value + control("+", m.sel.CanStep(d, 1))
}

func control(glyph string, enabled bool) string {
	style := lipgloss.NewStyle().Padding(0, 1)
	if !enabled {
		style = style.Foreground(lipgloss.Color(disabledColor))
	}
	return style.Render(glyph)
}

func renderResult(f infusion.Formatter, r infusion.Result, accent lipgloss.Color) string {
	drops := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(f.Drops(r))
	line := drops
	if rate := f.FlowRate(r); rate != "" {
		line += lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColor)).Render("   " + rate)
	}
	factor := lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColor)).
		Render(fmt.Sprintf("drop factor %d gtt/ml", r.Mode.DropFactor()))
	return line + "\n" + factor
}

// renderMetronome draws the drop glyph, the countdown and its progress bar
// while a session runs, otherwise a start hint and the last stop reason.
func renderMetronome(m Model, accent lipgloss.Color) string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(mutedColor))
	if !m.metro.running {
		s := muted.Render("enter: start metronome")
		if m.lastStop != "" {
			s += "\n" + muted.Render("last session: "+m.lastStop)
		}
		return s
	}

	glyph := muted.Render("○")
	if m.metro.flashOn {
		glyph = lipgloss.NewStyle().Bold(true).Foreground(accent).Render("●")
	}
	head := fmt.Sprintf("%s  pacing %d gtt/min  %2d s", glyph, m.metro.drops, m.metro.remaining)

	pct := float64(m.metro.remaining) / float64(cadence.SessionSeconds)
	var b strings.Builder
	b.WriteString(head)
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(pct))
	if m.metro.degraded {
		b.WriteString("\n")
		b.WriteString(muted.Render("audio unavailable: visual cue only"))
	}
	return b.String()
}
