package chart

import (
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/goutte-app/goutte/internal/infusion"
)

const (
	pageMarginMM   = 10.0
	titleHeightMM  = 10.0
	rowHeightMM    = 8.0
	labelWidthMM   = 24.0
	landscapeWidth = 297.0
)

// WritePDF writes a printable A4 landscape chart for every given mode to path.
func WritePDF(path string, f infusion.Formatter, charts ...Chart) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	for _, c := range charts {
		addChartPage(pdf, c, f)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write chart pdf: %w", err)
	}
	return nil
}

func addChartPage(pdf *fpdf.Fpdf, c Chart, f infusion.Formatter) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, titleHeightMM, fmt.Sprintf("%s - drops per minute (drop factor %d)", c.Mode.Label(), c.Mode.DropFactor()), "", 1, "L", false, 0, "")
	if c.Mode.ShowsFlowRate() {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, rowHeightMM/2, "Each cell: drops/min / ml/h", "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	colWidth := (landscapeWidth - 2*pageMarginMM - labelWidthMM) / float64(len(c.Durations))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(labelWidthMM, rowHeightMM, "", "1", 0, "C", true, 0, "")
	for _, d := range c.Durations {
		pdf.CellFormat(colWidth, rowHeightMM, f.Duration(d), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for i, v := range c.Volumes {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(labelWidthMM, rowHeightMM, f.Volume(v), "1", 0, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for j := range c.Durations {
			r := c.At(i, j)
			text := strconv.Itoa(r.DropsPerMinute)
			if r.ShowsFlowRate() {
				text += " / " + strconv.Itoa(r.FlowRateMLH)
			}
			pdf.CellFormat(colWidth, rowHeightMM, text, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
