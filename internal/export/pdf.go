// Package export writes container loading results to PDF reports, label
// sheets, DXF wireframes and Excel load plans.
package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/CargoFill/internal/model"
)

// boxColor represents an RGB color for a placed box.
type boxColor struct {
	R, G, B int
}

var boxColors = []boxColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func colorFor(boxID int) boxColor {
	return boxColors[boxID%len(boxColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF report of a packing result. Every distinct resting
// height gets a top-down plan page showing the boxes that start at that level,
// followed by a summary page with the run statistics.
func ExportPDF(path string, result model.PackResult) error {
	if result.Container.Volume() == 0 {
		return fmt.Errorf("container %s has no volume", result.Container)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	levels := Levels(result.Placements)
	for i, z := range levels {
		pdf.AddPage()
		renderLevelPage(pdf, result, z, i+1, len(levels))
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// Levels returns the distinct Z values of the placements, lowest first.
func Levels(placements []model.Placement) []int {
	seen := make(map[int]bool)
	var levels []int
	for _, p := range placements {
		if !seen[p.Z] {
			seen[p.Z] = true
			levels = append(levels, p.Z)
		}
	}
	sort.Ints(levels)
	return levels
}

// renderLevelPage draws a plan view of one loading level on the current page.
// Boxes from lower levels that reach through this level are drawn grey.
func renderLevelPage(pdf *fpdf.Fpdf, result model.PackResult, z, levelNum, levelCount int) {
	c := result.Container

	var onLevel, below []model.Placement
	for _, p := range result.Placements {
		switch {
		case p.Z == z:
			onLevel = append(onLevel, p)
		case p.Z < z && p.MaxZ() > z:
			below = append(below, p)
		}
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Level %d of %d: Z = %d mm (container %s mm)", levelNum, levelCount, z, c)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Boxes on level: %d | Passing through: %d | Run %s", len(onLevel), len(below), result.RunID)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/float64(c.Length), drawHeight/float64(c.Width))
	canvasW := float64(c.Length) * scale
	canvasH := float64(c.Width) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Container floor
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	pdf.SetLineWidth(0.2)
	for _, p := range below {
		pdf.SetFillColor(200, 200, 200)
		pdf.SetDrawColor(150, 150, 150)
		pdf.Rect(offsetX+float64(p.X)*scale, offsetY+float64(p.Y)*scale,
			float64(p.Length)*scale, float64(p.Width)*scale, "FD")
	}

	for _, p := range onLevel {
		col := colorFor(p.Box.ID)
		pw := float64(p.Length) * scale
		ph := float64(p.Width) * scale
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := fmt.Sprintf("#%d", p.Box.ID)
			dims := fmt.Sprintf("%dx%dx%d", p.Length, p.Width, p.Height)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, c, offsetX, offsetY, canvasW, canvasH)
	drawBoxLegend(pdf, onLevel, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds length and width labels outside the container outline.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Container, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	lengthLabel := fmt.Sprintf("%d mm", c.Length)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX+(canvasW-lLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")

	widthLabel := fmt.Sprintf("%d mm", c.Width)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX-3-wLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawBoxLegend renders a compact legend of the boxes on a level.
func drawBoxLegend(pdf *fpdf.Fpdf, placements []model.Placement, startY float64) {
	if len(placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Boxes placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, p := range placements {
		col := colorFor(p.Box.ID)
		label := fmt.Sprintf("#%d %s @(%d,%d)", p.Box.ID, p.Box.Label, p.X, p.Y)
		if p.Rotated() {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with the run statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Container Loading Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	for _, item := range SummaryItems(result) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.Label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(180, 6, item.Value, "", 0, "L", false, 0, "")
		y += 7
	}

	if len(result.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Boxes", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, b := range result.Unplaced {
			if y > pageHeight-marginBottom-10 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, "...", "", 0, "L", false, 0, "")
				break
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- #%d %s: %d x %d x %d mm", b.ID, b.Label, b.Length, b.Width, b.Height)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CargoFill - 3D Container Loading Optimizer", "", 0, "C", false, 0, "")
}

// SummaryItem is one labelled statistic of a packing result.
type SummaryItem struct {
	Label string
	Value string
}

// SummaryItems lists the statistics shown on report summary pages.
func SummaryItems(result model.PackResult) []SummaryItem {
	return []SummaryItem{
		{"Run", result.RunID},
		{"Container", result.Container.String() + " mm"},
		{"Fill Ratio", fmt.Sprintf("%.1f%%", result.FillPercent())},
		{"Boxes Placed", fmt.Sprintf("%d", len(result.Placements))},
		{"Boxes Unplaced", fmt.Sprintf("%d", len(result.Unplaced))},
		{"Unplaced IDs", joinIDs(result.UnplacedIDs())},
		{"Floating IDs", joinIDs(result.FloatingIDs)},
		{"Algorithm", string(result.Algorithm)},
		{"Seed", fmt.Sprintf("%d", result.Seed)},
		{"Trials / Batches", fmt.Sprintf("%d / %d", result.TrialsRun, result.BatchesRun)},
		{"Stop Reason", string(result.StopReason)},
		{"Elapsed", result.Elapsed.String()},
	}
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
