package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"tripdash/internal/domain"
	"tripdash/internal/domain/models"
	"tripdash/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// maxChartBars caps the PDF chart; the groups table below it is complete.
const maxChartBars = 25

// ReportPDF renders the current dashboard view as a printable document.
func (s DashboardService) ReportPDF(ctx context.Context, q DashboardQuery) ([]byte, string, error) {
	d, err := s.Dashboard(ctx, q)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "reports", "dashboard_pdf", fmt.Sprintf("rows=%d group_by=%s", d.Summary.TotalCount, d.GroupBy))
	return buildDashboardPDF(d)
}

func buildDashboardPDF(d models.Dashboard) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Dashboard", false)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TRIP DASHBOARD")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	filters := []string{
		"Cities     : " + listOrDash(d.Criteria.Cities),
		"Brands     : " + listOrDash(d.Criteria.Brands),
		fmt.Sprintf("Pickup     : %s to %s", utils.FormatDateTime(d.Criteria.Start), utils.FormatDateTime(d.Criteria.End)),
		"Grouped by : " + domain.TitleKey(d.GroupBy),
	}
	for _, line := range filters {
		pdf.MultiCell(0, 6, tr(line), "", "", false)
	}
	pdf.Ln(4)

	metrics := [][2]string{
		{"Total Trips", utils.FormatNumber(d.Summary.TotalCount)},
		{"Total Revenue ($)", utils.FormatMoney(d.Summary.TotalRevenue)},
		{"Avg Trip Distance (miles)", utils.FormatDecimal(d.Summary.AvgDistance)},
	}
	pdf.SetFont("Helvetica", "B", 10)
	for _, m := range metrics {
		pdf.CellFormat(60, 7, m[0], "1", 0, "C", false, 0, "")
	}
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	for _, m := range metrics {
		pdf.CellFormat(60, 9, m[1], "1", 0, "C", false, 0, "")
	}
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr(d.Chart.Title))
	pdf.Ln(10)
	if len(d.Chart.Points) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "No trips match the current filters.")
		pdf.Ln(8)
	} else {
		drawBarChart(pdf, tr, d.Chart)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 7, tr(d.Chart.XAxis), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, d.Chart.YAxis, "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, g := range d.Groups {
		pdf.CellFormat(130, 6, tr(truncate(g.Key, 70)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, utils.FormatNumber(g.Count), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("TRIP_DASHBOARD_%s_%s.pdf", utils.SafeFilenamePart(string(d.GroupBy)), utils.FormatDate(d.Criteria.End))
	return buf.Bytes(), filename, nil
}

// drawBarChart draws vertical bars scaled to the largest count.
func drawBarChart(pdf *gofpdf.Fpdf, tr func(string) string, chart models.ChartConfig) {
	points := chart.Points
	more := 0
	if len(points) > maxChartBars {
		more = len(points) - maxChartBars
		points = points[:maxChartBars]
	}

	const (
		left   = 15.0
		width  = 180.0
		height = 60.0
	)
	top := pdf.GetY()
	base := top + height

	maxVal := 0
	for _, p := range points {
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	slot := width / float64(len(points))
	barW := slot * 0.7
	pdf.SetDrawColor(160, 160, 160)
	pdf.Line(left, base, left+width, base)

	pdf.SetFont("Helvetica", "", 7)
	for i, p := range points {
		h := height * float64(p.Value) / float64(maxVal)
		x := left + float64(i)*slot + (slot-barW)/2
		r, g, b := hexToRGB(p.Color)
		pdf.SetFillColor(r, g, b)
		pdf.Rect(x, base-h, barW, h, "F")

		pdf.SetXY(x-1, base-h-4)
		pdf.CellFormat(barW+2, 4, strconv.Itoa(p.Value), "", 0, "C", false, 0, "")
		pdf.SetXY(x-1, base+1)
		pdf.CellFormat(barW+2, 4, tr(truncate(p.Label, int(slot/1.6)+1)), "", 0, "C", false, 0, "")
	}

	pdf.SetXY(left, base+7)
	if more > 0 {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("%d more groups listed in the table below.", more))
	}
	pdf.Ln(8)
}

func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 99, 110, 250
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 99, 110, 250
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func listOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 1 || len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "."
}
