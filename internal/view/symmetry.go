package view

import (
	"fmt"
	"math"
	"strconv"

	"dexadash/domain/scan"
	"dexadash/internal/metrics"
)

// SymmetryView is the symmetry page
type SymmetryView struct {
	Patient      string                  `json:"patient"`
	Records      []scan.SymmetryRecord   `json:"records"`
	Charts       []Chart                 `json:"charts"`
	Table        Table                   `json:"table"`
	Summaries    []metrics.RegionSummary `json:"summaries"`
	SummaryBlock TextBlock               `json:"summary_block"`
	Placeholder  string                  `json:"placeholder,omitempty"`
}

// Symmetry derives the patient's per-scan symmetry scores and charts each region
func (a *Assembler) Symmetry(patient string) SymmetryView {
	v := SymmetryView{Patient: patient}

	records := metrics.CalculateSymmetry(a.dataset.ScansFor(patient, nil))
	if len(records) == 0 {
		v.Placeholder = NoDataMessage
		return v
	}
	v.Records = records

	v.Table.Columns = []string{"Scan Date"}
	for _, region := range scan.Regions {
		v.Charts = append(v.Charts, symmetryChart(region, records))
		v.Table.Columns = append(v.Table.Columns, region.Label())
		v.Summaries = append(v.Summaries, metrics.SummarizeSymmetry(records, region))
	}
	for _, rec := range records {
		row := []string{rec.ScanDate.Format(tableDate)}
		for _, region := range scan.Regions {
			if score, ok := rec.Score(region); ok {
				row = append(row, formatScore(score))
			} else {
				row = append(row, "")
			}
		}
		v.Table.Rows = append(v.Table.Rows, row)
	}
	v.SummaryBlock = summaryBlock(v.Summaries)
	return v
}

func symmetryChart(region scan.Region, records []scan.SymmetryRecord) Chart {
	c := Chart{
		ID:       "symmetry-" + slug(string(region)),
		Title:    region.Label(),
		XTitle:   "Date",
		YTitle:   "Symmetry Score",
		YRange:   []float64{-0.5, 0.5},
		Height:   300,
		ZeroLine: true,
		Bands: []Band{
			{From: -0.5, To: 0, Color: colorLeftBand},
			{From: 0, To: 0.5, Color: colorRightBand},
		},
		Annotations: []Annotation{
			{Text: "Right side dominant →", X: 0.02, Y: 0.98},
			{Text: "← Left side dominant", X: 0.02, Y: 0.02},
		},
	}
	s := Series{Name: region.Label(), Mode: ModeLinesMarkers, Axis: AxisPrimary}
	for _, rec := range records {
		if score, ok := rec.Score(region); ok {
			s.Points = append(s.Points, Point{Date: rec.ScanDate, Value: score})
		}
	}
	if len(s.Points) == 0 {
		c.Placeholder = fmt.Sprintf("No %s data available", region.Label())
		return c
	}
	c.Series = []Series{s}
	return c
}

// formatScore rounds to three decimals and drops trailing zeros
func formatScore(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func summaryBlock(summaries []metrics.RegionSummary) TextBlock {
	b := TextBlock{Title: "Symmetry Summary"}
	for _, s := range summaries {
		if s.Count == 0 {
			b.Lines = append(b.Lines, fmt.Sprintf("**%s**: no scans", s.Region.Label()))
			continue
		}
		line := fmt.Sprintf("**%s**: mean %+.3f, std dev %.3f over %d scans", s.Region.Label(), s.Mean, s.StdDev, s.Count)
		if s.HasSlope {
			line += fmt.Sprintf(", trend %+.4f per 30 days", s.SlopePer30Days)
		}
		b.Lines = append(b.Lines, line)
	}
	return b
}
