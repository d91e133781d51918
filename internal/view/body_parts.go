package view

import (
	"fmt"
	"time"

	"dexadash/domain/scan"
	"dexadash/internal/metrics"
)

// Button is one body-part toggle
type Button struct {
	Part     scan.BodyPart `json:"part"`
	Color    string        `json:"color"`
	Selected bool          `json:"selected"`
}

// ButtonGroup is a labelled row of toggles
type ButtonGroup struct {
	Name    string   `json:"name"`
	Buttons []Button `json:"buttons"`
}

// LatestMeasurement holds a part's values at the most recent scan
type LatestMeasurement struct {
	Part        scan.BodyPart `json:"part"`
	Date        time.Time     `json:"date"`
	FatGrams    float64       `json:"fat_g"`
	LeanGrams   float64       `json:"lean_g"`
	TotalMassKg float64       `json:"total_mass_kg"`
	Ratio       float64       `json:"ratio"`
	RatioLabel  string        `json:"ratio_label"`
}

// BodyPartView is the body-part trend page
type BodyPartView struct {
	Patient     string              `json:"patient"`
	Selected    []scan.BodyPart     `json:"selected"`
	Groups      []ButtonGroup       `json:"groups"`
	Charts      []Chart             `json:"charts"`
	RatioChart  *Chart              `json:"ratio_chart,omitempty"`
	Latest      []LatestMeasurement `json:"latest"`
	LatestBlock TextBlock           `json:"latest_block"`
	Placeholder string              `json:"placeholder,omitempty"`
}

// BodyParts builds the trend view of the selected parts for one patient
func (a *Assembler) BodyParts(patient string, selected []scan.BodyPart) BodyPartView {
	if len(selected) == 0 {
		selected = []scan.BodyPart{scan.Total}
	}
	want := make(map[scan.BodyPart]bool, len(selected))
	for _, p := range selected {
		want[p] = true
	}

	v := BodyPartView{
		Patient:  patient,
		Selected: selected,
		Groups:   buttonGroups(want),
	}

	rows := a.dataset.ScansFor(patient, func(p scan.BodyPart) bool { return want[p] })
	if len(rows) == 0 {
		v.Placeholder = NoDataMessage
		return v
	}

	byPart := make(map[scan.BodyPart][]scan.ScanRecord)
	for _, r := range rows {
		byPart[r.BodyPart] = append(byPart[r.BodyPart], r)
	}

	ratio := Chart{
		ID:         "fat-lean-ratio",
		Title:      "Fat:Lean Ratio",
		XTitle:     "Date",
		YTitle:     "Fat / Lean",
		ShowLegend: true,
	}
	for _, part := range selected {
		partRows := byPart[part]
		v.Charts = append(v.Charts, massChart(part, partRows))
		if len(partRows) > 0 {
			ratio.Series = append(ratio.Series, a.ratioSeries(part, partRows))
		}
	}
	v.RatioChart = &ratio

	v.Latest = latestMeasurements(selected, rows)
	v.LatestBlock = latestBlock(v.Latest)
	return v
}

func buttonGroups(selected map[scan.BodyPart]bool) []ButtonGroup {
	groups := make([]ButtonGroup, 0, len(scan.Groups))
	for _, g := range scan.Groups {
		bg := ButtonGroup{Name: g.Name}
		for _, p := range g.Parts {
			bg.Buttons = append(bg.Buttons, Button{Part: p, Color: PartColor(p), Selected: selected[p]})
		}
		groups = append(groups, bg)
	}
	return groups
}

func massChart(part scan.BodyPart, rows []scan.ScanRecord) Chart {
	c := Chart{
		ID:         "mass-" + slug(string(part)),
		Title:      fmt.Sprintf("%s Fat and Lean Mass", part),
		XTitle:     "Date",
		YTitle:     "Mass (g)",
		ShowLegend: true,
	}
	if len(rows) == 0 {
		c.Placeholder = fmt.Sprintf("No %s measurements", part)
		return c
	}
	fat := Series{Name: "Fat (g)", Mode: ModeLinesMarkers, Axis: AxisPrimary, Color: colorFat}
	lean := Series{Name: "Lean (g)", Mode: ModeLinesMarkers, Axis: AxisPrimary, Color: colorLean}
	for _, r := range rows {
		fat.Points = append(fat.Points, Point{Date: r.ScanDate, Value: r.FatGrams})
		lean.Points = append(lean.Points, Point{Date: r.ScanDate, Value: r.LeanGrams})
	}
	c.Series = []Series{fat, lean}
	return c
}

func (a *Assembler) ratioSeries(part scan.BodyPart, rows []scan.ScanRecord) Series {
	s := Series{Name: string(part), Mode: ModeLinesMarkers, Axis: AxisPrimary, Color: PartColor(part)}
	for _, r := range rows {
		value, err := metrics.Ratio(r.FatGrams, r.LeanGrams)
		if err != nil {
			a.logger.Debug("%s %s on %s: %v", r.Patient, part, r.ScanDate.Format(tableDate), err)
			continue
		}
		s.Points = append(s.Points, Point{Date: r.ScanDate, Value: value, Label: ratioLabel(r.FatGrams, r.LeanGrams)})
	}
	return s
}

func ratioLabel(fat, lean float64) string {
	label, err := metrics.FatLeanRatio(fat, lean)
	if err != nil {
		return "n/a"
	}
	return label
}

// latestMeasurements picks each selected part's row at the newest date of
// the filtered rows, which are date-ascending
func latestMeasurements(selected []scan.BodyPart, rows []scan.ScanRecord) []LatestMeasurement {
	latest := rows[len(rows)-1].ScanDate
	atLatest := make(map[scan.BodyPart]scan.ScanRecord)
	for _, r := range rows {
		if !r.ScanDate.Equal(latest) {
			continue
		}
		if _, dup := atLatest[r.BodyPart]; !dup {
			atLatest[r.BodyPart] = r
		}
	}

	var out []LatestMeasurement
	for _, part := range selected {
		r, ok := atLatest[part]
		if !ok {
			continue
		}
		m := LatestMeasurement{
			Part:        part,
			Date:        r.ScanDate,
			FatGrams:    r.FatGrams,
			LeanGrams:   r.LeanGrams,
			TotalMassKg: r.TotalMassKg,
			RatioLabel:  ratioLabel(r.FatGrams, r.LeanGrams),
		}
		if ratio, err := metrics.Ratio(r.FatGrams, r.LeanGrams); err == nil {
			m.Ratio = ratio
		}
		out = append(out, m)
	}
	return out
}

func latestBlock(latest []LatestMeasurement) TextBlock {
	if len(latest) == 0 {
		return TextBlock{Title: "Latest Measurements"}
	}
	b := TextBlock{Title: "Latest Measurements (" + latest[0].Date.Format(displayDate) + ")"}
	for _, m := range latest {
		b.Lines = append(b.Lines, fmt.Sprintf("**%s**: fat %.0f g, lean %.0f g, total %.2f kg, fat:lean %s",
			m.Part, m.FatGrams, m.LeanGrams, m.TotalMassKg, m.RatioLabel))
	}
	return b
}
