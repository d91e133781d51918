package view

import (
	"fmt"
	"math"
	"time"

	"dexadash/domain/scan"
	"dexadash/internal/metrics"

	"github.com/montanaflynn/stats"
)

// LatestScan summarizes the newest Total row
type LatestScan struct {
	Date        time.Time     `json:"date"`
	WeightKg    float64       `json:"weight_kg"`
	WeightTrend metrics.Trend `json:"weight_trend"`
	DaysSince   int           `json:"days_since"`
}

// Record is a personal best or worst with the scan it came from
type Record struct {
	Label string    `json:"label"`
	Value float64   `json:"value"`
	Unit  string    `json:"unit"`
	Date  time.Time `json:"date"`
}

// OverviewView is the landing page: four summary cards and three charts
type OverviewView struct {
	Patient          string      `json:"patient"`
	Latest           *LatestScan `json:"latest,omitempty"`
	Records          []Record    `json:"records"`
	Cards            []TextBlock `json:"cards"`
	MainChart        Chart       `json:"main_chart"`
	VisceralChart    Chart       `json:"visceral_chart"`
	CompositionChart Chart       `json:"composition_chart"`
	Placeholder      string      `json:"placeholder,omitempty"`
}

// Overview builds the landing page for one patient
func (a *Assembler) Overview(patient string) OverviewView {
	v := OverviewView{Patient: patient}

	totals := a.dataset.ScansFor(patient, func(p scan.BodyPart) bool { return p == scan.Total })
	comp := a.dataset.CompositionFor(patient)
	if len(totals) == 0 && len(comp) == 0 {
		v.Placeholder = NoDataMessage
		return v
	}

	v.Latest = a.latestScan(totals)
	v.Records = personalRecords(totals, comp)
	v.Cards = []TextBlock{
		latestScanCard(v.Latest),
		ratiosCard(comp),
		compositionCard(comp),
		recordsCard(v.Records),
	}
	v.MainChart = mainChart(totals)
	v.VisceralChart = compositionLines("visceral-fat", "Visceral Fat Area Trend", comp,
		plotted{name: string(scan.VisceralFatArea), color: colorFat, metric: scan.VisceralFatArea})
	v.CompositionChart = compositionLines("body-composition", "Body Composition", comp,
		plotted{name: "Fat %", color: colorFat, metric: scan.TotalBodyFat},
		plotted{name: "Lean %", color: colorLean, metric: scan.TotalLeanBody})
	return v
}

func (a *Assembler) latestScan(totals []scan.ScanRecord) *LatestScan {
	if len(totals) == 0 {
		return nil
	}
	latest := totals[len(totals)-1]
	previous := latest
	if len(totals) > 1 {
		previous = totals[len(totals)-2]
	}
	return &LatestScan{
		Date:        latest.ScanDate,
		WeightKg:    latest.TotalMassKg,
		WeightTrend: metrics.CompareTrend(latest.TotalMassKg, previous.TotalMassKg),
		DaysSince:   int(math.Floor(a.now().Sub(latest.ScanDate).Hours() / 24)),
	}
}

func latestScanCard(l *LatestScan) TextBlock {
	card := TextBlock{Title: "Latest DEXA Scan"}
	if l == nil {
		card.Lines = []string{"No scans recorded"}
		return card
	}
	card.Lines = []string{
		"Date: " + l.Date.Format(displayDate),
		fmt.Sprintf("Weight: %.1f kg %s", l.WeightKg, l.WeightTrend.Symbol()),
		fmt.Sprintf("Days since last scan: %d", l.DaysSince),
	}
	return card
}

func metricLine(label string, r scan.CompositionRecord, m scan.Metric, format string) string {
	v, ok := r.Value(m)
	if !ok {
		return label + ": n/a"
	}
	return label + ": " + fmt.Sprintf(format, v)
}

func ratiosCard(comp []scan.CompositionRecord) TextBlock {
	card := TextBlock{Title: "Current Ratios"}
	if len(comp) == 0 {
		card.Lines = []string{"No composition data"}
		return card
	}
	latest := comp[len(comp)-1]
	card.Lines = []string{
		metricLine("BMI", latest, scan.BMI, "%.1f"),
		metricLine("FMI", latest, scan.FatMassIndex, "%.1f"),
		metricLine("Android/Gynoid", latest, scan.AndroidGynoidRatio, "%.2f"),
		metricLine("Trunk/Leg Ratio", latest, scan.TrunkLegsFatRatio, "%.2f"),
		metricLine("Lean Mass Index", latest, scan.LeanMassIndex, "%.1f"),
	}
	return card
}

// trendLine appends the arrow against the previous scan when both values exist
func trendLine(label string, latest, previous scan.CompositionRecord, m scan.Metric) string {
	v, ok := latest.Value(m)
	if !ok {
		return label + ": n/a"
	}
	prev, ok := previous.Value(m)
	if !ok {
		prev = v
	}
	return fmt.Sprintf("%s: %.1f%% %s", label, v, metrics.CompareTrend(v, prev).Symbol())
}

func compositionCard(comp []scan.CompositionRecord) TextBlock {
	card := TextBlock{Title: "Current Body Composition"}
	if len(comp) == 0 {
		card.Lines = []string{"No composition data"}
		return card
	}
	latest := comp[len(comp)-1]
	previous := latest
	if len(comp) > 1 {
		previous = comp[len(comp)-2]
	}
	card.Lines = []string{
		trendLine("Body Fat", latest, previous, scan.TotalBodyFat),
		trendLine("Lean Mass", latest, previous, scan.TotalLeanBody),
		metricLine("Bone Mass", latest, scan.TotalBoneMass, "%.1f%%"),
	}
	return card
}

// extreme finds the first point holding the min (or max) of values
func extreme(values []float64, dates []time.Time, highest bool) (float64, time.Time, bool) {
	if len(values) == 0 {
		return 0, time.Time{}, false
	}
	var target float64
	var err error
	if highest {
		target, err = stats.Max(values)
	} else {
		target, err = stats.Min(values)
	}
	if err != nil {
		return 0, time.Time{}, false
	}
	for i, v := range values {
		if v == target {
			return v, dates[i], true
		}
	}
	return 0, time.Time{}, false
}

func personalRecords(totals []scan.ScanRecord, comp []scan.CompositionRecord) []Record {
	var records []Record

	weights := make([]float64, len(totals))
	leans := make([]float64, len(totals))
	dates := make([]time.Time, len(totals))
	for i, r := range totals {
		weights[i] = r.TotalMassKg
		leans[i] = r.LeanGrams / 1000
		dates[i] = r.ScanDate
	}
	if v, d, ok := extreme(weights, dates, false); ok {
		records = append(records, Record{Label: "Lowest Weight", Value: v, Unit: "kg", Date: d})
	}

	var fats []float64
	var fatDates []time.Time
	for _, r := range comp {
		if v, ok := r.Value(scan.TotalBodyFat); ok {
			fats = append(fats, v)
			fatDates = append(fatDates, r.ScanDate)
		}
	}
	if v, d, ok := extreme(fats, fatDates, false); ok {
		records = append(records, Record{Label: "Lowest Body Fat", Value: v, Unit: "%", Date: d})
	}

	if v, d, ok := extreme(leans, dates, true); ok {
		records = append(records, Record{Label: "Highest Lean Mass", Value: v, Unit: "kg", Date: d})
	}
	if v, d, ok := extreme(leans, dates, false); ok {
		records = append(records, Record{Label: "Lowest Lean Mass", Value: v, Unit: "kg", Date: d})
	}
	return records
}

func recordsCard(records []Record) TextBlock {
	card := TextBlock{Title: "Personal Records"}
	if len(records) == 0 {
		card.Lines = []string{"No records yet"}
		return card
	}
	for _, r := range records {
		unit := " " + r.Unit
		if r.Unit == "%" {
			unit = r.Unit
		}
		card.Lines = append(card.Lines, fmt.Sprintf("%s: %.1f%s (%s)", r.Label, r.Value, unit, r.Date.Format(displayDate)))
	}
	return card
}

func mainChart(totals []scan.ScanRecord) Chart {
	c := Chart{
		ID:         "main-trends",
		Title:      "Weight and Lean Mass Trends",
		XTitle:     "Date",
		YTitle:     "Total Mass (kg)",
		Y2Title:    "Lean Mass (kg)",
		Height:     400,
		ShowLegend: true,
	}
	if len(totals) == 0 {
		c.Placeholder = "No Total scans available"
		return c
	}
	weight := Series{Name: "Total Weight", Mode: ModeLinesMarkers, Axis: AxisPrimary, Color: colorWeight}
	lean := Series{Name: "Lean Mass", Mode: ModeLinesMarkers, Axis: AxisSecondary, Color: colorLeanMass}
	for _, r := range totals {
		weight.Points = append(weight.Points, Point{Date: r.ScanDate, Value: r.TotalMassKg})
		lean.Points = append(lean.Points, Point{Date: r.ScanDate, Value: r.LeanGrams / 1000})
	}
	c.Series = []Series{weight, lean}
	return c
}

type plotted struct {
	name   string
	color  string
	metric scan.Metric
}

// compositionLines charts the observed values of each metric
func compositionLines(id, title string, comp []scan.CompositionRecord, lines ...plotted) Chart {
	c := Chart{ID: id, Title: title, XTitle: "Date", ShowLegend: len(lines) > 1}
	if len(lines) == 1 {
		c.YTitle = string(lines[0].metric)
	}
	for _, line := range lines {
		s := Series{Name: line.name, Mode: ModeLinesMarkers, Axis: AxisPrimary, Color: line.color}
		for _, r := range comp {
			if v, ok := r.Value(line.metric); ok {
				s.Points = append(s.Points, Point{Date: r.ScanDate, Value: v})
			}
		}
		c.Series = append(c.Series, s)
	}
	if !c.HasData() {
		c.Placeholder = fmt.Sprintf("No data for %s", title)
	}
	return c
}
