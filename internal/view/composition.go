package view

import (
	stderrors "errors"
	"fmt"

	"dexadash/domain/core"
	"dexadash/domain/scan"
	"dexadash/internal/metrics"
)

// Series names on composition charts
const (
	SeriesActual = "Actual Data"
	SeriesFilled = "Filled Data (Mean)"
)

// MetricSummary describes one composition chart's imputation
type MetricSummary struct {
	Metric   scan.Metric `json:"metric"`
	Observed int         `json:"observed"`
	Filled   int         `json:"filled"`
	Mean     float64     `json:"mean"`
}

// CompositionView is the composition indices page: one chart per metric
type CompositionView struct {
	Patient     string          `json:"patient"`
	Charts      []Chart         `json:"charts"`
	Summaries   []MetricSummary `json:"summaries"`
	Placeholder string          `json:"placeholder,omitempty"`
}

// Composition builds a chart per metric. Missing values are drawn at the
// metric's mean and repeated as distinct "filled" markers.
func (a *Assembler) Composition(patient string) CompositionView {
	v := CompositionView{Patient: patient}

	records := a.dataset.CompositionFor(patient)
	if len(records) == 0 {
		v.Placeholder = NoDataMessage
		return v
	}

	for _, m := range scan.Metrics {
		chart, summary := a.metricChart(m, records)
		v.Charts = append(v.Charts, chart)
		v.Summaries = append(v.Summaries, summary)
	}
	return v
}

func (a *Assembler) metricChart(m scan.Metric, records []scan.CompositionRecord) (Chart, MetricSummary) {
	c := Chart{
		ID:         "metric-" + slug(string(m)),
		Title:      string(m),
		XTitle:     "Date",
		YTitle:     string(m),
		Height:     250,
		ShowLegend: true,
	}
	summary := MetricSummary{Metric: m}

	series := make([]*float64, len(records))
	for i, r := range records {
		if v, ok := r.Value(m); ok {
			series[i] = &v
		}
	}

	filled, err := metrics.FillMissing(series)
	if err != nil {
		if !stderrors.Is(err, core.ErrNoObservations) {
			a.logger.Warn("%s: %v", m, err)
		}
		c.Placeholder = fmt.Sprintf("No %s data available", m)
		return c, summary
	}

	actual := Series{Name: SeriesActual, Mode: ModeLinesMarkers, Axis: AxisPrimary}
	marked := Series{
		Name:   SeriesFilled,
		Mode:   ModeMarkers,
		Axis:   AxisPrimary,
		Marker: &Marker{Symbol: "x", Size: 10, Color: colorFilled},
	}
	for i, r := range records {
		p := Point{Date: r.ScanDate, Value: filled.Values[i], Filled: filled.Flags[i]}
		actual.Points = append(actual.Points, p)
		if p.Filled {
			marked.Points = append(marked.Points, p)
		}
	}
	c.Series = []Series{actual}
	if len(marked.Points) > 0 {
		c.Series = append(c.Series, marked)
	}

	summary.Filled = filled.FilledCount()
	summary.Observed = len(records) - summary.Filled
	summary.Mean = filled.Mean
	return c, summary
}
