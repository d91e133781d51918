// Package view assembles library-agnostic chart specifications and text
// blocks from the loaded dataset. The HTML pages hand these specs to the
// browser charting library unchanged, and the JSON API returns them as is.
package view

import (
	"fmt"
	"strings"
	"time"

	"dexadash/domain/scan"
)

// Series draw modes
const (
	ModeLinesMarkers = "lines+markers"
	ModeMarkers      = "markers"
)

// Axis assignment for dual-axis charts
const (
	AxisPrimary   = "y"
	AxisSecondary = "y2"
)

// Point is one (date, value) observation. Filled marks a value substituted
// for a missing observation.
type Point struct {
	Date   time.Time `json:"x"`
	Value  float64   `json:"y"`
	Label  string    `json:"label,omitempty"`
	Filled bool      `json:"filled,omitempty"`
}

// Marker overrides the default point style of a series
type Marker struct {
	Symbol string `json:"symbol,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Series is a named line or scatter over dates
type Series struct {
	Name   string  `json:"name"`
	Mode   string  `json:"mode"`
	Axis   string  `json:"axis"`
	Color  string  `json:"color,omitempty"`
	Marker *Marker `json:"marker,omitempty"`
	Points []Point `json:"points"`
}

// Annotation is fixed text placed relative to the plot area
type Annotation struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Band is a horizontal shaded range in data units of the primary axis
type Band struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
}

// Chart is a complete chart specification. A non-empty Placeholder means
// the chart has nothing to plot and the message is shown instead.
type Chart struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	XTitle      string       `json:"x_title,omitempty"`
	YTitle      string       `json:"y_title,omitempty"`
	Y2Title     string       `json:"y2_title,omitempty"`
	YRange      []float64    `json:"y_range,omitempty"`
	Height      int          `json:"height,omitempty"`
	ShowLegend  bool         `json:"show_legend"`
	ZeroLine    bool         `json:"zero_line,omitempty"`
	Series      []Series     `json:"series"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Bands       []Band       `json:"bands,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// SeriesByName returns the named series
func (c Chart) SeriesByName(name string) (Series, bool) {
	for _, s := range c.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

// HasData reports whether any series carries a point
func (c Chart) HasData() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

// TextBlock is a titled list of summary lines
type TextBlock struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Markdown renders the block as a heading followed by a bullet list
func (b TextBlock) Markdown() string {
	var sb strings.Builder
	if b.Title != "" {
		fmt.Fprintf(&sb, "#### %s\n\n", b.Title)
	}
	for _, line := range b.Lines {
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	return sb.String()
}

// Table is a header row plus preformatted cells
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Colors
const (
	colorFat       = "#E67E22"
	colorLean      = "#2980B9"
	colorWeight    = "#2C3E50"
	colorLeanMass  = "#E74C3C"
	colorFilled    = "red"
	colorLeftBand  = "rgba(255,0,0,0.05)"
	colorRightBand = "rgba(0,255,0,0.05)"
)

// partColors is the category color key shared by every per-part series
var partColors = map[scan.BodyPart]string{
	scan.LeftArm:   "#1f77b4",
	scan.RightArm:  "#aec7e8",
	scan.LeftLeg:   "#2ca02c",
	scan.RightLeg:  "#98df8a",
	scan.LeftRibs:  "#9467bd",
	scan.RightRibs: "#c5b0d5",
	scan.TSpine:    "#8c564b",
	scan.LSpine:    "#c49c94",
	scan.Pelvis:    "#e377c2",
	scan.Total:     "#2C3E50",
	scan.Android:   "#ff7f0e",
	scan.Gynoid:    "#ffbb78",
}

// PartColor returns the category color of a body part
func PartColor(p scan.BodyPart) string {
	return partColors[p]
}

// slug turns a label into a DOM-safe chart id
func slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		case !dash && sb.Len() > 0:
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
