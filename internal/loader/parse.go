package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"dexadash/domain/core"
	"dexadash/domain/scan"
)

// Day-first layouts. Go's "2" and "1" accept one or two digits.
const (
	dashLayout  = "2-1-2006"
	slashLayout = "2/1/2006"
)

var (
	scanDateLayouts        = []string{dashLayout, slashLayout}
	compositionDateLayouts = []string{slashLayout, dashLayout}
)

// mojibake left behind when UTF-8 superscripts are decoded as Latin-1
var columnReplacer = strings.NewReplacer("Â²", "²", "Â³", "³")

// NormalizeColumn repairs superscript encoding artifacts and trims a header
func NormalizeColumn(name string) string {
	return strings.TrimSpace(columnReplacer.Replace(name))
}

// LoadStats counts what happened to a table's rows during parsing
type LoadStats struct {
	Rows           int `json:"rows"`
	Kept           int `json:"kept"`
	BadDates       int `json:"bad_dates"`
	MalformedRows  int `json:"malformed_rows"`
	DuplicateScans int `json:"duplicate_scans"`
}

// Dropped is the total number of rows not kept
func (s LoadStats) Dropped() int {
	return s.BadDates + s.MalformedRows + s.DuplicateScans
}

// columns resolves normalized column names to the headers actually present
type columns map[string]string

func indexColumns(headers []string) columns {
	idx := make(columns, len(headers))
	for _, h := range headers {
		norm := NormalizeColumn(h)
		if _, dup := idx[norm]; !dup {
			idx[norm] = h
		}
	}
	return idx
}

func (c columns) require(names ...string) error {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return core.NewMissingColumnError(name)
		}
	}
	return nil
}

func (c columns) get(row scan.RawRow, name string) string {
	header, ok := c[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[header])
}

func parseDayFirst(value string, layouts []string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// parseNumber accepts thousands separators; empty cells report ok=false
func parseNumber(value string) (float64, bool, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" || strings.EqualFold(value, "nan") {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, fmt.Errorf("unparseable number %q", value)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, nil
	}
	return v, true, nil
}

func requireNumber(row scan.RawRow, cols columns, name string) (float64, error) {
	v, ok, err := parseNumber(cols.get(row, name))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if !ok {
		return 0, fmt.Errorf("%s is empty", name)
	}
	return v, nil
}

// ParseScanTable converts the per-body-part table. Rows whose date does not
// parse are dropped; rows with a missing patient, an unknown body part or
// unusable masses are dropped as malformed.
func ParseScanTable(table *scan.RawTable) ([]scan.ScanRecord, LoadStats, error) {
	stats := LoadStats{Rows: len(table.Rows)}
	cols := indexColumns(table.Headers)
	if err := cols.require(scan.ColumnPatient, scan.ColumnScanDate, scan.ColumnBodyPart,
		scan.ColumnFat, scan.ColumnLean, scan.ColumnTotalMass); err != nil {
		return nil, stats, err
	}

	records := make([]scan.ScanRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		date, err := parseDayFirst(cols.get(row, scan.ColumnScanDate), scanDateLayouts)
		if err != nil {
			stats.BadDates++
			continue
		}
		rec, err := parseScanRow(i+2, row, cols)
		if err != nil {
			stats.MalformedRows++
			continue
		}
		rec.ScanDate = date
		records = append(records, rec)
	}
	stats.Kept = len(records)
	return records, stats, nil
}

func parseScanRow(line int, row scan.RawRow, cols columns) (scan.ScanRecord, error) {
	patient := cols.get(row, scan.ColumnPatient)
	if patient == "" {
		return scan.ScanRecord{}, core.NewMalformedRowError(line, "missing patient")
	}
	part, err := scan.ParseBodyPart(cols.get(row, scan.ColumnBodyPart))
	if err != nil {
		return scan.ScanRecord{}, core.NewMalformedRowError(line, err.Error())
	}
	fat, err := requireNumber(row, cols, scan.ColumnFat)
	if err != nil {
		return scan.ScanRecord{}, core.NewMalformedRowError(line, err.Error())
	}
	lean, err := requireNumber(row, cols, scan.ColumnLean)
	if err != nil {
		return scan.ScanRecord{}, core.NewMalformedRowError(line, err.Error())
	}
	if fat < 0 || lean < 0 {
		return scan.ScanRecord{}, core.NewMalformedRowError(line, "negative mass")
	}
	total, err := requireNumber(row, cols, scan.ColumnTotalMass)
	if err != nil {
		return scan.ScanRecord{}, core.NewMalformedRowError(line, err.Error())
	}
	return scan.ScanRecord{
		Patient:     patient,
		BodyPart:    part,
		FatGrams:    fat,
		LeanGrams:   lean,
		TotalMassKg: total,
	}, nil
}

// ParseCompositionTable converts the per-scan composition table. Metric
// cells that are empty or unparseable are recorded as missing; the second
// and later rows for the same patient and date are dropped.
func ParseCompositionTable(table *scan.RawTable) ([]scan.CompositionRecord, LoadStats, []scan.Metric, error) {
	stats := LoadStats{Rows: len(table.Rows)}
	cols := indexColumns(table.Headers)
	if err := cols.require(scan.ColumnPatient, scan.ColumnScanDate); err != nil {
		return nil, stats, nil, err
	}

	var absent []scan.Metric
	for _, m := range scan.Metrics {
		if _, ok := cols[string(m)]; !ok {
			absent = append(absent, m)
		}
	}

	type key struct {
		patient string
		date    time.Time
	}
	seen := make(map[key]bool)

	records := make([]scan.CompositionRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		date, err := parseDayFirst(cols.get(row, scan.ColumnScanDate), compositionDateLayouts)
		if err != nil {
			stats.BadDates++
			continue
		}
		patient := cols.get(row, scan.ColumnPatient)
		if patient == "" {
			stats.MalformedRows++
			continue
		}
		k := key{patient: patient, date: date}
		if seen[k] {
			stats.DuplicateScans++
			continue
		}
		seen[k] = true

		rec := scan.CompositionRecord{
			Patient:  patient,
			ScanDate: date,
			Values:   make(map[scan.Metric]float64, len(scan.Metrics)),
		}
		for _, m := range scan.Metrics {
			if v, ok, err := parseNumber(cols.get(row, string(m))); err == nil && ok {
				rec.Values[m] = v
			}
		}
		records = append(records, rec)
	}
	stats.Kept = len(records)
	return records, stats, absent, nil
}
