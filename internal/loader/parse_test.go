package loader

import (
	"errors"
	"testing"
	"time"

	"dexadash/domain/core"
	"dexadash/domain/scan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanTable(rows ...scan.RawRow) *scan.RawTable {
	return &scan.RawTable{
		Headers: []string{"Patient Name", "Scan Date", "Body Part", "Fat (g)", "Lean (g)", "Total Mass (kg)"},
		Rows:    rows,
	}
}

func scanRow(patient, date, part, fat, lean, total string) scan.RawRow {
	return scan.RawRow{
		"Patient Name": patient, "Scan Date": date, "Body Part": part,
		"Fat (g)": fat, "Lean (g)": lean, "Total Mass (kg)": total,
	}
}

func TestNormalizeColumn(t *testing.T) {
	assert.Equal(t, "BMI (kg/m²)", NormalizeColumn(" BMI (kg/mÂ²) "))
	assert.Equal(t, "Visceral Fat Volume (cm³)", NormalizeColumn("Visceral Fat Volume (cmÂ³)"))
	assert.Equal(t, "Fat (g)", NormalizeColumn("Fat (g)"))
}

func TestParseDayFirst(t *testing.T) {
	want := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{"03-02-2024", "3-2-2024", "03/02/2024", " 3/2/2024 "} {
		got, err := parseDayFirst(value, scanDateLayouts)
		require.NoError(t, err, value)
		assert.Equal(t, want, got, value)
	}

	for _, value := range []string{"2024-02-03", "31-02-2024", "", "13/13/2024"} {
		_, err := parseDayFirst(value, compositionDateLayouts)
		assert.Error(t, err, value)
	}
}

func TestParseNumber(t *testing.T) {
	v, ok, err := parseNumber("1,234.5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1234.5, v)

	_, ok, err = parseNumber("  ")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = parseNumber("NaN")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = parseNumber("12kg")
	assert.Error(t, err)
}

func TestParseScanTable(t *testing.T) {
	table := scanTable(
		scanRow("Alex", "16-01-2023", "Left Arm", "1,050", "3200", "4.55"),
		scanRow("Alex", "2023-01-16", "Total", "20000", "55000", "78.1"),
		scanRow("Alex", "16-01-2023", "Head", "1", "1", "1"),
		scanRow("", "16-01-2023", "Total", "1", "1", "1"),
		scanRow("Alex", "16-01-2023", "Right Arm", "-5", "3300", "4.6"),
		scanRow("Alex", "16-01-2023", "Right Leg", "", "9000", "12"),
	)

	records, stats, err := ParseScanTable(table)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, scan.ScanRecord{
		Patient:     "Alex",
		ScanDate:    time.Date(2023, 1, 16, 0, 0, 0, 0, time.UTC),
		BodyPart:    scan.LeftArm,
		FatGrams:    1050,
		LeanGrams:   3200,
		TotalMassKg: 4.55,
	}, records[0])

	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, 1, stats.Kept)
	assert.Equal(t, 1, stats.BadDates)
	assert.Equal(t, 4, stats.MalformedRows)
	assert.Equal(t, 5, stats.Dropped())
}

func TestParseScanTableMissingColumn(t *testing.T) {
	table := &scan.RawTable{Headers: []string{"Patient Name", "Scan Date"}}

	_, _, err := ParseScanTable(table)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
}

func TestParseCompositionTable(t *testing.T) {
	table := &scan.RawTable{
		Headers: []string{"Patient Name", "Scan Date", "BMI (kg/mÂ²) ", "Total Body Fat (%)"},
		Rows: []scan.RawRow{
			{"Patient Name": "Alex", "Scan Date": "16/01/2023", "BMI (kg/mÂ²) ": "24.3", "Total Body Fat (%)": "21.5"},
			{"Patient Name": "Alex", "Scan Date": "16/03/2023", "BMI (kg/mÂ²) ": "", "Total Body Fat (%)": "20.9"},
			{"Patient Name": "Alex", "Scan Date": "16/03/2023", "BMI (kg/mÂ²) ": "24.0", "Total Body Fat (%)": "20.0"},
			{"Patient Name": "Alex", "Scan Date": "March 2023", "BMI (kg/mÂ²) ": "24.0"},
		},
	}

	records, stats, absent, err := ParseCompositionTable(table)
	require.NoError(t, err)
	require.Len(t, records, 2)

	bmi, ok := records[0].Value(scan.BMI)
	assert.True(t, ok)
	assert.Equal(t, 24.3, bmi)

	_, ok = records[1].Value(scan.BMI)
	assert.False(t, ok, "empty cell is missing")
	fat, _ := records[1].Value(scan.TotalBodyFat)
	assert.Equal(t, 20.9, fat, "first row for a date wins")

	assert.Equal(t, 1, stats.DuplicateScans)
	assert.Equal(t, 1, stats.BadDates)
	assert.Len(t, absent, len(scan.Metrics)-2)
	assert.NotContains(t, absent, scan.BMI)
}
