package testkit

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"dexadash/domain/scan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanDataGenerator_Basic(t *testing.T) {
	config := DefaultScanConfig()
	config.PatientCount = 3
	config.ScansPerPat = 4

	ds := NewScanDataGenerator(config).Generate()

	assert.Len(t, ds.Scans, 3*4*len(scan.AllBodyParts()))
	assert.Len(t, ds.Composition, 3*4)
	assert.Len(t, ds.Patients(), 3)

	for i, r := range ds.Scans {
		if r.FatGrams < 0 || r.LeanGrams < 0 {
			t.Errorf("Row %d has negative mass: %+v", i, r)
		}
	}
}

func TestScanDataGenerator_Deterministic(t *testing.T) {
	a := NewScanDataGenerator(DefaultScanConfig()).Generate()
	b := NewScanDataGenerator(DefaultScanConfig()).Generate()
	assert.Equal(t, a, b)
}

func TestScanDataGenerator_MissingRate(t *testing.T) {
	config := DefaultScanConfig()
	config.MissingRate = 0
	ds := NewScanDataGenerator(config).Generate()
	for _, r := range ds.Composition {
		assert.Len(t, r.Values, len(scan.Metrics))
	}

	config.MissingRate = 1
	ds = NewScanDataGenerator(config).Generate()
	for _, r := range ds.Composition {
		assert.Empty(t, r.Values)
	}
}

func TestCompositionCSVManglesSuperscripts(t *testing.T) {
	kit := NewTestKit()
	records, err := csv.NewReader(bytes.NewReader(CompositionCSV(kit.Dataset()))).ReadAll()
	require.NoError(t, err)

	header := strings.Join(records[0], "|")
	assert.Contains(t, header, "BMI (kg/mÂ²)")
	assert.Contains(t, header, "Visceral Fat Volume (cmÂ³)")
	assert.Len(t, records, len(kit.Dataset().Composition)+1)
}

func TestScanCSVDates(t *testing.T) {
	kit := NewTestKit()
	records, err := csv.NewReader(bytes.NewReader(ScanCSV(kit.Dataset()))).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, "Scan Date", records[0][2])
	assert.Equal(t, kit.Dataset().Scans[0].ScanDate.Format("02-01-2006"), records[1][2])
}
