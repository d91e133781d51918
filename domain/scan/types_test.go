package scan

import (
	"errors"
	"testing"
	"time"

	"dexadash/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseBodyPart(t *testing.T) {
	tests := []struct {
		input    string
		expected BodyPart
		hasError bool
	}{
		{"Left Arm", LeftArm, false},
		{"  left arm ", LeftArm, false},
		{"T SPINE", TSpine, false},
		{"Total", Total, false},
		{"Head", "", true},
		{"", "", true},
	}

	for _, test := range tests {
		result, err := ParseBodyPart(test.input)
		if test.hasError {
			assert.Error(t, err, test.input)
			assert.True(t, errors.Is(err, core.ErrUnknownBodyPart))
			continue
		}
		require.NoError(t, err, test.input)
		assert.Equal(t, test.expected, result)
	}
}

func TestCatalogCoversEveryPartOnce(t *testing.T) {
	parts := AllBodyParts()
	assert.Len(t, parts, 12)

	seen := make(map[BodyPart]bool)
	for _, p := range parts {
		assert.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
	}
	assert.Equal(t, []string{"Arms", "Legs", "Torso", "Total", "Regions"}, groupNames())
}

func groupNames() []string {
	var names []string
	for _, g := range Groups {
		names = append(names, g.Name)
	}
	return names
}

func TestRegionSides(t *testing.T) {
	l, r := RegionRibs.Sides()
	assert.Equal(t, LeftRibs, l)
	assert.Equal(t, RightRibs, r)
	assert.Equal(t, "Leg Symmetry", RegionLeg.Label())
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("BMI (kg/m²)")
	require.NoError(t, err)
	assert.Equal(t, BMI, m)

	_, err = ParseMetric("BMI (kg/mÂ²)")
	assert.True(t, errors.Is(err, core.ErrUnknownMetric))
	assert.Len(t, Metrics, 16)
}

func TestDatasetQueries(t *testing.T) {
	ds := &Dataset{
		Scans: []ScanRecord{
			{Patient: "Bea", ScanDate: day(2024, 3, 1), BodyPart: Total},
			{Patient: "Al", ScanDate: day(2024, 2, 1), BodyPart: LeftArm},
			{Patient: "Al", ScanDate: day(2024, 1, 1), BodyPart: Total},
			{Patient: "Al", ScanDate: day(2024, 1, 1), BodyPart: LeftArm},
		},
		Composition: []CompositionRecord{
			{Patient: "Cy", ScanDate: day(2024, 5, 1)},
			{Patient: "Al", ScanDate: day(2024, 4, 1)},
			{Patient: "Al", ScanDate: day(2024, 3, 1)},
		},
	}

	assert.Equal(t, []string{"Al", "Bea", "Cy"}, ds.Patients())
	assert.True(t, ds.HasPatient("Cy"))
	assert.False(t, ds.HasPatient("Dee"))

	arms := ds.ScansFor("Al", func(p BodyPart) bool { return p == LeftArm })
	require.Len(t, arms, 2)
	assert.Equal(t, day(2024, 1, 1), arms[0].ScanDate)
	assert.Equal(t, day(2024, 2, 1), arms[1].ScanDate)

	assert.Len(t, ds.ScansFor("Al", nil), 3)

	comp := ds.CompositionFor("Al")
	require.Len(t, comp, 2)
	assert.True(t, comp[0].ScanDate.Before(comp[1].ScanDate))
}

func TestSymmetryRecordScore(t *testing.T) {
	v := 0.25
	rec := SymmetryRecord{Arm: &v}

	got, ok := rec.Score(RegionArm)
	assert.True(t, ok)
	assert.Equal(t, 0.25, got)

	_, ok = rec.Score(RegionLeg)
	assert.False(t, ok)
}
