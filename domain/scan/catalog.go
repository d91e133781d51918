package scan

import (
	"fmt"
	"strings"

	"dexadash/domain/core"
)

// Group is a labelled set of body parts shown together in the toggle bar
type Group struct {
	Name  string     `json:"name"`
	Parts []BodyPart `json:"parts"`
}

// Groups is the fixed body part catalog in display order
var Groups = []Group{
	{Name: "Arms", Parts: []BodyPart{LeftArm, RightArm}},
	{Name: "Legs", Parts: []BodyPart{LeftLeg, RightLeg}},
	{Name: "Torso", Parts: []BodyPart{LeftRibs, RightRibs, TSpine, LSpine, Pelvis}},
	{Name: "Total", Parts: []BodyPart{Total}},
	{Name: "Regions", Parts: []BodyPart{Android, Gynoid}},
}

// AllBodyParts lists every catalog entry in display order
func AllBodyParts() []BodyPart {
	var parts []BodyPart
	for _, g := range Groups {
		parts = append(parts, g.Parts...)
	}
	return parts
}

// ParseBodyPart maps a source or UI label onto the closed body part set.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseBodyPart(s string) (BodyPart, error) {
	needle := strings.TrimSpace(s)
	for _, p := range AllBodyParts() {
		if strings.EqualFold(string(p), needle) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownBodyPart, s)
}

// Region is a left/right pair compared by the symmetry score
type Region string

const (
	RegionArm  Region = "Arm"
	RegionRibs Region = "Ribs"
	RegionLeg  Region = "Leg"
)

// Regions lists symmetry regions in display order
var Regions = []Region{RegionArm, RegionRibs, RegionLeg}

// Sides returns the left and right body parts of a region
func (r Region) Sides() (left, right BodyPart) {
	switch r {
	case RegionArm:
		return LeftArm, RightArm
	case RegionRibs:
		return LeftRibs, RightRibs
	case RegionLeg:
		return LeftLeg, RightLeg
	}
	return "", ""
}

// Label is the chart and column title, e.g. "Arm Symmetry"
func (r Region) Label() string { return string(r) + " Symmetry" }

// Metric is a named composition index column
type Metric string

const (
	TotalBodyWeight       Metric = "Total Body Weight (kg)"
	BMI                   Metric = "BMI (kg/m²)"
	BasalMetabolicRate    Metric = "Basal Metabolic Rate (kcal/day)"
	TotalBodyFat          Metric = "Total Body Fat (%)"
	FatMassIndex          Metric = "Fat Mass Index (FMI)"
	AndroidGynoidRatio    Metric = "Android/Gynoid Fat Ratio"
	TrunkLegsFatRatio     Metric = "Trunk/Legs Fat Ratio"
	TrunkLimbFatRatio     Metric = "Trunk/Limb Fat Mass Ratio"
	VisceralFatArea       Metric = "Visceral Fat Area (cm²)"
	VisceralFatMass       Metric = "Visceral Fat Mass (g)"
	VisceralFatVolume     Metric = "Visceral Fat Volume (cm³)"
	SubcutaneousFatArea   Metric = "Subcutaneous Fat Area (cm²)"
	TotalLeanBody         Metric = "Total Lean Body (%)"
	LeanMassIndex         Metric = "Lean Mass Index (kg/m²)"
	AppendicularLeanIndex Metric = "Appendicular Lean Mass Index (kg/m²)"
	TotalBoneMass         Metric = "Total Bone Mass (%)"
)

func (m Metric) String() string { return string(m) }

// Metrics lists the composition indices in display order
var Metrics = []Metric{
	TotalBodyWeight,
	BMI,
	BasalMetabolicRate,
	TotalBodyFat,
	FatMassIndex,
	AndroidGynoidRatio,
	TrunkLegsFatRatio,
	TrunkLimbFatRatio,
	VisceralFatArea,
	VisceralFatMass,
	VisceralFatVolume,
	SubcutaneousFatArea,
	TotalLeanBody,
	LeanMassIndex,
	AppendicularLeanIndex,
	TotalBoneMass,
}

// ParseMetric resolves a metric by its exact column name
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownMetric, s)
}

// Source column names
const (
	ColumnPatient   = "Patient Name"
	ColumnScanDate  = "Scan Date"
	ColumnBodyPart  = "Body Part"
	ColumnFat       = "Fat (g)"
	ColumnLean      = "Lean (g)"
	ColumnTotalMass = "Total Mass (kg)"
)
