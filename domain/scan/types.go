package scan

import (
	"sort"
	"time"
)

// BodyPart is one anatomical region reported per scan
type BodyPart string

const (
	LeftArm   BodyPart = "Left Arm"
	RightArm  BodyPart = "Right Arm"
	LeftLeg   BodyPart = "Left Leg"
	RightLeg  BodyPart = "Right Leg"
	LeftRibs  BodyPart = "Left Ribs"
	RightRibs BodyPart = "Right Ribs"
	TSpine    BodyPart = "T Spine"
	LSpine    BodyPart = "L Spine"
	Pelvis    BodyPart = "Pelvis"
	Android   BodyPart = "Android"
	Gynoid    BodyPart = "Gynoid"
	Total     BodyPart = "Total"
)

func (p BodyPart) String() string { return string(p) }

// ScanRecord is one row of the per-body-part measurement table
type ScanRecord struct {
	Patient     string    `json:"patient"`
	ScanDate    time.Time `json:"scan_date"`
	BodyPart    BodyPart  `json:"body_part"`
	FatGrams    float64   `json:"fat_g"`
	LeanGrams   float64   `json:"lean_g"`
	TotalMassKg float64   `json:"total_mass_kg"`
}

// CompositionRecord is one row of the per-scan composition index table.
// Metrics absent from Values were missing in the source.
type CompositionRecord struct {
	Patient  string             `json:"patient"`
	ScanDate time.Time          `json:"scan_date"`
	Values   map[Metric]float64 `json:"values"`
}

// Value returns the metric and whether it was observed
func (r CompositionRecord) Value(m Metric) (float64, bool) {
	v, ok := r.Values[m]
	return v, ok
}

// SymmetryRecord holds left/right lean-mass symmetry for a single scan.
// A nil score means the pair was incomplete or degenerate for that scan.
type SymmetryRecord struct {
	Patient  string    `json:"patient"`
	ScanDate time.Time `json:"scan_date"`
	Arm      *float64  `json:"arm_symmetry,omitempty"`
	Ribs     *float64  `json:"ribs_symmetry,omitempty"`
	Leg      *float64  `json:"leg_symmetry,omitempty"`
}

// Score returns the score for a region
func (r SymmetryRecord) Score(region Region) (float64, bool) {
	var p *float64
	switch region {
	case RegionArm:
		p = r.Arm
	case RegionRibs:
		p = r.Ribs
	case RegionLeg:
		p = r.Leg
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Dataset bundles the two base tables. It is built once at startup and
// never mutated afterwards, so it is shared across requests without locking.
type Dataset struct {
	Scans       []ScanRecord
	Composition []CompositionRecord
}

// Patients returns the distinct patient names of both tables, sorted
func (d *Dataset) Patients() []string {
	seen := make(map[string]bool)
	for _, r := range d.Scans {
		seen[r.Patient] = true
	}
	for _, r := range d.Composition {
		seen[r.Patient] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPatient reports whether any row belongs to the patient
func (d *Dataset) HasPatient(name string) bool {
	for _, r := range d.Scans {
		if r.Patient == name {
			return true
		}
	}
	for _, r := range d.Composition {
		if r.Patient == name {
			return true
		}
	}
	return false
}

// ScansFor returns a date-ascending copy of the patient's scan rows whose
// body part is accepted by keep. A nil keep accepts every part.
func (d *Dataset) ScansFor(patient string, keep func(BodyPart) bool) []ScanRecord {
	var out []ScanRecord
	for _, r := range d.Scans {
		if r.Patient != patient {
			continue
		}
		if keep != nil && !keep(r.BodyPart) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScanDate.Before(out[j].ScanDate)
	})
	return out
}

// CompositionFor returns a date-ascending copy of the patient's composition rows
func (d *Dataset) CompositionFor(patient string) []CompositionRecord {
	var out []CompositionRecord
	for _, r := range d.Composition {
		if r.Patient == patient {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScanDate.Before(out[j].ScanDate)
	})
	return out
}

// RawRow represents a row of raw tabular data as header/value pairs
type RawRow map[string]string

// RawTable is a source table before typed parsing
type RawTable struct {
	Headers []string
	Rows    []RawRow
}
