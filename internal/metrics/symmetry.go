package metrics

import (
	"sort"
	"time"

	"dexadash/domain/scan"

	"gonum.org/v1/gonum/stat"
)

type scanKey struct {
	patient string
	date    time.Time
}

// CalculateSymmetry derives one SymmetryRecord per (patient, scan date)
// from lean mass. A region is scored only when both sides were measured in
// that scan and their sum is non-zero; scans with no scorable region emit
// no record. Output is ordered by patient, then date.
func CalculateSymmetry(scans []scan.ScanRecord) []scan.SymmetryRecord {
	lean := make(map[scanKey]map[scan.BodyPart]float64)
	for _, r := range scans {
		key := scanKey{patient: r.Patient, date: r.ScanDate}
		parts, ok := lean[key]
		if !ok {
			parts = make(map[scan.BodyPart]float64)
			lean[key] = parts
		}
		if _, dup := parts[r.BodyPart]; !dup {
			parts[r.BodyPart] = r.LeanGrams
		}
	}

	keys := make([]scanKey, 0, len(lean))
	for k := range lean {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].patient != keys[j].patient {
			return keys[i].patient < keys[j].patient
		}
		return keys[i].date.Before(keys[j].date)
	})

	records := make([]scan.SymmetryRecord, 0, len(keys))
	for _, k := range keys {
		parts := lean[k]
		rec := scan.SymmetryRecord{Patient: k.patient, ScanDate: k.date}
		rec.Arm = pairScore(parts, scan.RegionArm)
		rec.Ribs = pairScore(parts, scan.RegionRibs)
		rec.Leg = pairScore(parts, scan.RegionLeg)
		if rec.Arm == nil && rec.Ribs == nil && rec.Leg == nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func pairScore(parts map[scan.BodyPart]float64, region scan.Region) *float64 {
	leftPart, rightPart := region.Sides()
	left, okL := parts[leftPart]
	right, okR := parts[rightPart]
	if !okL || !okR {
		return nil
	}
	score, err := SymmetryScore(left, right)
	if err != nil {
		return nil
	}
	return &score
}

// RegionSummary describes a region's symmetry scores across scans
type RegionSummary struct {
	Region scan.Region `json:"region"`
	Count  int         `json:"count"`
	Mean   float64     `json:"mean"`
	StdDev float64     `json:"std_dev"`
	// SlopePer30Days is the least-squares change in score per 30 days;
	// valid only when HasSlope is true.
	SlopePer30Days float64 `json:"slope_per_30_days"`
	HasSlope       bool    `json:"has_slope"`
}

// SummarizeSymmetry aggregates one region over date-ordered records
func SummarizeSymmetry(records []scan.SymmetryRecord, region scan.Region) RegionSummary {
	summary := RegionSummary{Region: region}

	var xs, ys []float64
	var origin time.Time
	for _, rec := range records {
		score, ok := rec.Score(region)
		if !ok {
			continue
		}
		if len(xs) == 0 {
			origin = rec.ScanDate
		}
		xs = append(xs, rec.ScanDate.Sub(origin).Hours()/24)
		ys = append(ys, score)
	}

	summary.Count = len(ys)
	if summary.Count == 0 {
		return summary
	}
	if summary.Count == 1 {
		summary.Mean = ys[0]
		return summary
	}
	summary.Mean, summary.StdDev = stat.MeanStdDev(ys, nil)

	if slope, ok := Slope(xs, ys); ok {
		summary.SlopePer30Days = slope * 30
		summary.HasSlope = true
	}
	return summary
}

// Slope fits y = a + b*x by least squares and returns b. It reports false
// when fewer than two distinct x values are present.
func Slope(xs, ys []float64) (float64, bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, false
	}
	distinct := false
	for _, x := range xs[1:] {
		if x != xs[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return 0, false
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta, true
}
