package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"dexadash/domain/scan"
)

// ScanGeneratorConfig configures the synthetic DEXA data generator
type ScanGeneratorConfig struct {
	PatientCount int           `json:"patient_count"`
	ScansPerPat  int           `json:"scans_per_patient"`
	StartDate    time.Time     `json:"start_date"`
	Interval     time.Duration `json:"interval"`
	MissingRate  float64       `json:"missing_rate"`
	Seed         int64         `json:"seed"`
}

// DefaultScanConfig returns sensible defaults for scan data generation
func DefaultScanConfig() ScanGeneratorConfig {
	return ScanGeneratorConfig{
		PatientCount: 2,
		ScansPerPat:  6,
		StartDate:    time.Date(2023, 1, 16, 0, 0, 0, 0, time.UTC),
		Interval:     60 * 24 * time.Hour,
		MissingRate:  0.05,
		Seed:         42,
	}
}

var patientNames = []string{
	"Alex Morgan", "Blair Chen", "Casey Patel", "Devon Okafor", "Emery Walsh",
	"Finley Novak", "Gray Ibarra", "Harper Lind",
}

// share of total fat and lean mass carried by each part
var partShares = map[scan.BodyPart][2]float64{
	scan.LeftArm:   {0.055, 0.058},
	scan.RightArm:  {0.055, 0.061},
	scan.LeftLeg:   {0.170, 0.185},
	scan.RightLeg:  {0.170, 0.188},
	scan.LeftRibs:  {0.045, 0.040},
	scan.RightRibs: {0.045, 0.041},
	scan.TSpine:    {0.075, 0.080},
	scan.LSpine:    {0.050, 0.045},
	scan.Pelvis:    {0.120, 0.110},
	scan.Android:   {0.085, 0.055},
	scan.Gynoid:    {0.160, 0.140},
}

// ScanDataGenerator produces a deterministic two-table DEXA dataset
type ScanDataGenerator struct {
	config ScanGeneratorConfig
	rng    *rand.Rand
}

// NewScanDataGenerator creates a new generator
func NewScanDataGenerator(config ScanGeneratorConfig) *ScanDataGenerator {
	return &ScanDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

type patientProfile struct {
	name     string
	heightM  float64
	fatG     float64
	leanG    float64
	boneG    float64
	fatDrift float64
	leanGain float64
}

// Generate builds the dataset. Values are rounded to the precision the
// CSV writers print so that a written and re-loaded dataset is identical.
func (g *ScanDataGenerator) Generate() *scan.Dataset {
	ds := &scan.Dataset{}
	for i := 0; i < g.config.PatientCount; i++ {
		p := g.newProfile(i)
		for s := 0; s < g.config.ScansPerPat; s++ {
			date := g.config.StartDate.Add(time.Duration(s) * g.config.Interval).AddDate(0, 0, g.rng.Intn(7))
			fat := p.fatG + float64(s)*p.fatDrift + g.rng.NormFloat64()*400
			lean := p.leanG + float64(s)*p.leanGain + g.rng.NormFloat64()*300
			ds.Scans = append(ds.Scans, g.scanRows(p, date, fat, lean)...)
			ds.Composition = append(ds.Composition, g.compositionRow(p, date, fat, lean))
		}
	}
	return ds
}

func (g *ScanDataGenerator) newProfile(i int) patientProfile {
	name := patientNames[i%len(patientNames)]
	if i >= len(patientNames) {
		name = fmt.Sprintf("%s %d", name, i/len(patientNames)+1)
	}
	return patientProfile{
		name:     name,
		heightM:  1.60 + g.rng.Float64()*0.30,
		fatG:     12000 + g.rng.Float64()*14000,
		leanG:    45000 + g.rng.Float64()*20000,
		boneG:    2600 + g.rng.Float64()*800,
		fatDrift: -300 - g.rng.Float64()*500,
		leanGain: 50 + g.rng.Float64()*250,
	}
}

func (g *ScanDataGenerator) scanRows(p patientProfile, date time.Time, fat, lean float64) []scan.ScanRecord {
	var rows []scan.ScanRecord
	for _, part := range scan.AllBodyParts() {
		partFat, partLean, boneG := fat, lean, p.boneG
		if part != scan.Total {
			share := partShares[part]
			jitter := 1 + g.rng.NormFloat64()*0.02
			partFat = fat * share[0] * jitter
			partLean = lean * share[1] * jitter
			boneG = p.boneG * share[1]
		}
		partFat = math.Round(partFat)
		partLean = math.Round(partLean)
		rows = append(rows, scan.ScanRecord{
			Patient:     p.name,
			ScanDate:    date,
			BodyPart:    part,
			FatGrams:    partFat,
			LeanGrams:   partLean,
			TotalMassKg: round2((partFat + partLean + boneG) / 1000),
		})
	}
	return rows
}

func (g *ScanDataGenerator) compositionRow(p patientProfile, date time.Time, fat, lean float64) scan.CompositionRecord {
	weightKg := (fat + lean + p.boneG) / 1000
	h2 := p.heightM * p.heightM
	trunkFat := fat * (partShares[scan.LeftRibs][0] + partShares[scan.RightRibs][0] +
		partShares[scan.TSpine][0] + partShares[scan.LSpine][0] + partShares[scan.Pelvis][0])
	legFat := fat * (partShares[scan.LeftLeg][0] + partShares[scan.RightLeg][0])
	armFat := fat * (partShares[scan.LeftArm][0] + partShares[scan.RightArm][0])
	appendicularLean := lean * (partShares[scan.LeftArm][1] + partShares[scan.RightArm][1] +
		partShares[scan.LeftLeg][1] + partShares[scan.RightLeg][1])
	vatArea := 40 + fat/250 + g.rng.NormFloat64()*4

	values := map[scan.Metric]float64{
		scan.TotalBodyWeight:       weightKg,
		scan.BMI:                   weightKg / h2,
		scan.BasalMetabolicRate:    370 + 21.6*lean/1000,
		scan.TotalBodyFat:          fat / (weightKg * 10),
		scan.FatMassIndex:          fat / 1000 / h2,
		scan.AndroidGynoidRatio:    partShares[scan.Android][0] / partShares[scan.Gynoid][0] * (1 + g.rng.NormFloat64()*0.03),
		scan.TrunkLegsFatRatio:     trunkFat / legFat,
		scan.TrunkLimbFatRatio:     trunkFat / (legFat + armFat),
		scan.VisceralFatArea:       vatArea,
		scan.VisceralFatMass:       vatArea * 8.1,
		scan.VisceralFatVolume:     vatArea * 8.1 / 0.94,
		scan.SubcutaneousFatArea:   90 + fat/120,
		scan.TotalLeanBody:         lean / (weightKg * 10),
		scan.LeanMassIndex:         lean / 1000 / h2,
		scan.AppendicularLeanIndex: appendicularLean / 1000 / h2,
		scan.TotalBoneMass:         p.boneG / (weightKg * 10),
	}

	rec := scan.CompositionRecord{Patient: p.name, ScanDate: date, Values: make(map[scan.Metric]float64)}
	for _, m := range scan.Metrics {
		if g.rng.Float64() < g.config.MissingRate {
			continue
		}
		rec.Values[m] = round2(values[m])
	}
	return rec
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ScanCSV renders the per-body-part table the way the source exports it,
// with DD-MM-YYYY dates
func ScanCSV(ds *scan.Dataset) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Unique ID", scan.ColumnPatient, scan.ColumnScanDate, scan.ColumnBodyPart,
		scan.ColumnFat, scan.ColumnLean, scan.ColumnTotalMass})
	for _, r := range ds.Scans {
		_ = w.Write([]string{
			r.Patient + "|" + r.ScanDate.Format("20060102"),
			r.Patient,
			r.ScanDate.Format("02-01-2006"),
			string(r.BodyPart),
			formatFloat(r.FatGrams),
			formatFloat(r.LeanGrams),
			formatFloat(r.TotalMassKg),
		})
	}
	w.Flush()
	return buf.Bytes()
}

// CompositionCSV renders the composition table with DD/MM/YYYY dates.
// Superscript units carry the Latin-1 mojibake seen in real exports.
func CompositionCSV(ds *scan.Dataset) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{scan.ColumnPatient, scan.ColumnScanDate}
	for _, m := range scan.Metrics {
		header = append(header, mangleHeader(string(m)))
	}
	_ = w.Write(header)

	for _, r := range ds.Composition {
		row := []string{r.Patient, r.ScanDate.Format("02/01/2006")}
		for _, m := range scan.Metrics {
			if v, ok := r.Value(m); ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}

func mangleHeader(h string) string {
	out := make([]rune, 0, len(h)+2)
	for _, r := range h {
		if r == '²' || r == '³' {
			out = append(out, 'Â')
		}
		out = append(out, r)
	}
	return " " + string(out)
}

// WriteCSVFiles writes both tables into dir and returns their paths
func WriteCSVFiles(ds *scan.Dataset, dir string) (scanPath, compositionPath string, err error) {
	scanPath = filepath.Join(dir, "master_dexa_data.csv")
	compositionPath = filepath.Join(dir, "composition_indices.csv")
	if err := os.WriteFile(scanPath, ScanCSV(ds), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write scan table: %w", err)
	}
	if err := os.WriteFile(compositionPath, CompositionCSV(ds), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write composition table: %w", err)
	}
	return scanPath, compositionPath, nil
}
