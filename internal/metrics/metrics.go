// Package metrics holds the pure derivations behind every dashboard chart:
// left/right symmetry, fat:lean ratio labels, trend arrows and mean
// imputation of missing composition values.
package metrics

import (
	"fmt"
	"math"
	"strconv"

	"dexadash/domain/core"

	"github.com/montanaflynn/stats"
)

// SymmetryScore is (right-left) divided by the pair's mean. Negative values
// mean the left side dominates. A zero sum has no defined score and
// returns core.ErrDivisionByZero.
func SymmetryScore(left, right float64) (float64, error) {
	avg := (left + right) / 2
	if avg == 0 {
		return 0, fmt.Errorf("symmetry of %.1f/%.1f: %w", left, right, core.ErrDivisionByZero)
	}
	return (right - left) / avg, nil
}

// Ratio returns fat/lean, guarding a zero lean mass
func Ratio(fat, lean float64) (float64, error) {
	if lean == 0 {
		return 0, fmt.Errorf("fat:lean with zero lean mass: %w", core.ErrDivisionByZero)
	}
	return fat / lean, nil
}

// FatLeanRatio formats fat:lean in normalized form. Ratios below one are
// written against the nearest whole denominator ("1.0:2"), others against
// one ("1.5:1").
func FatLeanRatio(fat, lean float64) (string, error) {
	r, err := Ratio(fat, lean)
	if err != nil {
		return "", err
	}
	denominator := 1
	if r < 1 {
		if r <= 0 {
			return "", fmt.Errorf("fat:lean with zero fat mass: %w", core.ErrDivisionByZero)
		}
		denominator = int(math.RoundToEven(1 / r))
	}
	// one decimal of the exact binary value, so 1.15 (stored just below) gives 1.1
	numerator := strconv.FormatFloat(r*float64(denominator), 'f', 1, 64)
	return numerator + ":" + strconv.Itoa(denominator), nil
}

// Trend is the direction between two consecutive observations
type Trend int

const (
	Unchanged Trend = iota
	Increasing
	Decreasing
)

// CompareTrend classifies current against previous by strict comparison
func CompareTrend(current, previous float64) Trend {
	switch {
	case current > previous:
		return Increasing
	case current < previous:
		return Decreasing
	default:
		return Unchanged
	}
}

// Symbol renders the trend as an arrow
func (t Trend) Symbol() string {
	switch t {
	case Increasing:
		return "↑"
	case Decreasing:
		return "↓"
	default:
		return "→"
	}
}

func (t Trend) String() string {
	switch t {
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	default:
		return "unchanged"
	}
}

// MarshalText lets trends travel as their names in JSON views
func (t Trend) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names written by MarshalText
func (t *Trend) UnmarshalText(text []byte) error {
	switch string(text) {
	case "increasing":
		*t = Increasing
	case "decreasing":
		*t = Decreasing
	case "unchanged":
		*t = Unchanged
	default:
		return fmt.Errorf("unknown trend %q", text)
	}
	return nil
}

// Filled is a series after mean imputation. Flags[i] is true where
// Values[i] was substituted rather than observed.
type Filled struct {
	Values []float64
	Flags  []bool
	Mean   float64
}

// FilledCount returns how many entries were imputed
func (f Filled) FilledCount() int {
	n := 0
	for _, flagged := range f.Flags {
		if flagged {
			n++
		}
	}
	return n
}

// FillMissing replaces nil entries with the mean of the observed ones.
// A series with no observations returns core.ErrNoObservations.
func FillMissing(series []*float64) (Filled, error) {
	observed := make([]float64, 0, len(series))
	for _, v := range series {
		if v != nil && !math.IsNaN(*v) {
			observed = append(observed, *v)
		}
	}
	if len(observed) == 0 {
		return Filled{}, core.ErrNoObservations
	}

	mean, err := stats.Mean(observed)
	if err != nil {
		return Filled{}, fmt.Errorf("mean of %d observations: %w", len(observed), err)
	}

	out := Filled{
		Values: make([]float64, len(series)),
		Flags:  make([]bool, len(series)),
		Mean:   mean,
	}
	for i, v := range series {
		if v == nil || math.IsNaN(*v) {
			out.Values[i] = mean
			out.Flags[i] = true
			continue
		}
		out.Values[i] = *v
	}
	return out, nil
}
