package view

import (
	"time"

	"dexadash/domain/scan"
	"dexadash/internal"
)

// NoDataMessage replaces a view whose filtered rows are empty
const NoDataMessage = "No data available for selected patient"

const (
	displayDate = "02 Jan 2006"
	tableDate   = "2006-01-02"
)

// Assembler builds page views over the immutable dataset. It holds no
// mutable state and is safe for concurrent use.
type Assembler struct {
	dataset *scan.Dataset
	now     func() time.Time
	logger  *internal.Logger
}

// NewAssembler creates an assembler over ds
func NewAssembler(ds *scan.Dataset, logger *internal.Logger) *Assembler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if ds == nil {
		ds = &scan.Dataset{}
	}
	return &Assembler{
		dataset: ds,
		now:     time.Now,
		logger:  logger.With("View"),
	}
}

// WithClock replaces the clock used for "days since" figures
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Patients lists the patient selector options
func (a *Assembler) Patients() []string {
	return a.dataset.Patients()
}

// DefaultPatient is the first patient alphabetically, or "" for an empty dataset
func (a *Assembler) DefaultPatient() string {
	patients := a.dataset.Patients()
	if len(patients) == 0 {
		return ""
	}
	return patients[0]
}

// ResolvePatient returns patient when non-empty, else the default patient
func (a *Assembler) ResolvePatient(patient string) string {
	if patient != "" {
		return patient
	}
	return a.DefaultPatient()
}

// HasPatient reports whether the dataset knows the patient
func (a *Assembler) HasPatient(patient string) bool {
	return a.dataset.HasPatient(patient)
}
