// Package loader turns the two remote tables into the immutable Dataset
// served for the lifetime of the process.
package loader

import (
	"context"
	"time"

	"dexadash/domain/scan"
	"dexadash/internal"
	"dexadash/internal/errors"
	"dexadash/ports"

	"golang.org/x/sync/errgroup"
)

// Loader fetches and parses the scan and composition tables
type Loader struct {
	reader ports.TableReader
	logger *internal.Logger
}

// New creates a loader reading through reader
func New(reader ports.TableReader, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{reader: reader, logger: logger.With("Loader")}
}

// Load fetches both sources concurrently. Either source failing to load or
// lacking a required column fails the whole load.
func (l *Loader) Load(ctx context.Context, scanLocation, compositionLocation string) (*scan.Dataset, error) {
	start := time.Now()
	ds := &scan.Dataset{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scans, err := l.LoadScans(gctx, scanLocation)
		if err != nil {
			return err
		}
		ds.Scans = scans
		return nil
	})
	g.Go(func() error {
		comp, err := l.LoadComposition(gctx, compositionLocation)
		if err != nil {
			return err
		}
		ds.Composition = comp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("dataset ready: %d scan rows, %d composition rows, %d patients in %s",
		len(ds.Scans), len(ds.Composition), len(ds.Patients()), time.Since(start).Round(time.Millisecond))
	return ds, nil
}

// LoadScans reads and parses the per-body-part table
func (l *Loader) LoadScans(ctx context.Context, location string) ([]scan.ScanRecord, error) {
	table, err := l.reader.Read(ctx, location)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load scan table")
	}
	records, stats, err := ParseScanTable(table)
	if err != nil {
		return nil, errors.SourceUnavailable(location, err)
	}
	l.report(location, stats)
	return records, nil
}

// LoadComposition reads and parses the composition index table
func (l *Loader) LoadComposition(ctx context.Context, location string) ([]scan.CompositionRecord, error) {
	table, err := l.reader.Read(ctx, location)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load composition table")
	}
	records, stats, absent, err := ParseCompositionTable(table)
	if err != nil {
		return nil, errors.SourceUnavailable(location, err)
	}
	for _, m := range absent {
		l.logger.Warn("%s has no %q column; its chart will be empty", location, m)
	}
	l.report(location, stats)
	return records, nil
}

func (l *Loader) report(location string, stats LoadStats) {
	if stats.Dropped() > 0 {
		l.logger.Warn("%s: dropped %d of %d rows (%d bad dates, %d malformed, %d duplicate scans)",
			location, stats.Dropped(), stats.Rows, stats.BadDates, stats.MalformedRows, stats.DuplicateScans)
	}
	l.logger.Debug("%s: kept %d rows", location, stats.Kept)
}
