package container

import (
	"context"
	"fmt"
	"time"

	"dexadash/adapters/source"
	"dexadash/domain/scan"
	"dexadash/internal"
	"dexadash/internal/config"
	"dexadash/internal/loader"
	"dexadash/internal/selection"
	"dexadash/internal/testkit"
	"dexadash/internal/view"
	"dexadash/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data access
	Reader ports.TableReader
	Loader *loader.Loader

	// Immutable base tables, set by Init
	Dataset *scan.Dataset

	// Request-time components
	Assembler  *view.Assembler
	Selections *selection.Store

	// Synthetic data source when no tables are configured
	TestKit *testkit.TestKit
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	reader := source.NewReader(cfg.Data.FetchTimeout, logger)

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Reader:     reader,
		Loader:     loader.New(reader, logger),
		Selections: selection.NewStore(cfg.Session.TTL),
	}
	return c, nil
}

// Init loads the base tables once. A configured source that cannot be
// loaded is fatal; with no sources the demo dataset is generated.
func (c *Container) Init(ctx context.Context) error {
	start := time.Now()

	if c.Config.Data.Demo() {
		if err := c.initTestInfrastructure(); err != nil {
			return fmt.Errorf("failed to initialize demo data: %w", err)
		}
		c.Dataset = c.TestKit.Dataset()
		c.Logger.Warn("no SCAN_SOURCE/COMPOSITION_SOURCE configured, serving synthetic demo data")
	} else {
		ds, err := c.Loader.Load(ctx, c.Config.Data.ScanSource, c.Config.Data.CompositionSource)
		if err != nil {
			return err
		}
		c.Dataset = ds
	}

	c.Assembler = view.NewAssembler(c.Dataset, c.Logger)
	c.Logger.Info("container initialized with %d patients in %s", len(c.Dataset.Patients()), time.Since(start).Round(time.Millisecond))
	return nil
}

// initTestInfrastructure builds the synthetic dataset from the demo settings
func (c *Container) initTestInfrastructure() error {
	cfg := testkit.DefaultScanConfig()
	cfg.PatientCount = c.Config.Data.DemoPatients
	cfg.ScansPerPat = c.Config.Data.DemoScans
	if cfg.PatientCount < 1 || cfg.ScansPerPat < 1 {
		return fmt.Errorf("demo dataset needs at least one patient and one scan")
	}
	c.TestKit = testkit.NewTestKitWithConfig(cfg)
	return nil
}
