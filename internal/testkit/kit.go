package testkit

import (
	"log"

	"dexadash/domain/scan"
)

// TestKit provides a synthetic dataset for demos and tests
type TestKit struct {
	dataset *scan.Dataset
}

// NewTestKit creates a test kit with the default synthetic data
func NewTestKit() *TestKit {
	return NewTestKitWithConfig(DefaultScanConfig())
}

// NewTestKitWithConfig creates a test kit from an explicit generator config
func NewTestKitWithConfig(config ScanGeneratorConfig) *TestKit {
	ds := NewScanDataGenerator(config).Generate()
	log.Printf("[TestKit] generated %d patients, %d scan rows, %d composition rows",
		config.PatientCount, len(ds.Scans), len(ds.Composition))
	return &TestKit{dataset: ds}
}

// Dataset returns the generated tables
func (k *TestKit) Dataset() *scan.Dataset {
	return k.dataset
}
