package container

import (
	"context"
	"testing"
	"time"

	"dexadash/internal/config"
	"dexadash/internal/errors"
	"dexadash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Data: config.DataConfig{
			FetchTimeout: 5 * time.Second,
			DemoPatients: 3,
			DemoScans:    4,
		},
		Session: config.SessionConfig{CookieName: "dexa_session", TTL: time.Hour},
		Log:     config.LogConfig{Level: "ERROR"},
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitDemoDataset(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))

	require.NotNil(t, c.TestKit)
	assert.Len(t, c.Dataset.Patients(), 3)
	assert.Len(t, c.Dataset.Composition, 12)
	assert.NotNil(t, c.Assembler)
	assert.NotNil(t, c.Selections)
}

func TestInitFromSources(t *testing.T) {
	ds := testkit.NewTestKit().Dataset()
	scanPath, compPath, err := testkit.WriteCSVFiles(ds, t.TempDir())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Data.ScanSource = scanPath
	cfg.Data.CompositionSource = compPath

	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))

	assert.Nil(t, c.TestKit)
	assert.Equal(t, ds.Patients(), c.Assembler.Patients())
	assert.Len(t, c.Dataset.Scans, len(ds.Scans))
}

func TestInitFailsOnUnreachableSource(t *testing.T) {
	cfg := testConfig()
	cfg.Data.ScanSource = "/nonexistent/master_dexa_data.csv"
	cfg.Data.CompositionSource = "/nonexistent/composition_indices.csv"

	c, err := New(cfg)
	require.NoError(t, err)

	err = c.Init(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}
