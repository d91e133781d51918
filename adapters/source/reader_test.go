package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dexadash/internal"
	"dexadash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = "\xef\xbb\xbfPatient Name, Scan Date ,Body Part\n" +
	"Alex,01-02-2024,Total\n" +
	",,\n" +
	"Alex,01-03-2024,Left Arm,extra\n"

func newTestReader() *Reader {
	return NewReader(5*time.Second, internal.NewLogger(internal.LogLevelError))
}

func TestReadRemoteCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	table, err := newTestReader().Read(context.Background(), srv.URL+"/data/master.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Patient Name", "Scan Date", "Body Part"}, table.Headers)
	require.Len(t, table.Rows, 2, "blank rows are skipped")
	assert.Equal(t, "01-02-2024", table.Rows[0]["Scan Date"])
	assert.Equal(t, "Left Arm", table.Rows[1]["Body Part"])
}

func TestReadRemoteFailureIsSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestReader().Read(context.Background(), srv.URL+"/missing.csv")
	require.Error(t, err)
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

func TestReadOversizedRemoteTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	reader := newTestReader()
	reader.maxBytes = int64(len(sampleCSV)) - 1

	_, err := reader.Read(context.Background(), srv.URL+"/master.csv")
	require.Error(t, err)
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
	assert.Contains(t, err.Error(), "exceeds")

	reader.maxBytes = int64(len(sampleCSV))
	table, err := reader.Read(context.Background(), srv.URL+"/master.csv")
	require.NoError(t, err, "a body exactly at the limit is complete")
	assert.Len(t, table.Rows, 2)
}

func TestReadUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := newTestReader().Read(context.Background(), addr+"/master.csv")
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

func TestReadHeaderOnlyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Patient Name,Scan Date\n"), 0o600))

	_, err := newTestReader().Read(context.Background(), path)
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

func TestReadMissingFile(t *testing.T) {
	_, err := newTestReader().Read(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))

	_, err = newTestReader().Read(context.Background(), "  ")
	assert.Equal(t, errors.CodeSourceUnavailable, errors.GetCode(err))
}

func TestReadLocalWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Patient Name", "Scan Date", "BMI (kg/mÂ²)"},
		{"Alex", "01/02/2024", "24.1"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "composition.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := newTestReader().Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "24.1", table.Rows[0]["BMI (kg/mÂ²)"])
}

func TestRawGitHubURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"https://github.com/acme/dexa/blob/main/Data/master_dexa_data.csv",
			"https://raw.githubusercontent.com/acme/dexa/main/Data/master_dexa_data.csv",
		},
		{
			"https://raw.githubusercontent.com/acme/dexa/main/Data/composition_indices.csv",
			"https://raw.githubusercontent.com/acme/dexa/main/Data/composition_indices.csv",
		},
		{"https://github.com/acme/dexa", "https://github.com/acme/dexa"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, rawGitHubURL(test.input))
	}
}

func TestFileTypeOf(t *testing.T) {
	assert.Equal(t, "xlsx", fileTypeOf("/tmp/Scans.XLSX"))
	assert.Equal(t, "csv", fileTypeOf("/data/master.csv"))
	assert.Equal(t, "csv", fileTypeOf("/data/export"))
}
