package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"dexadash/domain/scan"
	"dexadash/internal"
	"dexadash/internal/errors"

	"github.com/xuri/excelize/v2"
)

// maxSourceBytes bounds a single remote table download
const maxSourceBytes = 32 << 20

// Reader handles reading CSV and Excel tables from HTTP(S) URLs or local files
type Reader struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *internal.Logger
}

// NewReader creates a reader whose remote fetches time out after timeout
func NewReader(timeout time.Duration, logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxSourceBytes,
		logger:     logger.With("DataReader"),
	}
}

// Read loads the table at location. Any failure to reach or decode the
// source is reported as SOURCE_UNAVAILABLE.
func (r *Reader) Read(ctx context.Context, location string) (*scan.RawTable, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errors.SourceUnavailable("<empty>", fmt.Errorf("no location given"))
	}

	readStart := time.Now()
	content, fileType, err := r.fetch(ctx, location)
	if err != nil {
		return nil, errors.SourceUnavailable(location, err)
	}
	r.logger.Debug("fetched %s (%d bytes) in %.2fms", location, len(content), float64(time.Since(readStart).Nanoseconds())/1e6)

	var rows [][]string
	switch fileType {
	case "xlsx":
		rows, err = readExcelRows(content)
	default:
		rows, err = readCSVRows(content)
	}
	if err != nil {
		return nil, errors.SourceUnavailable(location, err)
	}
	if len(rows) < 2 {
		return nil, errors.SourceUnavailable(location, fmt.Errorf("%s table must have at least a header row and one data row", strings.ToUpper(fileType)))
	}

	table := processRows(rows)
	r.logger.Info("%s table %s processed (%d columns, %d rows)", strings.ToUpper(fileType), location, len(table.Headers), len(table.Rows))
	return table, nil
}

func (r *Reader) fetch(ctx context.Context, location string) ([]byte, string, error) {
	if isRemote(location) {
		target := rawGitHubURL(location)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("source returned status %d", resp.StatusCode)
		}
		// one byte past the limit tells a full table from a cut one
		body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read response: %w", err)
		}
		if int64(len(body)) > r.maxBytes {
			return nil, "", fmt.Errorf("response exceeds %d bytes", r.maxBytes)
		}
		u, _ := url.Parse(target)
		return body, fileTypeOf(u.Path), nil
	}

	body, err := os.ReadFile(location)
	if err != nil {
		return nil, "", err
	}
	return body, fileTypeOf(location), nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fileTypeOf(p string) string {
	if strings.EqualFold(path.Ext(p), ".xlsx") {
		return "xlsx"
	}
	return "csv"
}

// rawGitHubURL rewrites a github.com ".../blob/<ref>/<path>" page URL to the
// raw.githubusercontent.com URL serving the file itself. Other URLs are
// returned unchanged.
func rawGitHubURL(location string) string {
	u, err := url.Parse(location)
	if err != nil || !strings.EqualFold(u.Host, "github.com") {
		return location
	}
	parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(parts) < 5 || parts[2] != "blob" {
		return location
	}
	u.Host = "raw.githubusercontent.com"
	u.Path = "/" + strings.Join(append(parts[:2], parts[3:]...), "/")
	return u.String()
}

func readCSVRows(content []byte) ([][]string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// readExcelRows reads the first sheet of a workbook
func readExcelRows(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return rows, nil
}

// processRows converts raw string rows into a RawTable keyed by trimmed header
func processRows(rows [][]string) *scan.RawTable {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]scan.RawRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		rowData := make(scan.RawRow, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &scan.RawTable{
		Headers: headers,
		Rows:    dataRows,
	}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
