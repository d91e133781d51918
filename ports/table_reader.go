package ports

import (
	"context"

	"dexadash/domain/scan"
)

// TableReader fetches one tabular source by location (URL or local path)
type TableReader interface {
	Read(ctx context.Context, location string) (*scan.RawTable, error)
}
