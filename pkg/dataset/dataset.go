// Package dataset provides read-only columnar sources of row-id / vector
// pairs for index construction.
//
// A Dataset produces batches of rows. Each batch carries a UInt64 row-id
// column and a fixed-length float32 vector column stored row-major. Only
// the minimal streaming surface needed by the index builder is modeled;
// schema handling beyond the scanned column is out of scope.
package dataset

import (
	"context"
	"errors"
)

var (
	// ErrColumnNotFound indicates the requested vector column does not exist.
	ErrColumnNotFound = errors.New("dataset: column not found")
	// ErrNotFixedSizeVector indicates the column does not hold fixed-length
	// float32 vectors.
	ErrNotFixedSizeVector = errors.New("dataset: column is not a fixed-size float32 vector")
)

// DefaultBatchSize is the number of rows per batch when none is configured.
const DefaultBatchSize = 1024

// Batch is one chunk of rows produced by a scan.
type Batch struct {
	RowIDs  []uint64  // row identifiers, one per row
	Vectors []float32 // row-major vector data, len == len(RowIDs)*Dim
	Dim     int       // vector dimension
}

// NumRows returns the number of rows in the batch.
func (b *Batch) NumRows() int { return len(b.RowIDs) }

// Stream yields batches until the scan is exhausted, then returns io.EOF.
type Stream interface {
	Next(ctx context.Context) (*Batch, error)
}

// Dataset is a read-only columnar source.
type Dataset interface {
	// CountRows returns the total number of rows.
	CountRows(ctx context.Context) (uint64, error)

	// Scan projects the named vector column together with row ids and
	// returns a stream of batches.
	Scan(ctx context.Context, column string) (Stream, error)
}
