package vamana

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/therealutkarshpriyadarshi/vamana/pkg/dataset"
)

// VectorStore is a read-only, contiguous store of N vectors of one fixed
// dimension. Vectors are packed row-major so batched distance kernels can
// run over the raw buffer.
type VectorStore struct {
	data  []float32
	dim   int
	count int
}

// NewVectorStore wraps an existing row-major buffer.
func NewVectorStore(data []float32, dim int) (*VectorStore, error) {
	if dim <= 0 || len(data)%dim != 0 {
		return nil, fmt.Errorf("%w: buffer of %d values is not a multiple of dimension %d",
			ErrConfig, len(data), dim)
	}
	return &VectorStore{data: data, dim: dim, count: len(data) / dim}, nil
}

// Len returns the number of vectors.
func (s *VectorStore) Len() int { return s.count }

// Dim returns the vector dimension.
func (s *VectorStore) Dim() int { return s.dim }

// Get returns the vector at position i as a view into the shared buffer.
// The returned slice must not be modified.
func (s *VectorStore) Get(i int) []float32 {
	return s.data[i*s.dim : (i+1)*s.dim]
}

// Raw returns the full row-major buffer for batched distance kernels.
func (s *VectorStore) Raw() []float32 { return s.data }

// LoadVectors streams the vector column of ds into a contiguous store and
// returns it together with the row-id column, in row order. Missing or
// malformed columns are configuration errors, scan failures are dataset
// errors and non-finite components are numeric errors.
func LoadVectors(ctx context.Context, ds dataset.Dataset, column string) (*VectorStore, []uint64, error) {
	stream, err := ds.Scan(ctx, column)
	if err != nil {
		return nil, nil, classifyScanError(err)
	}

	var (
		data   []float32
		rowIDs []uint64
		dim    int
	)
	for {
		batch, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, classifyScanError(err)
		}
		if batch.Dim <= 0 || len(batch.Vectors) != batch.NumRows()*batch.Dim {
			return nil, nil, fmt.Errorf("%w: batch shape mismatch (%d rows, %d values, dim %d)",
				ErrConfig, batch.NumRows(), len(batch.Vectors), batch.Dim)
		}
		if dim == 0 {
			dim = batch.Dim
		} else if batch.Dim != dim {
			return nil, nil, fmt.Errorf("%w: vector dimension changed from %d to %d mid-scan",
				ErrConfig, dim, batch.Dim)
		}
		rowIDs = append(rowIDs, batch.RowIDs...)
		data = append(data, batch.Vectors...)
	}
	if len(rowIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: dataset produced no rows", ErrConfig)
	}

	for i, v := range data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil, fmt.Errorf("%w: row %d component %d", ErrNumeric, i/dim, i%dim)
		}
	}

	return &VectorStore{data: data, dim: dim, count: len(rowIDs)}, rowIDs, nil
}

// classifyScanError maps dataset failures onto the builder's error kinds:
// a missing or non-vector column is a configuration problem, everything
// else is a dataset read failure.
func classifyScanError(err error) error {
	if errors.Is(err, dataset.ErrColumnNotFound) || errors.Is(err, dataset.ErrNotFixedSizeVector) {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return fmt.Errorf("%w: %w", ErrDataset, err)
}
