package dataset

import (
	"context"
	"fmt"
	"io"
)

// Memory is an in-memory Dataset, used for tests and for callers that
// already hold their vectors.
type Memory struct {
	column    string
	rowIDs    []uint64
	vectors   []float32
	dim       int
	batchSize int
}

// NewMemory builds an in-memory dataset over per-row vectors. Row ids are
// assigned sequentially starting at 0. All vectors must share one dimension.
func NewMemory(column string, vectors [][]float32) (*Memory, error) {
	rowIDs := make([]uint64, len(vectors))
	for i := range rowIDs {
		rowIDs[i] = uint64(i)
	}
	return NewMemoryWithRowIDs(column, rowIDs, vectors)
}

// NewMemoryWithRowIDs builds an in-memory dataset with caller-supplied row ids.
func NewMemoryWithRowIDs(column string, rowIDs []uint64, vectors [][]float32) (*Memory, error) {
	if column == "" {
		return nil, fmt.Errorf("dataset: column name cannot be empty")
	}
	if len(rowIDs) != len(vectors) {
		return nil, fmt.Errorf("dataset: %d row ids for %d vectors", len(rowIDs), len(vectors))
	}
	m := &Memory{column: column, batchSize: DefaultBatchSize}
	for i, vec := range vectors {
		if m.dim == 0 {
			m.dim = len(vec)
		}
		if len(vec) != m.dim || m.dim == 0 {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrNotFixedSizeVector, i, len(vec), m.dim)
		}
		m.vectors = append(m.vectors, vec...)
	}
	m.rowIDs = append(m.rowIDs, rowIDs...)
	return m, nil
}

// SetBatchSize overrides the number of rows per scanned batch.
func (m *Memory) SetBatchSize(n int) {
	if n > 0 {
		m.batchSize = n
	}
}

// CountRows returns the total number of rows.
func (m *Memory) CountRows(ctx context.Context) (uint64, error) {
	return uint64(len(m.rowIDs)), nil
}

// Scan returns a stream over the configured column.
func (m *Memory) Scan(ctx context.Context, column string) (Stream, error) {
	if column != m.column {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return &memoryStream{m: m}, nil
}

type memoryStream struct {
	m   *Memory
	pos int
}

func (s *memoryStream) Next(ctx context.Context) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.m.rowIDs) {
		return nil, io.EOF
	}
	end := s.pos + s.m.batchSize
	if end > len(s.m.rowIDs) {
		end = len(s.m.rowIDs)
	}
	batch := &Batch{
		RowIDs:  s.m.rowIDs[s.pos:end],
		Vectors: s.m.vectors[s.pos*s.m.dim : end*s.m.dim],
		Dim:     s.m.dim,
	}
	s.pos = end
	return batch, nil
}
