package dataset

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryScanBatches(t *testing.T) {
	vectors := [][]float32{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}
	ds, err := NewMemory("embedding", vectors)
	require.NoError(t, err)
	ds.SetBatchSize(2)

	n, err := ds.CountRows(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(5), n)

	stream, err := ds.Scan(context.Background(), "embedding")
	require.NoError(t, err)

	var rows int
	var sizes []int
	for {
		batch, err := stream.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.Equal(t, 2, batch.Dim)
		require.Len(t, batch.Vectors, batch.NumRows()*batch.Dim)
		sizes = append(sizes, batch.NumRows())
		rows += batch.NumRows()
	}
	require.Equal(t, 5, rows)
	require.Equal(t, []int{2, 2, 1}, sizes)
}

func TestMemoryColumnNotFound(t *testing.T) {
	ds, err := NewMemory("embedding", [][]float32{{1}})
	require.NoError(t, err)

	_, err = ds.Scan(context.Background(), "vector")
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestMemoryRaggedVectors(t *testing.T) {
	_, err := NewMemory("embedding", [][]float32{{1, 2}, {3}})
	require.ErrorIs(t, err, ErrNotFixedSizeVector)
}

func TestMemoryRowIDMismatch(t *testing.T) {
	_, err := NewMemoryWithRowIDs("embedding", []uint64{1, 2, 3}, [][]float32{{1}, {2}})
	require.Error(t, err)
}

func TestMemoryCustomRowIDs(t *testing.T) {
	ds, err := NewMemoryWithRowIDs("embedding", []uint64{100, 200}, [][]float32{{1}, {2}})
	require.NoError(t, err)

	stream, err := ds.Scan(context.Background(), "embedding")
	require.NoError(t, err)
	batch, err := stream.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, []uint64{100, 200}, batch.RowIDs)

	_, err = stream.Next(context.Background())
	require.Equal(t, io.EOF, err)
}

func TestMemoryScanCancelled(t *testing.T) {
	ds, err := NewMemory("embedding", [][]float32{{1}, {2}})
	require.NoError(t, err)

	stream, err := ds.Scan(context.Background(), "embedding")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = stream.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
