package vamana

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/vamana/pkg/dataset"
)

func TestLoadVectors(t *testing.T) {
	vectors := [][]float32{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
		{10, 11, 12},
		{13, 14, 15},
	}
	ds, err := dataset.NewMemory("embedding", vectors)
	require.NoError(t, err)
	ds.SetBatchSize(2)

	store, rowIDs, err := LoadVectors(context.Background(), ds, "embedding")
	require.NoError(t, err)

	require.Equal(t, 5, store.Len())
	require.Equal(t, 3, store.Dim())
	require.Equal(t, []uint64{0, 1, 2, 3, 4}, rowIDs)
	require.Equal(t, []float32{10, 11, 12}, store.Get(3))
	require.Len(t, store.Raw(), 15)
}

func TestLoadVectorsMissingColumn(t *testing.T) {
	ds, err := dataset.NewMemory("embedding", [][]float32{{1, 2}})
	require.NoError(t, err)

	_, _, err = LoadVectors(context.Background(), ds, "other")
	require.ErrorIs(t, err, ErrConfig)
}

func TestLoadVectorsNonFinite(t *testing.T) {
	cases := map[string]float32{
		"NaN":  float32(math.NaN()),
		"+Inf": float32(math.Inf(1)),
		"-Inf": float32(math.Inf(-1)),
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			ds, err := dataset.NewMemory("embedding", [][]float32{{1, 2}, {3, bad}})
			require.NoError(t, err)

			_, _, err = LoadVectors(context.Background(), ds, "embedding")
			require.ErrorIs(t, err, ErrNumeric)
		})
	}
}

func TestLoadVectorsEmpty(t *testing.T) {
	ds, err := dataset.NewMemory("embedding", nil)
	require.NoError(t, err)

	_, _, err = LoadVectors(context.Background(), ds, "embedding")
	require.ErrorIs(t, err, ErrConfig)
}

func TestNewVectorStoreValidation(t *testing.T) {
	_, err := NewVectorStore([]float32{1, 2, 3}, 2)
	require.ErrorIs(t, err, ErrConfig)

	_, err = NewVectorStore([]float32{1, 2, 3, 4}, 0)
	require.ErrorIs(t, err, ErrConfig)

	store, err := NewVectorStore([]float32{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
}
