package vamana

import "errors"

var (
	// ErrConfig indicates invalid build parameters or an unusable dataset
	// shape (empty dataset, R >= N, missing or non-vector column).
	ErrConfig = errors.New("vamana: invalid configuration")
	// ErrDataset indicates a failure surfaced by the underlying dataset scan.
	ErrDataset = errors.New("vamana: dataset read failed")
	// ErrNumeric indicates a NaN or Inf component in an input vector.
	ErrNumeric = errors.New("vamana: non-finite value in input vector")
	// ErrInternal is the panic value raised on a graph invariant violation.
	// It signals a bug, not a caller error, and unlike the other kinds it
	// is never returned from Build.
	ErrInternal = errors.New("vamana: internal invariant violated")
)
