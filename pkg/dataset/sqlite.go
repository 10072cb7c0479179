package dataset

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"

	_ "modernc.org/sqlite"
)

// SQLite reads row-id / vector pairs from a SQLite table. Vectors are
// stored as little-endian float32 BLOBs, the encoding produced by
// EncodeVector. Rows are streamed in id order so scans are reproducible.
type SQLite struct {
	db        *sql.DB
	table     string
	batchSize int
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenSQLite opens the database at path for scanning the given table.
func OpenSQLite(path, table string) (*SQLite, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("dataset: invalid table name %q", table)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}
	return &SQLite{db: db, table: table, batchSize: DefaultBatchSize}, nil
}

// SetBatchSize overrides the number of rows per scanned batch.
func (s *SQLite) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CountRows returns the total number of rows in the table.
func (s *SQLite) CountRows(ctx context.Context) (uint64, error) {
	var n uint64
	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table))
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("dataset: counting rows in %s: %w", s.table, err)
	}
	return n, nil
}

// Scan streams (id, column) pairs ordered by id.
func (s *SQLite) Scan(ctx context.Context, column string) (Stream, error) {
	if !identPattern.MatchString(column) {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	var present int
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", s.table, column)
	if err := row.Scan(&present); err != nil {
		return nil, fmt.Errorf("dataset: inspecting table %s: %w", s.table, err)
	}
	if present == 0 {
		return nil, fmt.Errorf("%w: %q in table %s", ErrColumnNotFound, column, s.table)
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, %s FROM %s ORDER BY id", column, s.table))
	if err != nil {
		return nil, fmt.Errorf("dataset: scanning %s.%s: %w", s.table, column, err)
	}
	return &sqliteStream{rows: rows, batchSize: s.batchSize}, nil
}

type sqliteStream struct {
	rows      *sql.Rows
	batchSize int
	dim       int
	done      bool
}

func (s *sqliteStream) Next(ctx context.Context) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.done {
		return nil, io.EOF
	}
	batch := &Batch{Dim: s.dim}
	for len(batch.RowIDs) < s.batchSize {
		if !s.rows.Next() {
			s.done = true
			if err := s.rows.Err(); err != nil {
				s.rows.Close()
				return nil, fmt.Errorf("dataset: reading rows: %w", err)
			}
			s.rows.Close()
			break
		}
		var id int64
		var blob []byte
		if err := s.rows.Scan(&id, &blob); err != nil {
			s.rows.Close()
			s.done = true
			return nil, fmt.Errorf("dataset: scanning row: %w", err)
		}
		vec, err := DecodeVector(blob)
		if err != nil {
			s.rows.Close()
			s.done = true
			return nil, fmt.Errorf("row %d: %w", id, err)
		}
		if s.dim == 0 {
			s.dim = len(vec)
			batch.Dim = s.dim
		}
		if len(vec) != s.dim {
			s.rows.Close()
			s.done = true
			return nil, fmt.Errorf("%w: row %d has %d values, want %d",
				ErrNotFixedSizeVector, id, len(vec), s.dim)
		}
		batch.RowIDs = append(batch.RowIDs, uint64(id))
		batch.Vectors = append(batch.Vectors, vec...)
	}
	if batch.NumRows() == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// EncodeVector packs a vector into the little-endian float32 BLOB layout
// used by the SQLite adapter.
func EncodeVector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeVector unpacks a BLOB written by EncodeVector.
func DecodeVector(buf []byte) ([]float32, error) {
	if len(buf) == 0 || len(buf)%4 != 0 {
		return nil, fmt.Errorf("%w: blob of %d bytes", ErrNotFixedSizeVector, len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}
