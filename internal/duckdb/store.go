// Package duckdb stores consequence rows in a DuckDB database, giving the
// annotation output a queryable form alongside the TSV stream.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/mchaldebas/5ULTRA/internal/annotate"
	"github.com/mchaldebas/5ULTRA/internal/vcf"
)

// Store manages a DuckDB connection holding annotation results.
// It implements annotate.AnnotationWriter.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates the results table if it doesn't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS utr_consequences (
		chrom VARCHAR,
		pos BIGINT,
		id VARCHAR,
		ref VARCHAR,
		alt VARCHAR,
		original_variant VARCHAR,
		variant_type VARCHAR,
		csq VARCHAR,
		translation VARCHAR,
		gene VARCHAR,
		transcript VARCHAR,
		strand VARCHAR,
		utr_start BIGINT,
		utr_end BIGINT,
		mane BOOLEAN,
		main_kozak VARCHAR,
		main_kozak_strength VARCHAR,
		uorf_start BIGINT,
		uorf_end BIGINT,
		uorf_id VARCHAR,
		ustart_to_mstart BIGINT,
		start_codon VARCHAR,
		stop_codon VARCHAR,
		uorf_type VARCHAR,
		uorf_kozak VARCHAR,
		uorf_kozak_strength VARCHAR,
		uorf_length BIGINT,
		uorf_codons DOUBLE,
		mean_phylop VARCHAR,
		mean_phastcons VARCHAR
	)`)
	return err
}

// WriteHeader is a no-op; the schema is the header.
func (s *Store) WriteHeader() error {
	return nil
}

// Write appends one consequence row.
func (s *Store) Write(v *vcf.Variant, c *annotate.Consequence) error {
	utr := c.UTR

	var uorfStart, uorfEnd, distToMain, length sql.NullInt64
	var codons sql.NullFloat64
	var uorfID, startCodon, stopCodon, uorfType, uorfKozak, uorfStrength, phylop, phastcons sql.NullString
	if u := c.UORF; u != nil {
		uorfStart = sql.NullInt64{Int64: u.StartGenomic, Valid: true}
		uorfEnd = sql.NullInt64{Int64: u.EndGenomic, Valid: true}
		distToMain = sql.NullInt64{Int64: u.DistToMainStart, Valid: true}
		length = sql.NullInt64{Int64: u.Length, Valid: true}
		codons = sql.NullFloat64{Float64: u.Codons, Valid: true}
		uorfID = sql.NullString{String: u.ID, Valid: true}
		startCodon = sql.NullString{String: u.StartCodon, Valid: true}
		stopCodon = sql.NullString{String: u.StopCodon, Valid: true}
		uorfType = sql.NullString{String: string(u.Type), Valid: true}
		uorfKozak = sql.NullString{String: u.Kozak, Valid: true}
		uorfStrength = sql.NullString{String: u.KozakStrength.String(), Valid: true}
		phylop = sql.NullString{String: u.MeanPhyloP, Valid: true}
		phastcons = sql.NullString{String: u.MeanPhastCons, Valid: true}
	}

	_, err := s.db.Exec(`INSERT INTO utr_consequences VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Chrom, v.Pos, v.ID, v.Ref, v.Alt, v.OriginalID, v.Event,
		c.CSQ, c.Direction,
		utr.Gene, utr.Transcript, utr.Strand, utr.Start, utr.End, utr.MANE,
		utr.Kozak, utr.KozakStrength.String(),
		uorfStart, uorfEnd, uorfID, distToMain, startCodon, stopCodon,
		uorfType, uorfKozak, uorfStrength, length, codons, phylop, phastcons)
	if err != nil {
		return fmt.Errorf("insert consequence: %w", err)
	}
	return nil
}

// Flush is a no-op; inserts are not buffered.
func (s *Store) Flush() error {
	return nil
}
