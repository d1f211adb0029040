// Package uclust reads UCLUST (.uc) cluster assignments and aggregates them by cluster.
package uclust

import (
	"fmt"
	"io"
	"strings"

	"github.com/faircloth-lab/meta/internal/tabular"
	"github.com/shenwei356/xopen"
)

// Columns is the fixed number of columns in a .uc row.
const Columns = 10

// Record types written by UCLUST.
const (
	Hit     = "H"
	Seed    = "S"
	Cluster = "C"
	NoHit   = "N"
)

// Record is one row of a .uc file.
type Record struct {
	// Type is H (hit), S (seed), C (cluster summary), L (library seed) or N (no hit)
	Type string

	// ClusterNumber is not valid for N records
	ClusterNumber tabular.NullInt

	// SeqLength is the query length, or the cluster size for C records
	SeqLength int

	// PctID is the identity to the seed; not valid for S and C records
	PctID tabular.NullFloat

	// Strand is "+", "-", or "*"
	Strand string

	QueryStart tabular.NullInt
	SeedStart  tabular.NullInt

	// Alignment is a compressed alignment, "=" for identical sequences, or "*"
	Alignment string

	QueryLabel string

	// TargetLabel is the seed's label, or "*" for S and C records
	TargetLabel string
}

// Clustered reports whether the record places its read in a cluster.
func (r *Record) Clustered() bool {
	return r.Type != NoHit && r.ClusterNumber.Valid
}

// ReadID is the query label up to the first whitespace.
func (r *Record) ReadID() string {
	return readID(r.QueryLabel)
}

func readID(label string) string {
	if f := strings.Fields(label); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Reader reads Records from .uc text, skipping "#" comment lines.
type Reader struct {
	sc *tabular.Scanner
}

// NewReader returns a Reader over r. name identifies r in errors.
func NewReader(r io.Reader, name string) *Reader {
	return &Reader{sc: tabular.NewScanner(r, name, "#")}
}

// Read returns the next Record, or io.EOF at the end of the input.
func (r *Reader) Read() (*Record, error) {
	line, err := r.sc.Next()
	if err != nil {
		return nil, err
	}

	row, err := tabular.Split(line, Columns, r.sc.Source(), r.sc.Line())
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Type:          strings.TrimSpace(row.Str(0)),
		ClusterNumber: row.OptInt(1, "cluster_number"),
		SeqLength:     row.Int(2, "seq_length"),
		PctID:         row.OptFloat(3, "pct_id"),
		Strand:        row.Str(4),
		QueryStart:    row.OptInt(5, "query_start"),
		SeedStart:     row.OptInt(6, "seed_start"),
		Alignment:     row.Str(7),
		QueryLabel:    row.Str(8),
		TargetLabel:   row.Str(9),
	}
	if err := row.Err(); err != nil {
		return nil, err
	}

	return rec, nil
}

// ReadAll reads every remaining Record.
func (r *Reader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// ReadFile reads every Record in the .uc file at path.
func ReadFile(path string) ([]*Record, error) {
	f, err := xopen.Ropen(path)
	if err == xopen.ErrNoContent {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open UCLUST file %s: %v", path, err)
	}
	defer f.Close()

	return NewReader(f, path).ReadAll()
}
