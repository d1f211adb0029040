// Package psl reads the PSL tabular alignment summaries written by BLAT (and BLAST
// in PSL mode) and scores them.
package psl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/faircloth-lab/meta/internal/tabular"
	"github.com/shenwei356/xopen"
)

// Columns is the fixed number of columns in a PSL row.
const Columns = 21

// Fields are the PSL column names, in order.
var Fields = []string{
	"match",
	"mismatch",
	"rep_match",
	"n_count",
	"q_gap_count",
	"q_gap_bases",
	"t_gap_count",
	"t_gap_bases",
	"strand",
	"q_name",
	"q_size",
	"q_start",
	"q_end",
	"t_name",
	"t_size",
	"t_start",
	"t_end",
	"block_count",
	"block_sizes",
	"q_starts",
	"t_starts",
}

// Record is a single row of PSL output. Records are not mutated after Parse.
type Record struct {
	// Match is the number of matching bases that aren't repeats
	Match int

	// Mismatch is the number of bases that don't match
	Mismatch int

	// RepMatch is the number of matching bases that are part of repeats
	RepMatch int

	// NCount is the number of N bases
	NCount int

	QGapCount int
	QGapBases int
	TGapCount int
	TGapBases int

	// Strand is "+" or "-" (two characters for translated searches)
	Strand string

	QName  string
	QSize  int
	QStart int
	QEnd   int

	// TName is the target name. In reference databases it is often composite,
	// like "species|accession"
	TName  string
	TSize  int
	TStart int
	TEnd   int

	BlockCount int
	BlockSizes []int
	QStarts    []int
	TStarts    []int
}

// Parse turns one PSL line into a Record. The line must have exactly Columns
// TAB separated columns and every numeric column must be an integer.
func Parse(line string) (*Record, error) {
	return parse(line, "", 0)
}

func parse(line, source string, lineNo int) (*Record, error) {
	row, err := tabular.Split(line, Columns, source, lineNo)
	if err != nil {
		return nil, err
	}

	r := &Record{
		Match:      row.Int(0, Fields[0]),
		Mismatch:   row.Int(1, Fields[1]),
		RepMatch:   row.Int(2, Fields[2]),
		NCount:     row.Int(3, Fields[3]),
		QGapCount:  row.Int(4, Fields[4]),
		QGapBases:  row.Int(5, Fields[5]),
		TGapCount:  row.Int(6, Fields[6]),
		TGapBases:  row.Int(7, Fields[7]),
		Strand:     row.Str(8),
		QName:      row.Str(9),
		QSize:      row.Int(10, Fields[10]),
		QStart:     row.Int(11, Fields[11]),
		QEnd:       row.Int(12, Fields[12]),
		TName:      row.Str(13),
		TSize:      row.Int(14, Fields[14]),
		TStart:     row.Int(15, Fields[15]),
		TEnd:       row.Int(16, Fields[16]),
		BlockCount: row.Int(17, Fields[17]),
		BlockSizes: row.Ints(18, Fields[18]),
		QStarts:    row.Ints(19, Fields[19]),
		TStarts:    row.Ints(20, Fields[20]),
	}
	if err := row.Err(); err != nil {
		return nil, err
	}

	return r, nil
}

// Species is the first component of the composite target name.
func (r *Record) Species(delim string) string {
	if delim == "" {
		return r.TName
	}
	return strings.SplitN(r.TName, delim, 2)[0]
}

// Columns returns the record's values in PSL column order. Block lists are
// written the way BLAT writes them, with a trailing comma.
func (r *Record) Columns() []string {
	list := func(vals []int) string {
		var b strings.Builder
		for _, v := range vals {
			b.WriteString(strconv.Itoa(v))
			b.WriteByte(',')
		}
		return b.String()
	}

	return []string{
		strconv.Itoa(r.Match),
		strconv.Itoa(r.Mismatch),
		strconv.Itoa(r.RepMatch),
		strconv.Itoa(r.NCount),
		strconv.Itoa(r.QGapCount),
		strconv.Itoa(r.QGapBases),
		strconv.Itoa(r.TGapCount),
		strconv.Itoa(r.TGapBases),
		r.Strand,
		r.QName,
		strconv.Itoa(r.QSize),
		strconv.Itoa(r.QStart),
		strconv.Itoa(r.QEnd),
		r.TName,
		strconv.Itoa(r.TSize),
		strconv.Itoa(r.TStart),
		strconv.Itoa(r.TEnd),
		strconv.Itoa(r.BlockCount),
		list(r.BlockSizes),
		list(r.QStarts),
		list(r.TStarts),
	}
}

// String is the record as a PSL line (without a newline).
func (r *Record) String() string {
	return strings.Join(r.Columns(), "\t")
}

// Reader reads Records from PSL text, one line at a time.
type Reader struct {
	sc       *tabular.Scanner
	inHeader bool
}

// NewReader returns a Reader over r. name identifies r in errors.
func NewReader(r io.Reader, name string) *Reader {
	return &Reader{sc: tabular.NewScanner(r, name, "")}
}

// Read returns the next Record. At the end of the input it returns io.EOF.
// A malformed line stops the read with a *tabular.MalformedRecordError.
func (r *Reader) Read() (*Record, error) {
	for {
		line, err := r.sc.Next()
		if err != nil {
			return nil, err
		}

		// the psLayout header ends with a row of dashes
		if r.sc.Line() == 1 && strings.HasPrefix(line, "psLayout") {
			r.inHeader = true
			continue
		}
		if r.inHeader {
			if strings.HasPrefix(line, "---") {
				r.inHeader = false
			}
			continue
		}

		return parse(line, r.sc.Source(), r.sc.Line())
	}
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

// ReadFile reads every Record in the PSL file at path.
func ReadFile(path string) ([]*Record, error) {
	f, err := xopen.Ropen(path)
	if err == xopen.ErrNoContent {
		return nil, nil // blat -noHead writes nothing when there are no hits
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open PSL file %s: %v", path, err)
	}
	defer f.Close()

	return NewReader(f, path).ReadAll()
}
