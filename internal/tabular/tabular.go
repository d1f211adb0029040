// Package tabular tokenizes the fixed-column, TAB separated text that external
// aligners and clustering tools write, and coerces the columns to typed values.
package tabular

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Absent is the placeholder tools write in place of a value that does not apply.
const Absent = "*"

// MalformedRecordError is returned when a line does not match its fixed schema:
// either the column count is wrong or a column fails numeric coercion.
type MalformedRecordError struct {
	// Source is the name of the file (or stream) being read
	Source string

	// Line is the 1-based line number in Source
	Line int

	// Want and Got are the expected and actual column counts (zero when the
	// count was correct and a single column was rejected)
	Want, Got int

	// Field is the name of the rejected column
	Field string

	// Value is the rejected column's text
	Value string
}

func (e *MalformedRecordError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	if e.Field != "" {
		return fmt.Sprintf("malformed record at %s:%d: field %s has bad value %q", src, e.Line, e.Field, e.Value)
	}
	return fmt.Sprintf("malformed record at %s:%d: expected %d fields, found %d", src, e.Line, e.Want, e.Got)
}

// Scanner reads non-empty lines, skipping those beginning with Comment.
type Scanner struct {
	s       *bufio.Scanner
	source  string
	comment string
	line    int
}

// NewScanner returns a Scanner over r. source names r in errors and comment,
// if not empty, is the prefix of lines to skip.
func NewScanner(r io.Reader, source, comment string) *Scanner {
	s := bufio.NewScanner(r)
	// block lists in PSL rows grow with the number of alignment blocks
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return &Scanner{s: s, source: source, comment: comment}
}

// Next returns the next data line with its line terminator removed, or io.EOF.
func (sc *Scanner) Next() (string, error) {
	for sc.s.Scan() {
		sc.line++
		line := strings.TrimRight(sc.s.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if sc.comment != "" && strings.HasPrefix(line, sc.comment) {
			continue
		}
		return line, nil
	}

	if err := sc.s.Err(); err != nil {
		return "", fmt.Errorf("failed to read %s: %v", sc.source, err)
	}
	return "", io.EOF
}

// Line is the line number of the last line returned by Next.
func (sc *Scanner) Line() int {
	return sc.line
}

// Source is the name given to the Scanner.
func (sc *Scanner) Source() string {
	return sc.source
}

// Row is a validated, fixed-length tokenization of one line. Its coercion methods
// record the first failure, which is then reported by Err.
type Row struct {
	fields []string
	source string
	line   int
	err    error
}

// Split tokenizes line on TAB and rejects it unless it has exactly want columns.
func Split(line string, want int, source string, lineNo int) (*Row, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != want {
		return nil, &MalformedRecordError{
			Source: source,
			Line:   lineNo,
			Want:   want,
			Got:    len(fields),
		}
	}

	return &Row{fields: fields, source: source, line: lineNo}, nil
}

// Str returns column i untouched.
func (r *Row) Str(i int) string {
	return r.fields[i]
}

// Int coerces column i to an int.
func (r *Row) Int(i int, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.fields[i]))
	if err != nil {
		r.fail(i, name)
		return 0
	}
	return v
}

// Ints coerces a comma separated list column to ints. The empty element left
// by a trailing comma is dropped.
func (r *Row) Ints(i int, name string) []int {
	raw := strings.TrimSpace(r.fields[i])
	raw = strings.TrimSuffix(raw, ",")
	if raw == "" {
		return []int{}
	}

	parts := strings.Split(raw, ",")
	vals := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			r.fail(i, name)
			return nil
		}
		vals = append(vals, v)
	}
	return vals
}

// NullInt is an int column that may hold the Absent placeholder.
type NullInt struct {
	Int   int
	Valid bool
}

// NullFloat is a float column that may hold the Absent placeholder.
type NullFloat struct {
	Float float64
	Valid bool
}

// OptInt coerces column i to an int, leaving Absent as an invalid NullInt.
func (r *Row) OptInt(i int, name string) NullInt {
	if strings.TrimSpace(r.fields[i]) == Absent {
		return NullInt{}
	}
	return NullInt{Int: r.Int(i, name), Valid: true}
}

// OptFloat coerces column i to a float (integers included), leaving Absent as
// an invalid NullFloat.
func (r *Row) OptFloat(i int, name string) NullFloat {
	raw := strings.TrimSpace(r.fields[i])
	if raw == Absent {
		return NullFloat{}
	}

	if v, err := strconv.Atoi(raw); err == nil {
		return NullFloat{Float: float64(v), Valid: true}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(i, name)
		return NullFloat{}
	}
	return NullFloat{Float: v, Valid: true}
}

// Err is the first coercion failure, if any.
func (r *Row) Err() error {
	return r.err
}

func (r *Row) fail(i int, name string) {
	if r.err != nil {
		return
	}
	r.err = &MalformedRecordError{
		Source: r.source,
		Line:   r.line,
		Field:  name,
		Value:  r.fields[i],
	}
}
