package psl

import (
	"errors"
	"io"
	"path"
	"reflect"
	"strings"
	"testing"

	"github.com/faircloth-lab/meta/internal/tabular"
)

var (
	rowA = "100\t0\t0\t0\t0\t0\t0\t0\t+\tq1\t120\t0\t120\tsppA|acc1\t500\t10\t130\t1\t120,\t0,\t10,"
	rowB = "90\t5\t0\t0\t0\t0\t0\t0\t+\tq1\t120\t0\t95\tsppB|acc2\t500\t10\t105\t1\t95,\t0,\t10,"
)

func TestParse(t *testing.T) {
	got, err := Parse(rowA)
	if err != nil {
		t.Fatal(err)
	}

	want := &Record{
		Match:      100,
		Strand:     "+",
		QName:      "q1",
		QSize:      120,
		QEnd:       120,
		TName:      "sppA|acc1",
		TSize:      500,
		TStart:     10,
		TEnd:       130,
		BlockCount: 1,
		BlockSizes: []int{120},
		QStarts:    []int{0},
		TStarts:    []int{10},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParse_malformed(t *testing.T) {
	cols := strings.Split(rowA, "\t")

	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"20 columns", strings.Join(cols[:20], "\t"), ""},
		{"22 columns", rowA + "\textra", ""},
		{"non-integer match", "x" + rowA[3:], "match"},
		{"bad block list", strings.Join(append(cols[:18:18], "12,a,", "0,", "10,"), "\t"), "block_sizes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse(tt.line)
			if rec != nil {
				t.Errorf("Parse() returned a partial record: %+v", rec)
			}

			var mal *tabular.MalformedRecordError
			if !errors.As(err, &mal) {
				t.Fatalf("Parse() error = %v, want MalformedRecordError", err)
			}
			if mal.Field != tt.field {
				t.Errorf("Parse() error field = %q, want %q", mal.Field, tt.field)
			}
		})
	}
}

func TestRecord_String(t *testing.T) {
	for _, line := range []string{rowA, rowB} {
		r, err := Parse(line)
		if err != nil {
			t.Fatal(err)
		}
		if got := r.String(); got != line {
			t.Errorf("String() = %q, want %q", got, line)
		}
	}
}

func TestRecord_Species(t *testing.T) {
	r := &Record{TName: "Alseis_blackiana|BCI|0042"}

	if got := r.Species("|"); got != "Alseis_blackiana" {
		t.Errorf("Species(|) = %q", got)
	}
	if got := r.Species(""); got != r.TName {
		t.Errorf("Species() = %q", got)
	}
	if got := (&Record{TName: "noDelim"}).Species("|"); got != "noDelim" {
		t.Errorf("Species(|) = %q", got)
	}
}

func TestReader(t *testing.T) {
	header := "psLayout version 3\n\nmatch\tmis-\trep.\n\tmatch\tmatch\n---------------------------------------------------\n"

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"no header", rowA + "\n" + rowB + "\n", []string{"sppA|acc1", "sppB|acc2"}},
		{"psLayout header", header + rowA + "\n\n" + rowB, []string{"sppA|acc1", "sppB|acc2"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.in), tt.name)

			var got []string
			for {
				rec, err := r.Read()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, rec.TName)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Read() targets = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReader_stopsOnMalformed(t *testing.T) {
	bad := strings.Join(strings.Split(rowB, "\t")[:20], "\t")
	r := NewReader(strings.NewReader(rowA+"\n"+bad+"\n"+rowA+"\n"), "sample.psl")

	records, err := r.ReadAll()
	if records != nil {
		t.Errorf("ReadAll() = %v, want no records", records)
	}

	var mal *tabular.MalformedRecordError
	if !errors.As(err, &mal) {
		t.Fatalf("ReadAll() error = %v, want MalformedRecordError", err)
	}
	if mal.Source != "sample.psl" || mal.Line != 2 || mal.Got != 20 {
		t.Errorf("ReadAll() error = %+v", mal)
	}
}

func TestReadFile(t *testing.T) {
	records, err := ReadFile(path.Join("..", "..", "test", "psl", "plot-1.psl"))
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 6 {
		t.Fatalf("ReadFile() read %d records, want 6", len(records))
	}
	if records[0].QName != "read1" {
		t.Errorf("ReadFile() first query = %s", records[0].QName)
	}
}
