package uclust

import (
	"errors"
	"io"
	"path"
	"reflect"
	"strings"
	"testing"

	"github.com/faircloth-lab/meta/internal/seqio"
	"github.com/faircloth-lab/meta/internal/tabular"
)

var (
	testUC1 = path.Join("..", "..", "test", "uc", "plot-1.results.uc")
	testUC2 = path.Join("..", "..", "test", "uc", "plot-2.results.uc")
)

// cluster is a valid cluster number
func cluster(n int) tabular.NullInt {
	return tabular.NullInt{Int: n, Valid: true}
}

func TestReader_Read(t *testing.T) {
	input := strings.Join([]string{
		"# uclust --input x.fasta --uc x.uc",
		"",
		"S\t0\t250\t*\t*\t*\t*\t*\tseed1 extra words\t*",
		"H\t0\t248\t99.2\t+\t3\t0\t2I248M\thit1\tseed1 extra words",
		"N\t*\t80\t*\t*\t*\t*\t*\tlost1\t*",
	}, "\n")

	records, err := NewReader(strings.NewReader(input), "x.uc").ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("ReadAll() read %d records, want 3", len(records))
	}

	seed := records[0]
	if seed.Type != Seed || seed.PctID.Valid || seed.QueryStart.Valid || seed.SeedStart.Valid {
		t.Errorf("Read() seed = %+v", seed)
	}
	if seed.ReadID() != "seed1" {
		t.Errorf("ReadID() = %q, want seed1", seed.ReadID())
	}

	hit := records[1]
	want := &Record{
		Type:          Hit,
		ClusterNumber: tabular.NullInt{Int: 0, Valid: true},
		SeqLength:     248,
		PctID:         tabular.NullFloat{Float: 99.2, Valid: true},
		Strand:        "+",
		QueryStart:    tabular.NullInt{Int: 3, Valid: true},
		SeedStart:     tabular.NullInt{Int: 0, Valid: true},
		Alignment:     "2I248M",
		QueryLabel:    "hit1",
		TargetLabel:   "seed1 extra words",
	}
	if !reflect.DeepEqual(hit, want) {
		t.Errorf("Read() = %+v, want %+v", hit, want)
	}
	if !seed.Clustered() || !hit.Clustered() {
		t.Error("Clustered() = false for a seed or hit")
	}

	lost := records[2]
	if lost.Type != NoHit || lost.ClusterNumber.Valid || lost.SeqLength != 80 || lost.ReadID() != "lost1" {
		t.Errorf("Read() no hit = %+v", lost)
	}
	if lost.Clustered() {
		t.Error("Clustered() = true for a no hit record")
	}
}

func TestReader_malformed(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"9 fields", "H\t0\t248\t99.2\t+\t3\t0\t=\thit1", ""},
		{"bad cluster number", "H\tx\t248\t99.2\t+\t3\t0\t=\thit1\tseed1", "cluster_number"},
		{"bad identity", "H\t0\t248\thigh\t+\t3\t0\t=\thit1\tseed1", "pct_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader("# header\n"+tt.line), "bad.uc")
			rec, err := r.Read()
			if rec != nil {
				t.Errorf("Read() returned a partial record: %+v", rec)
			}

			var mal *tabular.MalformedRecordError
			if !errors.As(err, &mal) {
				t.Fatalf("Read() error = %v, want MalformedRecordError", err)
			}
			if mal.Line != 2 || mal.Field != tt.field {
				t.Errorf("Read() error = %+v", mal)
			}
		})
	}
}

func TestReader_eof(t *testing.T) {
	r := NewReader(strings.NewReader("# only comments\n"), "empty.uc")
	if _, err := r.Read(); err != io.EOF {
		t.Errorf("Read() error = %v, want io.EOF", err)
	}
}

func TestCount(t *testing.T) {
	records := []*Record{
		{Type: Seed, ClusterNumber: cluster(0), QueryLabel: "seed1"},
		{Type: Hit, ClusterNumber: cluster(0), QueryLabel: "hit1", TargetLabel: "seed1"},
		{Type: Hit, ClusterNumber: cluster(0), QueryLabel: "hit1", TargetLabel: "seed1"},
		{Type: Seed, ClusterNumber: cluster(3), QueryLabel: "seed2 desc"},
		{Type: Cluster, ClusterNumber: cluster(3), QueryLabel: "seed2"},
		{Type: NoHit, QueryLabel: "lost1"},
	}

	c := Count("x", records)
	if got := c.Get(0); got != 2 {
		t.Errorf("Get(0) = %d, want 2", got)
	}
	if got := c.Get(3); got != 1 {
		t.Errorf("Get(3) = %d, want 1", got)
	}
	if got := c.Get(1); got != 0 {
		t.Errorf("Get(1) = %d, want 0", got)
	}
	if !reflect.DeepEqual(c.Clusters(), []int{0, 3}) || c.Max() != 3 {
		t.Errorf("Clusters() = %v, Max() = %d", c.Clusters(), c.Max())
	}

	if empty := Count("none", nil); empty.Max() != -1 || len(empty.Clusters()) != 0 {
		t.Errorf("Count(nil) = %+v", empty)
	}
}

func TestTable_Rows(t *testing.T) {
	tbl := &Table{}
	for _, name := range []string{testUC2, testUC1} {
		records, err := ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		tbl.Add(Count(path.Base(name), records))
	}

	if tbl.Width() != 3 {
		t.Errorf("Width() = %d, want 3", tbl.Width())
	}

	tests := []struct {
		name   string
		sorted bool
		want   [][]string
	}{
		{
			"unsorted",
			false,
			[][]string{
				{"plot-1.results.uc", "2", "2", ""},
				{"plot-2.results.uc", "3", "1", "1"},
			},
		},
		{
			"sorted",
			true,
			[][]string{
				{"plot-1.results.uc", "2", "2", ""},
				{"plot-2.results.uc", "3", "1", "1"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tbl.Rows(tt.sorted); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Rows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTable_sortedPadding(t *testing.T) {
	tbl := &Table{}
	tbl.Add(Count("a", []*Record{
		{ClusterNumber: cluster(1), QueryLabel: "r1"},
		{ClusterNumber: cluster(3), QueryLabel: "r2"},
		{ClusterNumber: cluster(3), QueryLabel: "r3"},
	}))

	if got, want := tbl.Rows(false)[0], []string{"a", "", "1", "", "2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Rows(false) = %v, want %v", got, want)
	}
	if got, want := tbl.Rows(true)[0], []string{"a", "2", "1", "", ""}; !reflect.DeepEqual(got, want) {
		t.Errorf("Rows(true) = %v, want %v", got, want)
	}
}

func TestSplit(t *testing.T) {
	records, err := ReadFile(testUC1)
	if err != nil {
		t.Fatal(err)
	}
	reads, err := seqio.ReadFasta(path.Join("..", "..", "test", "reads", "plot-1.fasta"))
	if err != nil {
		t.Fatal(err)
	}

	m, err := Split("plot-1", Assign(records), reads)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(m.Clusters(), []int{0, 1}) {
		t.Errorf("Clusters() = %v, want [0 1]", m.Clusters())
	}
	ids := func(n int) (out []string) {
		for _, r := range m.Reads(n) {
			out = append(out, r.ID)
		}
		return
	}
	if got := ids(0); !reflect.DeepEqual(got, []string{"read1", "read2"}) {
		t.Errorf("Reads(0) = %v", got)
	}
	if got := ids(1); !reflect.DeepEqual(got, []string{"read3", "read4"}) {
		t.Errorf("Reads(1) = %v", got)
	}

	// a second pass over the same inputs gives the same membership
	again, err := Split("plot-1", Assign(records), reads)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m, again) {
		t.Errorf("Split() is not repeatable: %+v, %+v", m, again)
	}
}

func TestSplit_unclustered(t *testing.T) {
	input := "S\t0\t100\t*\t*\t*\t*\t*\tr1\t*\nN\t*\t80\t*\t*\t*\t*\t*\tr2\t*\n"
	records, err := NewReader(strings.NewReader(input), "x.uc").ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	assigned := Assign(records)
	if !reflect.DeepEqual(assigned, map[string]int{"r1": 0, "r2": Unclustered}) {
		t.Errorf("Assign() = %v", assigned)
	}

	m, err := Split("x", assigned, []*seqio.Read{{ID: "r1"}, {ID: "r2"}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m.Clusters(), []int{0}) || len(m.Reads(0)) != 1 {
		t.Errorf("Split() = %+v", m)
	}

	if c := Count("x", records); !reflect.DeepEqual(c.Clusters(), []int{0}) || c.Get(0) != 1 {
		t.Errorf("Count() clusters = %v", c.Clusters())
	}
}

func TestSplit_mismatch(t *testing.T) {
	assigned := map[string]int{"r1": 0, "r2": 1}

	tests := []struct {
		name        string
		reads       []*seqio.Read
		id          string
		missingRead bool
	}{
		{"read without label", []*seqio.Read{{ID: "r1"}, {ID: "r2"}, {ID: "r9"}}, "r9", false},
		{"label without read", []*seqio.Read{{ID: "r2"}}, "r1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Split("s", assigned, tt.reads)
			if m != nil {
				t.Errorf("Split() = %+v, want nil", m)
			}

			var mis *IdentifierMismatchError
			if !errors.As(err, &mis) {
				t.Fatalf("Split() error = %v, want IdentifierMismatchError", err)
			}
			if mis.ID != tt.id || mis.MissingRead != tt.missingRead {
				t.Errorf("Split() error = %+v", mis)
			}
		})
	}
}
