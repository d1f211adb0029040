package best

import (
	"errors"
	"reflect"
	"testing"

	"github.com/faircloth-lab/meta/internal/psl"
)

// rec makes a record with the fields selection cares about.
func rec(query, target string, match, mismatch, qsize int) *psl.Record {
	return &psl.Record{QName: query, TName: target, Match: match, Mismatch: mismatch, QSize: qsize}
}

func targets(records []*psl.Record) (names []string) {
	for _, r := range records {
		names = append(names, r.TName)
	}
	return
}

func TestSelector_Select(t *testing.T) {
	a := rec("q1", "sppA|acc1", 100, 0, 120)
	b := rec("q1", "sppB|acc2", 90, 5, 120)
	c := rec("q1", "sppC|acc3", 100, 0, 120)
	d := rec("q1", "sppD|acc4", 95, 1, 120)

	tests := []struct {
		name     string
		selector Selector
		records  []*psl.Record
		want     []string
	}{
		{
			"single winner",
			Selector{Scorer: psl.UnweightedScorer},
			[]*psl.Record{a, b},
			[]string{"sppA|acc1"},
		},
		{
			"ties are kept in input order",
			Selector{Scorer: psl.UnweightedScorer},
			[]*psl.Record{a, b, c},
			[]string{"sppA|acc1", "sppC|acc3"},
		},
		{
			"scaled threshold widens winners",
			Selector{Scorer: psl.MatchScorer, Scale: true},
			[]*psl.Record{b, a, d},
			[]string{"sppA|acc1", "sppD|acc4", "sppB|acc2"},
		},
		{
			"weighted scorer punishes mismatches",
			Selector{Scorer: psl.WeightedScorer(psl.DefaultMismatchWeight)},
			[]*psl.Record{rec("q1", "x", 100, 2, 100), rec("q1", "y", 90, 0, 100)},
			[]string{"y"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.selector.Select("sample.fasta", tt.records)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(targets(got), tt.want) {
				t.Errorf("Select() = %v, want %v", targets(got), tt.want)
			}
		})
	}
}

func TestSelector_Select_noMatch(t *testing.T) {
	s := Selector{Scorer: psl.UnweightedScorer}

	got, err := s.Select("empty.fasta", nil)
	if got != nil {
		t.Errorf("Select() = %v, want nil", got)
	}

	var noMatch *NoMatchError
	if !errors.As(err, &noMatch) || noMatch.Query != "empty.fasta" {
		t.Errorf("Select() error = %v, want NoMatchError for empty.fasta", err)
	}
}

func TestSelector_SelectEach(t *testing.T) {
	records := []*psl.Record{
		rec("r2", "sppB|1", 80, 0, 100),
		rec("r1", "sppA|1", 50, 0, 100),
		rec("r2", "sppA|2", 80, 0, 100),
		rec("r1", "sppC|1", 60, 0, 100),
		rec("r2", "sppC|2", 10, 0, 100),
	}
	s := Selector{Scorer: psl.MatchScorer}

	got, err := s.SelectEach("plot.fasta", records)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"sppB|1", "sppA|2", "sppC|1"}; !reflect.DeepEqual(targets(got), want) {
		t.Errorf("SelectEach() = %v, want %v", targets(got), want)
	}

	if _, err := s.SelectEach("plot.fasta", nil); err == nil {
		t.Error("SelectEach(nil) returned no error")
	}
}

// every winner scores the group max, or at least the scaled threshold
func TestSelector_winnersReachThreshold(t *testing.T) {
	records := []*psl.Record{
		rec("q", "a", 10, 0, 1), rec("q", "b", 200, 3, 1), rec("q", "c", 185, 0, 1),
		rec("q", "d", 179, 0, 1), rec("q", "e", 200, 3, 1), rec("q", "f", -4, 0, 1),
	}

	for _, scale := range []bool{false, true} {
		s := Selector{Scorer: psl.UnweightedScorer, Scale: scale}
		g := s.Group("q", records)
		max, _ := g.Max()

		got, err := s.Best(g)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) == 0 {
			t.Fatalf("Best(scale=%v) returned no winners", scale)
		}
		for _, r := range got {
			if sc := psl.Score(r); sc < s.Threshold(max) || (!scale && sc != max) {
				t.Errorf("Best(scale=%v) returned %s with score %d, max %d", scale, r.TName, sc, max)
			}
		}
	}
}

func TestSelector_Threshold(t *testing.T) {
	tests := []struct {
		name     string
		selector Selector
		max      int
		want     int
	}{
		{"unscaled", Selector{}, 197, 197},
		{"scaled", Selector{Scale: true}, 197, 178},
		{"scaled small", Selector{Scale: true}, 9, 9},
		{"custom factor", Selector{Scale: true, ScaleFactor: 0.5}, 100, 50},
		{"negative max is not raised", Selector{Scale: true}, -5, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.selector.Threshold(tt.max); got != tt.want {
				t.Errorf("Threshold(%d) = %d, want %d", tt.max, got, tt.want)
			}
		})
	}
}

func TestTop(t *testing.T) {
	s := Selector{Scorer: psl.MatchScorer}
	var records []*psl.Record
	for _, m := range []int{5, 9, 7, 9, 1, 3, 8, 2} {
		records = append(records, rec("q", "t", m, 0, 1))
	}

	ranks := Top(s.Group("q", records), 5)

	var scores, sizes []int
	for _, r := range ranks {
		scores = append(scores, r.Score)
		sizes = append(sizes, len(r.Records))
	}
	if want := []int{9, 8, 7, 5, 3}; !reflect.DeepEqual(scores, want) {
		t.Errorf("Top() scores = %v, want %v", scores, want)
	}
	if want := []int{2, 1, 1, 1, 1}; !reflect.DeepEqual(sizes, want) {
		t.Errorf("Top() sizes = %v, want %v", sizes, want)
	}
}

func TestFilterQuerySize(t *testing.T) {
	records := []*psl.Record{rec("a", "x", 1, 0, 49), rec("b", "y", 1, 0, 50), rec("c", "z", 1, 0, 300)}

	if got := targets(FilterQuerySize(records, 50)); !reflect.DeepEqual(got, []string{"y", "z"}) {
		t.Errorf("FilterQuerySize() = %v", got)
	}
}
