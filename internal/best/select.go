package best

import (
	"fmt"
	"math"

	"github.com/faircloth-lab/meta/internal/psl"
)

// DefaultScaleFactor is the share of the best score that --scale gives up.
const DefaultScaleFactor = 0.1

// NoMatchError is returned when no alignment survives selection for a query.
type NoMatchError struct {
	Query string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no alignments for %s", e.Query)
}

// Selector picks the winning records of a query.
type Selector struct {
	// Scorer ranks the records
	Scorer psl.Scorer

	// Scale widens the winners to every record within ScaleFactor of the best score
	Scale bool

	// ScaleFactor is used when Scale is set; DefaultScaleFactor if zero
	ScaleFactor float64
}

// Group files all records under a single group named id, regardless of their
// query names.
func (s Selector) Group(id string, records []*psl.Record) *QueryGroup {
	g := NewQueryGroup(id)
	for _, r := range records {
		g.Add(s.Scorer(r), r)
	}
	return g
}

// GroupEach files records by query name.
func (s Selector) GroupEach(records []*psl.Record) *Groups {
	gs := NewGroups()
	for _, r := range records {
		gs.Add(s.Scorer(r), r)
	}
	return gs
}

// Threshold is the lowest score that wins given the best score max.
func (s Selector) Threshold(max int) int {
	if !s.Scale {
		return max
	}

	factor := s.ScaleFactor
	if factor == 0 {
		factor = DefaultScaleFactor
	}
	threshold := max - int(math.Floor(factor*float64(max)))
	if threshold > max {
		// a negative best score would otherwise push the threshold above it
		threshold = max
	}
	return threshold
}

// Best returns every record in g that scores at or above the threshold. Ties
// are all kept.
func (s Selector) Best(g *QueryGroup) ([]*psl.Record, error) {
	max, ok := g.Max()
	if !ok {
		return nil, &NoMatchError{Query: g.Query}
	}
	return g.AtLeast(s.Threshold(max)), nil
}

// Select treats records as the alignments of one logical query, id, and
// returns its winners.
func (s Selector) Select(id string, records []*psl.Record) ([]*psl.Record, error) {
	return s.Best(s.Group(id, records))
}

// SelectEach picks the winners of each query in records and returns them
// together, queries in first-seen order. id names the input in a NoMatchError.
func (s Selector) SelectEach(id string, records []*psl.Record) (winners []*psl.Record, err error) {
	gs := s.GroupEach(records)
	if gs.Len() == 0 {
		return nil, &NoMatchError{Query: id}
	}

	for _, q := range gs.Queries() {
		w, err := s.Best(gs.Get(q))
		if err != nil {
			return nil, err
		}
		winners = append(winners, w...)
	}
	return winners, nil
}

// Rank is one score and the records that reached it.
type Rank struct {
	Score   int
	Records []*psl.Record
}

// Top returns up to n of the group's best scores with their records.
func Top(g *QueryGroup, n int) (ranks []Rank) {
	for i, score := range g.Scores() {
		if i == n {
			break
		}
		ranks = append(ranks, Rank{Score: score, Records: g.Records(score)})
	}
	return
}

// FilterQuerySize drops records whose query is shorter than min.
func FilterQuerySize(records []*psl.Record, min int) (kept []*psl.Record) {
	for _, r := range records {
		if r.QSize >= min {
			kept = append(kept, r)
		}
	}
	return
}
