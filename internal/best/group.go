// Package best picks the winning alignments of a query and tallies them by
// target species.
package best

import (
	"sort"

	"github.com/faircloth-lab/meta/internal/psl"
)

// QueryGroup holds one query's alignments keyed by score. Scores are kept in the
// order they were first seen and the records of a score in input order.
type QueryGroup struct {
	// Query is the query name shared by every record in the group
	Query string

	scores  []int
	byScore map[int][]*psl.Record
}

// NewQueryGroup returns an empty group for query.
func NewQueryGroup(query string) *QueryGroup {
	return &QueryGroup{Query: query, byScore: make(map[int][]*psl.Record)}
}

// Add files r under score.
func (g *QueryGroup) Add(score int, r *psl.Record) {
	if _, seen := g.byScore[score]; !seen {
		g.scores = append(g.scores, score)
	}
	g.byScore[score] = append(g.byScore[score], r)
}

// Len is the number of records in the group.
func (g *QueryGroup) Len() (n int) {
	for _, recs := range g.byScore {
		n += len(recs)
	}
	return
}

// Max is the highest score in the group. ok is false if the group is empty.
func (g *QueryGroup) Max() (max int, ok bool) {
	for i, s := range g.scores {
		if i == 0 || s > max {
			max = s
		}
	}
	return max, len(g.scores) > 0
}

// Scores returns the group's distinct scores, highest first.
func (g *QueryGroup) Scores() []int {
	scores := append([]int(nil), g.scores...)
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	return scores
}

// Records returns the records with the given score, in input order.
func (g *QueryGroup) Records(score int) []*psl.Record {
	return g.byScore[score]
}

// AtLeast returns every record scoring at least threshold, highest score first.
func (g *QueryGroup) AtLeast(threshold int) (records []*psl.Record) {
	for _, s := range g.Scores() {
		if s < threshold {
			break
		}
		records = append(records, g.byScore[s]...)
	}
	return
}

// Groups maps query names to their QueryGroup, in first-seen order.
type Groups struct {
	order   []string
	byQuery map[string]*QueryGroup
}

// NewGroups returns an empty Groups.
func NewGroups() *Groups {
	return &Groups{byQuery: make(map[string]*QueryGroup)}
}

// Add files r under its query name and score.
func (gs *Groups) Add(score int, r *psl.Record) {
	g, ok := gs.byQuery[r.QName]
	if !ok {
		g = NewQueryGroup(r.QName)
		gs.byQuery[r.QName] = g
		gs.order = append(gs.order, r.QName)
	}
	g.Add(score, r)
}

// Queries returns the query names in the order they were first seen.
func (gs *Groups) Queries() []string {
	return append([]string(nil), gs.order...)
}

// Get returns the group for query, or nil.
func (gs *Groups) Get(query string) *QueryGroup {
	return gs.byQuery[query]
}

// Len is the number of queries.
func (gs *Groups) Len() int {
	return len(gs.order)
}
