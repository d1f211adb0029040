package psl

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultMismatchWeight is the extra penalty per mismatch of the weighted scorer.
const DefaultMismatchWeight = 15

// Score is BLAT's alignment score: matches (half credit for repeat matches)
// less mismatches and the number of gaps in the query and target.
func Score(r *Record) int {
	return r.Match + r.RepMatch/2 - r.Mismatch - r.QGapCount - r.TGapCount
}

// PercentID is 100 * match / (match + mismatch + gaps), or 0 for an empty alignment.
func PercentID(r *Record) float64 {
	total := r.Match + r.Mismatch + r.QGapCount + r.TGapCount
	if total <= 0 {
		return 0
	}
	return 100 * float64(r.Match) / float64(total)
}

// Scorer ranks a Record. Higher is better.
type Scorer func(r *Record) int

// MatchScorer uses the raw match column.
func MatchScorer(r *Record) int {
	return r.Match
}

// UnweightedScorer uses Score.
func UnweightedScorer(r *Record) int {
	return Score(r)
}

// WeightedScorer returns a Scorer that punishes each mismatch weight more times
// than Score does.
func WeightedScorer(weight int) Scorer {
	return func(r *Record) int {
		return Score(r) - weight*r.Mismatch
	}
}

// scorers are the named scoring strategies.
var scorers = map[string]func(weight int) Scorer{
	"match":      func(int) Scorer { return MatchScorer },
	"unweighted": func(int) Scorer { return UnweightedScorer },
	"weighted":   WeightedScorer,
}

// NewScorer returns the scoring strategy with the given name. weight is only
// used by the "weighted" strategy.
func NewScorer(name string, weight int) (Scorer, error) {
	s, ok := scorers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("failed to find scorer %q, expected one of: %s", name, strings.Join(ScorerNames(), ", "))
	}
	return s(weight), nil
}

// ScorerNames lists the scoring strategies by name.
func ScorerNames() (names []string) {
	for name := range scorers {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
