// Package screen finds how much of each reference sequence an aligner needs to
// still identify it: progressively shorter pieces of the sequence are aligned
// back against the database until the best hits change or disappear.
package screen

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/faircloth-lab/meta/internal/tools"
)

// Algo is an aligner and the pattern of its report's summary lines.
type Algo struct {
	Name string

	// summary captures the target name and its score from one report line
	summary *regexp.Regexp

	command func(bin, db, query, out string) *tools.Command
}

var algos = map[string]*Algo{
	"swipe": {
		Name:    "swipe",
		summary: regexp.MustCompile(`^gnl\|(?:.*)\|[0-9]+\s([A-Za-z0-9_]+)\s+(?:.*)\s+([0-9]+)\s+(.*)$`),
		command: tools.Swipe,
	},
	"blast": {
		Name:    "blast",
		summary: regexp.MustCompile(`^\s+([A-Za-z0-9_]+)\s+([0-9]+)\s+(.*)$`),
		command: tools.Blastn,
	},
	"blat": {
		Name:    "blat",
		summary: regexp.MustCompile(`^([A-Za-z0-9_]+)\s+([0-9]+)\s+(.*)$`),
		command: tools.BlatBlastReport,
	},
}

// NewAlgo returns the aligner called name: swipe, blast or blat.
func NewAlgo(name string) (*Algo, error) {
	a, ok := algos[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("failed to find aligner %q, expected one of: blast, blat, swipe", name)
	}
	return a, nil
}

// Command aligns query against db with the binary bin, writing the report to out.
func (a *Algo) Command(bin, db, query, out string) *tools.Command {
	return a.command(bin, db, query, out)
}

// Hit is a target named in a report's summary.
type Hit struct {
	ID    string
	Score int
}

// Species is the genus_species prefix of the hit's target name.
func (h Hit) Species() string {
	parts := strings.Split(h.ID, "_")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "_")
}

// Hits are the report's targets grouped by score.
type Hits map[int][]Hit

// Parse reads the summary section of a report, which ends at the first
// alignment (a line starting with ">").
func (a *Algo) Parse(r io.Reader) (Hits, error) {
	hits := Hits{}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		if strings.HasPrefix(line, ">") {
			break
		}

		m := a.summary.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		score, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s score %q: %v", a.Name, m[2], err)
		}
		hits[score] = append(hits[score], Hit{ID: m[1], Score: score})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s report: %v", a.Name, err)
	}

	return hits, nil
}

// Scores are the distinct scores, best first.
func (h Hits) Scores() []int {
	scores := make([]int, 0, len(h))
	for s := range h {
		scores = append(scores, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	return scores
}

// Best are the hits with the top score.
func (h Hits) Best() []Hit {
	scores := h.Scores()
	if len(scores) == 0 {
		return nil
	}
	return h[scores[0]]
}

// set returns the sorted, distinct values of key over hits.
func set(hits []Hit, key func(Hit) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range hits {
		k := key(h)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
