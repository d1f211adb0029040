package screen

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/faircloth-lab/meta/internal/seqio"
	"github.com/faircloth-lab/meta/internal/tools"
)

// Step is the number of bases trimmed between alignments.
const Step = 10

// Screener aligns shrinking pieces of a sequence until its identification
// changes.
type Screener struct {
	Algo *Algo

	// Bin is the aligner's executable
	Bin string

	// DB is the reference database
	DB string

	// FivePrime trims from the 5' end instead of the 3' end
	FivePrime bool

	// TempDir holds the query and report files of each alignment
	TempDir string

	// Run executes an aligner command, tools.Command.Run if nil
	Run func(c *tools.Command) error
}

// Slices are the cut points tried for a sequence of length n, in order: with
// FivePrime the start of the kept suffix grows from 0, otherwise the end of the
// kept prefix shrinks from n.
func Slices(n int, fivePrime bool) (slices []int) {
	if fivePrime {
		for s := 0; s < n; s += Step {
			slices = append(slices, s)
		}
		return
	}

	slices = append(slices, n)
	last := (n - 1) / Step * Step
	for s := last; s >= Step; s -= Step {
		slices = append(slices, s)
	}
	return
}

// result is what one alignment found.
type result struct {
	slice    int
	max      int
	runnerUp string
	ids      []string
}

// Screen aligns ever shorter pieces of r and returns its report line:
//
//	id, length, bases needed, best score, runner-up score, best ids, final ids
//
// tab separated. It stops at the shortest piece, or once the best species
// differ from those of the whole sequence, or once nothing aligns. If no
// piece before the stop found anything the last four columns are "None".
func (s *Screener) Screen(r *seqio.Read) (string, error) {
	n := len(r.Seq)
	slices := Slices(n, s.FivePrime)

	var (
		first   []string
		species []string
		ids     []string
		prev    *result
	)
	for i, slc := range slices {
		hits, err := s.align(r, slc)
		if err != nil {
			return "", err
		}

		if len(hits) > 0 {
			best := hits.Best()
			species = set(best, Hit.Species)
			ids = set(best, func(h Hit) string { return h.ID })
			if i == 0 {
				first = species
			}
		}

		if i == len(slices)-1 || !reflect.DeepEqual(species, first) || len(hits) == 0 {
			if prev == nil {
				break
			}

			needed := prev.slice
			if s.FivePrime {
				needed = n - prev.slice
			}
			return fmt.Sprintf(
				"%s\t%d\t%d\t%d\t%s\t%s\t%s",
				r.ID,
				n,
				needed,
				prev.max,
				prev.runnerUp,
				strings.Join(prev.ids, ", "),
				strings.Join(ids, ", "),
			), nil
		}

		scores := hits.Scores()
		prev = &result{slice: slc, max: scores[0], runnerUp: "None", ids: ids}
		if len(scores) > 1 {
			prev.runnerUp = strconv.Itoa(scores[1])
		}
	}

	return fmt.Sprintf("%s\t%d\tNone\tNone\tNone", r.ID, n), nil
}

// align writes the piece of r at slc to a temporary FASTA file, aligns it, and
// parses the report. Both temporary files are removed before returning.
func (s *Screener) align(r *seqio.Read, slc int) (Hits, error) {
	piece := &seqio.Read{ID: r.ID, Desc: r.Desc, Seq: r.Seq[:slc]}
	if s.FivePrime {
		piece.Seq = r.Seq[slc:]
	}

	query := tools.TempPath(s.TempDir, ".fasta")
	out := tools.TempPath(s.TempDir, "."+s.Algo.Name)
	defer os.Remove(query)
	defer os.Remove(out)

	if err := seqio.WriteFasta(query, []*seqio.Read{piece}); err != nil {
		return nil, err
	}

	run := s.Run
	if run == nil {
		run = func(c *tools.Command) error {
			_, err := c.Run()
			return err
		}
	}
	if err := run(s.Algo.Command(s.Bin, s.DB, query, out)); err != nil {
		return nil, err
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s report for %s: %v", s.Algo.Name, r.ID, err)
	}
	defer f.Close()

	return s.Algo.Parse(f)
}
