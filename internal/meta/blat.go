package meta

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/faircloth-lab/meta/config"
	"github.com/faircloth-lab/meta/internal/best"
	"github.com/faircloth-lab/meta/internal/psl"
	"github.com/faircloth-lab/meta/internal/tools"
	"github.com/spf13/cobra"
)

// topRanks is the number of scores shown with --top-five
const topRanks = 5

// blatFlags are the parsed arguments and flags of the blat commands
type blatFlags struct {
	// the database the queries are aligned to, empty with --from-psl
	db string

	// the query FASTA (or PSL) files
	queries []string

	// whether the queries are already PSL files
	fromPSL bool

	scorer psl.Scorer

	// blat best output options
	topFive bool
	raw     bool

	// blat tally options
	scale        bool
	minQuerySize int
	expected     []string
}

// BlatBestCmd aligns each query file to a database and reports the
// best target (or targets, when tied) of each file.
func BlatBestCmd(cmd *cobra.Command, args []string) {
	conf := config.New()

	flags, err := parseBlatFlags(cmd, args, conf, "weighted")
	if err != nil {
		stderr.Fatal(err)
	}

	if err := BlatBest(flags, conf, os.Stdout); err != nil {
		stderr.Fatal(err)
	}
}

// BlatTallyCmd aligns each query file to a database, picks the best targets
// of every read, and writes a row of species counts per file.
func BlatTallyCmd(cmd *cobra.Command, args []string) {
	conf := config.New()

	flags, err := parseBlatFlags(cmd, args, conf, "match")
	if err != nil {
		stderr.Fatal(err)
	}

	if err := BlatTally(flags, conf, os.Stdout); err != nil {
		stderr.Fatal(err)
	}
}

// parseBlatFlags gathers the database, queries and selection settings. The
// database argument is dropped with --from-psl.
func parseBlatFlags(cmd *cobra.Command, args []string, conf *config.Config, defaultScorer string) (*blatFlags, error) {
	f := &blatFlags{fromPSL: mustBool(cmd, "from-psl")}

	var query string
	switch {
	case f.fromPSL && len(args) == 1:
		query = args[0]
	case len(args) == 2:
		f.db, query = args[0], args[1]
	default:
		return nil, fmt.Errorf("expected a database and a query, or only a query with --from-psl, got %d arguments", len(args))
	}

	ext := ".fasta"
	if f.fromPSL {
		ext = ".psl"
	}
	queries, err := inputFiles(query, ext)
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("failed to find any %s files in %s", ext, query)
	}
	f.queries = queries

	name := defaultScorer
	if conf.Select.Scorer != "" {
		name = conf.Select.Scorer
	}
	if cmd.Flags().Changed("scorer") {
		name = mustString(cmd, "scorer")
	}
	if f.scorer, err = psl.NewScorer(name, conf.Select.MismatchWeight); err != nil {
		return nil, err
	}

	if cmd.Flags().Lookup("top-five") != nil {
		f.topFive = mustBool(cmd, "top-five")
		f.raw = mustBool(cmd, "raw")
		if f.raw && !f.topFive {
			return nil, fmt.Errorf("--raw is only used with --top-five")
		}
	}

	if cmd.Flags().Lookup("scale") != nil {
		f.scale = mustBool(cmd, "scale")

		f.minQuerySize = conf.Select.MinQuerySize
		if cmd.Flags().Changed("filter-length") {
			f.minQuerySize = mustInt(cmd, "filter-length")
		}

		if template := mustString(cmd, "conf"); template != "" {
			section := mustString(cmd, "section")
			if section == "" {
				return nil, fmt.Errorf("--section is needed to read the species order from %s", template)
			}
			if f.expected, err = best.ReadTemplate(template, section); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// alignments returns the alignments of one query file, either by running
// blat into a temporary PSL file or, with --from-psl, by reading the query.
func alignments(f *blatFlags, conf *config.Config, query string) ([]*psl.Record, error) {
	if f.fromPSL {
		return psl.ReadFile(query)
	}

	out := tools.TempPath(conf.TempDir, ".psl")
	defer os.Remove(out)

	if _, err := tools.Blat(conf.Vendors.Blat, f.db, query, out, conf.Blat).Run(); err != nil {
		return nil, err
	}
	return psl.ReadFile(out)
}

// BlatBest writes the best alignments of each query file to w.
func BlatBest(f *blatFlags, conf *config.Config, w io.Writer) error {
	selector := best.Selector{Scorer: f.scorer}

	for _, query := range f.queries {
		records, err := alignments(f, conf, query)
		if err != nil {
			return fmt.Errorf("failed to align %s: %v", query, err)
		}
		if conf.Verbose {
			log.Printf("%s: %d alignments\n", query, len(records))
		}

		name := filepath.Base(query)
		g := selector.Group(name, records)

		switch {
		case f.raw:
			writeRaw(w, name, best.Top(g, topRanks))
		case f.topFive:
			writeTopFive(w, name, best.Top(g, topRanks), conf.Select.Delimiter)
		default:
			winners, err := selector.Best(g)
			var noMatch *best.NoMatchError
			if errors.As(err, &noMatch) {
				fmt.Fprintf(w, "%s No contig\n", name)
				continue
			}
			if err != nil {
				return err
			}
			writeWinners(w, name, winners, selector.Scorer, conf.Select.Delimiter)
		}
	}

	return nil
}

// writeWinners writes the winner of a query on one line, or each tied winner
// on its own indented line.
func writeWinners(w io.Writer, name string, winners []*psl.Record, scorer psl.Scorer, delim string) {
	indent := ""
	if len(winners) > 1 {
		indent = "\t"
	}

	for _, r := range winners {
		fmt.Fprintf(w, "%s%s %s %d %.2f\n", indent, name, r.Species(delim), scorer(r), psl.PercentID(r))
	}
}

// writeTopFive writes the first record of each of the best scores.
func writeTopFive(w io.Writer, name string, ranks []best.Rank, delim string) {
	if len(ranks) == 0 {
		fmt.Fprintf(w, "%s No contig\n", name)
		return
	}

	for _, rank := range ranks {
		r := rank.Records[0]
		fmt.Fprintf(
			w,
			"%s %s %d %.2f\t matches = %d\t mismatches = %d gaps = %d\n",
			name,
			r.Species(delim),
			rank.Score,
			psl.PercentID(r),
			r.Match,
			r.Mismatch,
			r.TGapCount,
		)
	}
}

// rawColumns are the PSL columns written by --raw: every column but the block lists
const rawColumns = psl.Columns - 3

// writeRaw writes a header and then every record of the best scores.
func writeRaw(w io.Writer, name string, ranks []best.Rank) {
	fmt.Fprintln(w, strings.Join(psl.Fields[:rawColumns], "\t"))
	if len(ranks) == 0 {
		fmt.Fprintf(w, "%s No contig\n", name)
		return
	}
	for _, rank := range ranks {
		for _, r := range rank.Records {
			fmt.Fprintln(w, strings.Join(r.Columns()[:rawColumns], "\t"))
		}
	}
}

// BlatTally writes one CSV row of species counts per query file to w. With an
// expected species order, a header row comes first and every row has one
// column per expected species.
func BlatTally(f *blatFlags, conf *config.Config, w io.Writer) error {
	selector := best.Selector{
		Scorer:      f.scorer,
		Scale:       f.scale,
		ScaleFactor: conf.Select.ScaleFactor,
	}

	out := csv.NewWriter(w)
	if f.expected != nil {
		if err := out.Write(append([]string{""}, f.expected...)); err != nil {
			return err
		}
	}

	for _, query := range f.queries {
		records, err := alignments(f, conf, query)
		if err != nil {
			return fmt.Errorf("failed to align %s: %v", query, err)
		}
		if conf.Verbose {
			log.Printf("%s: %d alignments\n", query, len(records))
		}

		name := filepath.Base(query)
		winners, err := selector.SelectEach(name, records)
		var noMatch *best.NoMatchError
		if err != nil && !errors.As(err, &noMatch) {
			return err
		}

		tally := best.Count(best.FilterQuerySize(winners, f.minQuerySize), conf.Select.Delimiter)
		if err := out.Write(append([]string{name}, tally.Row(f.expected)...)); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}
