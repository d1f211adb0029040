package cmd

import (
	"github.com/faircloth-lab/meta/internal/meta"
	"github.com/spf13/cobra"
)

var scorerHelp = `how alignments are scored: "match" uses the match column,
"unweighted" uses BLAT's score and "weighted" also punishes each mismatch
by the settings' mismatch-weight`

// blatCmd groups the commands that pick species from blat alignments
var blatCmd = &cobra.Command{
	Use:                        "blat",
	Short:                      "Find the species of reads by aligning them with blat",
	SuggestionsMinimumDistance: 2,
	Long: `Align FASTA files of reads to a database of reference sequences with blat and
pick the best targets. Target names are "<species>|<accession>".`,
}

// blatBestCmd reports the best target of each file of reads
var blatBestCmd = &cobra.Command{
	Use:                        "best [db] [query]",
	Short:                      "Report the best alignment of each query file",
	Run:                        meta.BlatBestCmd,
	Args:                       cobra.RangeArgs(1, 2),
	SuggestionsMinimumDistance: 2,
	Example:                    "  meta blat best refs.2bit contigs/\n  meta blat best --from-psl alignments/",
	Long: `Align each query file (or every .fasta file of a query directory) to db and
report the best scoring target of each file. Tied targets are each written on
an indented line.

With --top-five, the five best scores of each file are written along with
their match, mismatch and gap counts. --raw writes the PSL rows instead.`,
}

// blatTallyCmd counts the species of the reads of each file
var blatTallyCmd = &cobra.Command{
	Use:                        "tally [db] [query]",
	Short:                      "Count the species the reads of each query file align to",
	Run:                        meta.BlatTallyCmd,
	Args:                       cobra.RangeArgs(1, 2),
	SuggestionsMinimumDistance: 2,
	Example:                    "  meta blat tally refs.2bit plots/ --conf species.conf --section Species",
	Long: `Align each query file (or every .fasta file of a query directory) to db, pick
the best target of every read and write a CSV row of species counts per file.

With --scale, every target within the settings' scale-factor of a read's best
score is counted. With --conf and --section, the species of that INI section
set the columns of the table.`,
	Aliases: []string{"count"},
}

// set flags
func init() {
	blatBestCmd.Flags().BoolP("top-five", "t", false, "write the five best scores of each file")
	blatBestCmd.Flags().BoolP("raw", "r", false, "write the PSL rows of the five best scores (with --top-five)")
	blatBestCmd.Flags().String("scorer", "weighted", scorerHelp)
	blatBestCmd.Flags().BoolP("from-psl", "p", false, "read existing PSL files rather than running blat")

	blatTallyCmd.Flags().Bool("scale", false, "count every target near the best score of a read")
	blatTallyCmd.Flags().IntP("filter-length", "l", 50, "skip reads shorter than this")
	blatTallyCmd.Flags().StringP("conf", "c", "", "INI file listing the expected species")
	blatTallyCmd.Flags().String("section", "", "section of --conf with the expected species")
	blatTallyCmd.Flags().String("scorer", "match", scorerHelp)
	blatTallyCmd.Flags().BoolP("from-psl", "p", false, "read existing PSL files rather than running blat")

	blatCmd.AddCommand(blatBestCmd)
	blatCmd.AddCommand(blatTallyCmd)

	RootCmd.AddCommand(blatCmd)
}
