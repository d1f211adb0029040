package cmd

import (
	"github.com/faircloth-lab/meta/internal/meta"
	"github.com/spf13/cobra"
)

// screenCmd finds the shortest identifiable length of reference sequences
var screenCmd = &cobra.Command{
	Use:                        "screen [fasta] [db] [algo] [output]",
	Short:                      "Find how much of each reference sequence an aligner needs to identify it",
	Run:                        meta.ScreenCmd,
	Args:                       cobra.ExactArgs(4),
	SuggestionsMinimumDistance: 2,
	Example:                    "  meta screen refs.fasta refs.2bit blat lengths.tsv --cores 4",
	Long: `Trim each sequence of fasta 10 bases at a time and align the slices to db with
algo (blat, blast or swipe), until the best matching taxa change or their score
falls below the runner up's. Writes a tab separated line per sequence:

  id  length  length-needed  best-score  runner-up-score  best-ids  runner-up-ids`,
}

// set flags
func init() {
	screenCmd.Flags().IntP("taxa", "t", 0, "screen only the first n sequences (0 for all)")
	screenCmd.Flags().IntP("cores", "c", 1, "number of sequences screened at once")
	screenCmd.Flags().BoolP("five-prime", "f", false, "trim from the 5' end rather than the 3' end")

	RootCmd.AddCommand(screenCmd)
}
