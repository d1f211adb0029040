package cmd

import (
	"github.com/faircloth-lab/meta/internal/meta"
	"github.com/spf13/cobra"
)

// fastqCmd converts FASTA and QUAL to FASTQ
var fastqCmd = &cobra.Command{
	Use:                        "fastq [fasta] [qual] [output]",
	Short:                      "Convert a FASTA file and its QUAL file to FASTQ",
	Run:                        meta.FastqCmd,
	Args:                       cobra.ExactArgs(3),
	SuggestionsMinimumDistance: 2,
}

func init() {
	RootCmd.AddCommand(fastqCmd)
}
