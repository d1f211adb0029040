package cmd

import (
	"github.com/faircloth-lab/meta/internal/meta"
	"github.com/spf13/cobra"
)

// pathoscopeCmd runs the PathoScope batch
var pathoscopeCmd = &cobra.Command{
	Use:                        "pathoscope [reference] [input]",
	Short:                      "Align and reassign the reads of every sample with bowtie2 and PathoScope",
	Run:                        meta.PathoscopeCmd,
	Args:                       cobra.ExactArgs(2),
	SuggestionsMinimumDistance: 2,
	Long: `Run every sample directory of input through PathoScope. input holds one
directory per sample with <sample>.fasta and <sample>.qual. Each sample's reads are:

1. converted to FASTQ
2. trimmed of the [Primers] of --primers with fastq-mcf, if given
3. aligned to the reference FASTA with bowtie2
4. reassigned with pathoscope ID

The bowtie2 index of the reference is built next to it if it's missing.`,
}

// set flags
func init() {
	pathoscopeCmd.Flags().StringP("output", "o", "", "directory for the results of every sample")
	pathoscopeCmd.Flags().StringP("primers", "p", "", "INI file with a [Primers] section to trim")
	pathoscopeCmd.Flags().BoolP("overwrite", "w", false, "replace an existing output directory")
	pathoscopeCmd.Flags().BoolP("keep-going", "k", false, "continue with the next sample when a tool fails")
	pathoscopeCmd.Flags().String("log-path", "", "directory for the log (defaults to --output)")
	pathoscopeCmd.Flags().String("verbosity", "INFO", "lowest level logged: INFO, WARN or CRITICAL")

	pathoscopeCmd.MarkFlagRequired("output")

	RootCmd.AddCommand(pathoscopeCmd)
}
