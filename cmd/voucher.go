package cmd

import (
	"github.com/faircloth-lab/meta/internal/meta"
	"github.com/spf13/cobra"
)

// voucherCmd splits voucher sequences by species group
var voucherCmd = &cobra.Command{
	Use:                        "voucher [fasta] [conf] [output]",
	Short:                      "Split voucher sequences into a FASTA file per group of species",
	Run:                        meta.VoucherCmd,
	Args:                       cobra.ExactArgs(3),
	SuggestionsMinimumDistance: 2,
	Long: `Write every record of fasta whose header names a species of a section of the INI
file conf to output/<section>.fasta. Species match regardless of case, and the
spaces of a name also match punctuation and dashes.`,
}

func init() {
	RootCmd.AddCommand(voucherCmd)
}
