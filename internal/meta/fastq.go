package meta

import (
	"fmt"
	"io"
	"os"

	"github.com/faircloth-lab/meta/internal/seqio"
	"github.com/spf13/cobra"
)

// FastqCmd converts a FASTA file and its QUAL file to FASTQ.
func FastqCmd(cmd *cobra.Command, args []string) {
	if err := Fastq(args[0], args[1], args[2], os.Stdout); err != nil {
		stderr.Fatal(err)
	}
}

// Fastq writes the reads of fasta and qual to fastq and reports how many
// were converted.
func Fastq(fasta, qual, fastq string, w io.Writer) error {
	n, err := seqio.ConvertFastaQual(fasta, qual, fastq)
	if err != nil {
		return fmt.Errorf("failed to convert %s and %s: %v", fasta, qual, err)
	}

	fmt.Fprintf(w, "Converted %d fasta+qual records to fastq\n", n)
	return nil
}
