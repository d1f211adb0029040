package seqio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// phredOffset is the Sanger/Illumina 1.8+ FASTQ quality encoding.
const phredOffset = 33

// qualsPerLine is the number of scores on each line of a QUAL file.
const qualsPerLine = 25

// WriteFastq writes reads to a FASTQ file (gzipped if path ends in .gz) and
// returns the number written. Every read must have qualities.
func WriteFastq(path string, reads []*Read) (n int, err error) {
	w, err := xopen.Wopen(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create FASTQ file %s: %v", path, err)
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close FASTQ file %s: %v", path, cerr)
		}
	}()

	for _, r := range reads {
		if len(r.Qual) != len(r.Seq) {
			return n, fmt.Errorf("failed to write %s to FASTQ: %d bases and %d scores", r.ID, len(r.Seq), len(r.Qual))
		}

		s, err := seq.NewSeqWithQual(seq.DNAredundant, r.Seq, encodeQual(r.Qual))
		if err != nil {
			return n, fmt.Errorf("failed to write %s to FASTQ: %v", r.ID, err)
		}

		record := &fastx.Record{ID: []byte(r.ID), Name: []byte(r.Header()), Seq: s}
		record.FormatToWriter(w, 0)
		n++
	}

	return n, nil
}

// ConvertFastaQual writes the reads of a FASTA file and its QUAL file to a
// single FASTQ file, returning the number of reads converted.
func ConvertFastaQual(fastaPath, qualPath, fastqPath string) (int, error) {
	reads, err := ReadPaired(fastaPath, qualPath)
	if err != nil {
		return 0, err
	}
	return WriteFastq(fastqPath, reads)
}

// WriteFasta writes reads to a FASTA file with 60 bases per line.
func WriteFasta(path string, reads []*Read) (err error) {
	w, err := xopen.Wopen(path)
	if err != nil {
		return fmt.Errorf("failed to create FASTA file %s: %v", path, err)
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close FASTA file %s: %v", path, cerr)
		}
	}()

	fw := fasta.NewWriter(w, 60)
	for _, r := range reads {
		s := linear.NewSeq(r.ID, alphabet.BytesToLetters(r.Seq), alphabet.DNA)
		s.Desc = r.Desc
		if _, err := fw.Write(s); err != nil {
			return fmt.Errorf("failed to write %s to %s: %v", r.ID, path, err)
		}
	}

	return nil
}

// WriteQual writes the qualities of reads to a QUAL file.
func WriteQual(path string, reads []*Read) (err error) {
	w, err := xopen.Wopen(path)
	if err != nil {
		return fmt.Errorf("failed to create QUAL file %s: %v", path, err)
	}
	defer func() {
		if cerr := w.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close QUAL file %s: %v", path, cerr)
		}
	}()

	for _, r := range reads {
		if err := writeQual(w, r); err != nil {
			return fmt.Errorf("failed to write %s to %s: %v", r.ID, path, err)
		}
	}

	return nil
}

func writeQual(w io.Writer, r *Read) error {
	if _, err := fmt.Fprintf(w, ">%s\n", r.Header()); err != nil {
		return err
	}

	for start := 0; start < len(r.Qual); start += qualsPerLine {
		end := start + qualsPerLine
		if end > len(r.Qual) {
			end = len(r.Qual)
		}

		scores := make([]string, 0, end-start)
		for _, q := range r.Qual[start:end] {
			scores = append(scores, strconv.Itoa(q))
		}
		if _, err := fmt.Fprintln(w, strings.Join(scores, " ")); err != nil {
			return err
		}
	}

	return nil
}

func encodeQual(quals []int) []byte {
	enc := make([]byte, len(quals))
	for i, q := range quals {
		if q < 0 {
			q = 0
		}
		if q > 93 {
			q = 93 // highest score printable in Phred+33
		}
		enc[i] = byte(q + phredOffset)
	}
	return enc
}
