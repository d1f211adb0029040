// Package seqio reads and writes the FASTA, QUAL and FASTQ files that flow
// between the aligners, the clusterer and the abundance estimator.
package seqio

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	bseqio "github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/shenwei356/xopen"
)

// Read is one sequencing read with optional per-base Phred qualities.
type Read struct {
	// ID is the header up to the first whitespace
	ID string

	// Desc is the rest of the header
	Desc string

	Seq []byte

	// Qual has one Phred score per base in Seq, or is nil
	Qual []int
}

// Header is the full FASTA header, without the ">".
func (r *Read) Header() string {
	if r.Desc == "" {
		return r.ID
	}
	return r.ID + " " + r.Desc
}

// ReadFasta reads every record of a (possibly gzipped) FASTA file.
func ReadFasta(path string) ([]*Read, error) {
	f, err := xopen.Ropen(path)
	if err == xopen.ErrNoContent {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA file %s: %v", path, err)
	}
	defer f.Close()

	var reads []*Read
	sc := bseqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)

		bases := make([]byte, len(s.Seq))
		for i, l := range s.Seq {
			bases[i] = byte(l)
		}
		reads = append(reads, &Read{ID: s.ID, Desc: s.Desc, Seq: bases})
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("failed to parse FASTA file %s: %v", path, err)
	}

	return reads, nil
}

// ReadQual reads a QUAL file: FASTA-style headers each followed by whitespace
// separated Phred scores. The returned Reads have no Seq.
func ReadQual(path string) ([]*Read, error) {
	f, err := xopen.Ropen(path)
	if err == xopen.ErrNoContent {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open QUAL file %s: %v", path, err)
	}
	defer f.Close()

	var reads []*Read
	var cur *Read
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, ">") {
			id, desc := splitHeader(text[1:])
			cur = &Read{ID: id, Desc: desc, Qual: []int{}}
			reads = append(reads, cur)
			continue
		}

		if cur == nil {
			return nil, fmt.Errorf("failed to parse QUAL file %s: scores before a header on line %d", path, line)
		}
		for _, field := range strings.Fields(text) {
			q, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("failed to parse QUAL file %s: bad score %q on line %d", path, field, line)
			}
			cur.Qual = append(cur.Qual, q)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read QUAL file %s: %v", path, err)
	}

	return reads, nil
}

// Pair joins the qualities of quals onto seqs. The two must list the same reads
// in the same order, with one score per base.
func Pair(seqs, quals []*Read) ([]*Read, error) {
	if len(seqs) != len(quals) {
		return nil, fmt.Errorf("failed to pair reads: %d sequences and %d quality records", len(seqs), len(quals))
	}

	paired := make([]*Read, len(seqs))
	for i, s := range seqs {
		q := quals[i]
		if s.ID != q.ID {
			return nil, fmt.Errorf("failed to pair reads: sequence %s does not match quality record %s", s.ID, q.ID)
		}
		if len(s.Seq) != len(q.Qual) {
			return nil, fmt.Errorf("failed to pair reads: %s has %d bases and %d scores", s.ID, len(s.Seq), len(q.Qual))
		}
		paired[i] = &Read{ID: s.ID, Desc: s.Desc, Seq: s.Seq, Qual: q.Qual}
	}

	return paired, nil
}

// ReadPaired reads a FASTA file and its QUAL file and pairs them.
func ReadPaired(fastaPath, qualPath string) ([]*Read, error) {
	seqs, err := ReadFasta(fastaPath)
	if err != nil {
		return nil, err
	}

	quals, err := ReadQual(qualPath)
	if err != nil {
		return nil, err
	}

	return Pair(seqs, quals)
}

func splitHeader(header string) (id, desc string) {
	header = strings.TrimSpace(header)
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i], strings.TrimSpace(header[i+1:])
	}
	return header, ""
}
