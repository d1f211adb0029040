package screen

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/exascience/pargo/pipeline"
	"github.com/faircloth-lab/meta/internal/seqio"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// source feeds the reads of a FASTA file to a pipeline one at a time, so that
// each worker owns a single read.
type source struct {
	reader *fastx.Reader
	limit  int
	read   int
	data   interface{}
	err    error
}

func newSource(path string, limit int) (*source, error) {
	reader, err := fastx.NewReader(seq.DNAredundant, path, fastx.DefaultIDRegexp)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}
	return &source{reader: reader, limit: limit}, nil
}

func (s *source) Err() error {
	return s.err
}

func (s *source) Prepare(_ context.Context) int {
	return -1
}

func (s *source) Fetch(n int) (fetched int) {
	s.data = nil
	if n < 1 || (s.limit > 0 && s.read >= s.limit) {
		return 0
	}

	record, err := s.reader.Read()
	if err == io.EOF {
		return 0
	}
	if err != nil {
		s.err = err
		return 0
	}

	// the reader reuses its record
	record = record.Clone()
	s.data = &seqio.Read{ID: string(record.ID), Seq: record.Seq.Seq}
	s.read++
	return 1
}

func (s *source) Data() interface{} {
	return s.data
}

// Run screens the first taxa reads of the FASTA file at path (all of them if
// taxa is 0) on cores workers and writes one report line per read to out,
// in input order.
func Run(s *Screener, path string, taxa, cores int, out io.Writer, verbose bool) error {
	if cores < 1 {
		cores = 1
	}

	src, err := newSource(path, taxa)
	if err != nil {
		return err
	}
	defer src.reader.Close()

	var p pipeline.Pipeline
	p.Source(src)
	p.Add(
		pipeline.LimitedPar(cores, pipeline.Receive(func(_ int, data interface{}) interface{} {
			r := data.(*seqio.Read)
			line, err := s.Screen(r)
			if err != nil {
				p.SetErr(fmt.Errorf("failed to screen %s: %v", r.ID, err))
				return nil
			}
			if verbose {
				log.Printf("screened %s\n", r.ID)
			}
			return line
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			line, ok := data.(string)
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				p.SetErr(err)
			}
			return nil
		})),
	)
	p.Run()

	return p.Err()
}
