// Package tools builds and runs the external aligners, clusterers and
// abundance estimators as argument vectors, never as shell strings.
package tools

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SubprocessFailureError is returned when an external tool exits non-zero, or
// writes to stderr when run with RunStrict.
type SubprocessFailureError struct {
	// Tool is the tool's name, like "blat"
	Tool string

	// Args is the argument vector, without the binary
	Args []string

	// Stderr is what the tool wrote to stderr
	Stderr string

	// Err is the exit error, nil if the tool exited cleanly but wrote to stderr
	Err error
}

func (e *SubprocessFailureError) Error() string {
	msg := fmt.Sprintf("failed to execute %s %s", e.Tool, strings.Join(e.Args, " "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *SubprocessFailureError) Unwrap() error {
	return e.Err
}

// Command is one invocation of an external tool.
type Command struct {
	// Tool names the tool in errors and logs
	Tool string

	// Path is the executable
	Path string

	Args []string

	// Log, if set, is a file that receives the tool's stdout and stderr
	Log string
}

// String is the command line, for logging.
func (c *Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// Check confirms the executable can be found.
func (c *Command) Check() error {
	if _, err := exec.LookPath(c.Path); err != nil {
		return fmt.Errorf("failed to find a %s executable at %s", c.Tool, c.Path)
	}
	return nil
}

// Run executes the command and waits for it to finish, returning its stdout.
// A non-zero exit is a *SubprocessFailureError.
func (c *Command) Run() ([]byte, error) {
	stdout, stderr, err := c.run()
	if err != nil {
		return stdout, &SubprocessFailureError{Tool: c.Tool, Args: c.Args, Stderr: string(stderr), Err: err}
	}
	return stdout, nil
}

// RunStrict is Run but also fails when the tool writes anything to stderr.
func (c *Command) RunStrict() ([]byte, error) {
	stdout, stderr, err := c.run()
	if err != nil || len(bytes.TrimSpace(stderr)) > 0 {
		return stdout, &SubprocessFailureError{Tool: c.Tool, Args: c.Args, Stderr: string(stderr), Err: err}
	}
	return stdout, nil
}

// Output executes the command and returns its stdout and stderr. A non-zero
// exit is a *SubprocessFailureError.
func (c *Command) Output() (stdout, stderr []byte, err error) {
	stdout, stderr, err = c.run()
	if err != nil {
		return stdout, stderr, &SubprocessFailureError{Tool: c.Tool, Args: c.Args, Stderr: string(stderr), Err: err}
	}
	return stdout, stderr, nil
}

func (c *Command) run() ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if c.Log != "" {
		f, err := os.Create(c.Log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create log file %s: %v", c.Log, err)
		}
		defer f.Close()

		cmd.Stdout = io.MultiWriter(f, &stdout)
		cmd.Stderr = io.MultiWriter(f, &stderr)
	}

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// BlatOptions are the search settings passed to blat.
type BlatOptions struct {
	StepSize    int `mapstructure:"step-size"`
	RepMatch    int `mapstructure:"rep-match"`
	MinScore    int `mapstructure:"min-score"`
	MinIdentity int `mapstructure:"min-identity"`
}

// DefaultBlatOptions are sensitive settings for short reads against small databases.
var DefaultBlatOptions = BlatOptions{StepSize: 5, RepMatch: 2253}

// Blat aligns query against db and writes header-less PSL to out.
func Blat(bin, db, query, out string, o BlatOptions) *Command {
	return &Command{
		Tool: "blat",
		Path: bin,
		Args: []string{
			"-stepSize=" + strconv.Itoa(o.StepSize),
			"-repMatch=" + strconv.Itoa(o.RepMatch),
			"-minScore=" + strconv.Itoa(o.MinScore),
			"-minIdentity=" + strconv.Itoa(o.MinIdentity),
			"-noHead",
			db,
			query,
			out,
		},
	}
}

// BlatBlastReport aligns query against db and writes a BLAST style report to out.
func BlatBlastReport(bin, db, query, out string) *Command {
	return &Command{
		Tool: "blat",
		Path: bin,
		Args: []string{db, query, "-t=dna", "-q=dna", "-fastMap", "-out=blast", out},
	}
}

// Blastn runs a megablast search of query against db, writing the default report to out.
// https://www.ncbi.nlm.nih.gov/books/NBK279682/
func Blastn(bin, db, query, out string) *Command {
	return &Command{
		Tool: "blastn",
		Path: bin,
		Args: []string{
			"-db", db,
			"-query", query,
			"-task", "megablast",
			"-evalue", "1e-50",
			"-gapopen", "3",
			"-gapextend", "1",
			"-out", out,
		},
	}
}

// Swipe runs a Smith-Waterman search of query against db.
func Swipe(bin, db, query, out string) *Command {
	return &Command{
		Tool: "swipe",
		Path: bin,
		Args: []string{
			"-d", db,
			"-i", query,
			"-p", "0",
			"-M", "BLOSUM80",
			"-G", "100",
			"-o", out,
		},
	}
}

// UclustSort sorts the reads of in by decreasing length into out.
func UclustSort(bin, in, out string) *Command {
	return &Command{
		Tool: "uclust",
		Path: bin,
		Args: []string{"--sort", in, "--output", out},
	}
}

// Uclust clusters the sorted reads of in at identity id, writing assignments to uc.
func Uclust(bin, in, uc string, id float64) *Command {
	return &Command{
		Tool: "uclust",
		Path: bin,
		Args: []string{"--input", in, "--uc", uc, "--id", strconv.FormatFloat(id, 'f', -1, 64)},
	}
}

// Bowtie2IndexSuffixes are the files bowtie2-build writes for an index.
var Bowtie2IndexSuffixes = []string{".1.bt2", ".2.bt2", ".3.bt2", ".4.bt2", ".rev.1.bt2", ".rev.2.bt2"}

// Bowtie2Build indexes the reference FASTA under the basename index.
func Bowtie2Build(bin, reference, index string) *Command {
	return &Command{
		Tool: "bowtie2-build",
		Path: bin,
		Args: []string{reference, index},
	}
}

// Bowtie2 aligns the reads of fastq to index, reporting up to k alignments per
// read to the SAM file sam.
func Bowtie2(bin, index, fastq, sam string, k int) *Command {
	return &Command{
		Tool: "bowtie2",
		Path: bin,
		Args: []string{"-k", strconv.Itoa(k), "-x", index, "-U", fastq, "-S", sam},
	}
}

// FastqMCF trims the adapters in primers from fastq, and low quality ends
// below quality, into out.
func FastqMCF(bin, primers, fastq, out string, quality int) *Command {
	return &Command{
		Tool: "fastq-mcf",
		Path: bin,
		Args: []string{"-q", strconv.Itoa(quality), primers, fastq, "-o", out},
	}
}

// PathoscopeOptions are the reassignment settings of pathoscope ID.
type PathoscopeOptions struct {
	EMEpsilon   float64 `mapstructure:"em-epsilon"`
	MaxIter     int     `mapstructure:"max-iter"`
	ScoreCutoff float64 `mapstructure:"score-cutoff"`
}

// Pathoscope reassigns the ambiguous alignments of sam, writing reports under
// outDir tagged with sample.
func Pathoscope(bin, sam, outDir, sample string, o PathoscopeOptions) *Command {
	return &Command{
		Tool: "pathoscope",
		Path: bin,
		Args: []string{
			"ID",
			"-alignFile", sam,
			"-fileType", "sam",
			"-outDir", outDir,
			"-expTag", sample,
			"-emEpsilon", strconv.FormatFloat(o.EMEpsilon, 'g', -1, 64),
			"-maxIter", strconv.Itoa(o.MaxIter),
			"-scoreCutoff", strconv.FormatFloat(o.ScoreCutoff, 'g', -1, 64),
		},
	}
}

var clusterCount = regexp.MustCompile(`([0-9]+)\sclusters`)

// ClusterCount finds the number of clusters in uclust's stderr report.
func ClusterCount(report []byte) (int, error) {
	m := clusterCount.FindSubmatch(report)
	if m == nil {
		return 0, fmt.Errorf("failed to find a cluster count in uclust output")
	}
	return strconv.Atoi(string(m[1]))
}

// TempPath returns a new, unique file name in dir ending with suffix. The
// file is not created.
func TempPath(dir, suffix string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, uuid.New().String()+suffix)
}
