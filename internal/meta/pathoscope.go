package meta

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/faircloth-lab/meta/config"
	"github.com/faircloth-lab/meta/internal/seqio"
	"github.com/faircloth-lab/meta/internal/tools"
	"github.com/spf13/cobra"
	"gopkg.in/ini.v1"
)

// batchName names the PathoScope batch in its log
const batchName = "pathoscope"

// pathoscopeFlags are the parsed arguments and flags of the pathoscope command
type pathoscopeFlags struct {
	// the reference FASTA the reads are aligned to
	reference string

	// holds a directory per sample with <sample>.fasta and <sample>.qual
	input string

	output    string
	primers   string
	overwrite bool
	keepGoing bool
	logPath   string
	level     level
}

// PathoscopeCmd runs the PathoScope batch on every sample directory.
func PathoscopeCmd(cmd *cobra.Command, args []string) {
	conf := config.New()

	lvl, err := parseLevel(mustString(cmd, "verbosity"))
	if err != nil {
		stderr.Fatal(err)
	}

	f := &pathoscopeFlags{
		reference: args[0],
		input:     args[1],
		output:    mustString(cmd, "output"),
		primers:   mustString(cmd, "primers"),
		overwrite: mustBool(cmd, "overwrite"),
		keepGoing: mustBool(cmd, "keep-going"),
		logPath:   mustString(cmd, "log-path"),
		level:     lvl,
	}

	if err := Pathoscope(f, conf, os.Stdout); err != nil {
		stderr.Fatal(err)
	}
}

// Pathoscope converts each sample's reads to FASTQ, optionally trims primers,
// aligns the reads to the reference with bowtie2, and reassigns the
// alignments with pathoscope ID. A failed sample stops the batch unless
// keepGoing is set.
func Pathoscope(f *pathoscopeFlags, conf *config.Config, w io.Writer) error {
	if err := prepareDir(f.output, f.overwrite); err != nil {
		return err
	}

	logDir := f.logPath
	if logDir == "" {
		logDir = f.output
	}
	log, err := newBatchLog(logDir, batchName, f.level, w)
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info(banner("Starting "+batchName, 65, "="))
	log.Info("Argument reference: %s", f.reference)
	log.Info("Argument input: %s", f.input)
	log.Info("Argument --output: %s", f.output)
	log.Info("Argument --primers: %s", f.primers)

	samples, err := sampleDirs(f.input)
	if err != nil {
		return err
	}

	index, err := bowtieIndex(log, f.reference, conf)
	if err != nil {
		return err
	}

	primers := ""
	if f.primers != "" {
		if primers, err = writePrimers(log, f.output, f.primers); err != nil {
			return err
		}
	}

	var failed []string
	for _, dir := range samples {
		sample := filepath.Base(dir)
		log.Info(banner("Running sample "+sample, 65, "-"))

		err := runSample(log, conf, dir, sample, f.output, index, primers)
		var failure *tools.SubprocessFailureError
		if errors.As(err, &failure) && f.keepGoing {
			log.Critical("%s failed, continuing: %v", sample, err)
			failed = append(failed, sample)
			continue
		}
		if err != nil {
			log.Critical("%s failed: %v", sample, err)
			return fmt.Errorf("failed to run sample %s: %v", sample, err)
		}
	}

	log.Info(banner("Completed "+batchName, 65, "="))
	if len(failed) > 0 {
		return fmt.Errorf("failed to run %d of %d samples: %s", len(failed), len(samples), strings.Join(failed, ", "))
	}
	return nil
}

// sampleDirs are the sample directories in input, sorted.
func sampleDirs(input string) ([]string, error) {
	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample directory %s: %v", input, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(input, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// bowtieIndex builds the bowtie2 index of reference, next to it, unless all
// of its files are already there. It returns the index basename.
func bowtieIndex(log *batchLog, reference string, conf *config.Config) (string, error) {
	index := strings.TrimSuffix(reference, filepath.Ext(reference))

	complete := true
	for _, suffix := range tools.Bowtie2IndexSuffixes {
		if _, err := os.Stat(index + suffix); err != nil {
			complete = false
			break
		}
	}
	if complete {
		log.Info("Bowtie2 index exists. Skipping index creation.")
		return index, nil
	}

	log.Info("Creating bowtie2 index")
	build := tools.Bowtie2Build(conf.Vendors.Bowtie2Build, reference, index)
	build.Log = filepath.Join(filepath.Dir(index), "bowtie2-build.stdout")
	if _, err := build.Run(); err != nil {
		return "", err
	}
	return index, nil
}

// writePrimers writes the [Primers] of the INI file conf to output/primers.fasta,
// keeping the case of their names.
func writePrimers(log *batchLog, output, conf string) (string, error) {
	log.Info("Creating primers.fasta file for trimming")

	cfg, err := ini.Load(conf)
	if err != nil {
		return "", fmt.Errorf("failed to read primers from %s: %v", conf, err)
	}
	section, err := cfg.GetSection("Primers")
	if err != nil {
		return "", fmt.Errorf("failed to find section [Primers] in %s", conf)
	}

	var primers []*seqio.Read
	for _, k := range section.Keys() {
		primers = append(primers, &seqio.Read{ID: k.Name(), Seq: []byte(k.Value())})
	}

	path := filepath.Join(output, "primers.fasta")
	if err := seqio.WriteFasta(path, primers); err != nil {
		return "", err
	}
	return path, nil
}

// runSample runs the steps of the batch on a single sample.
func runSample(log *batchLog, conf *config.Config, dir, sample, output, index, primers string) error {
	outdir := filepath.Join(output, sample)
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %v", outdir, err)
	}

	fastq := filepath.Join(outdir, sample+".fastq")
	n, err := seqio.ConvertFastaQual(
		filepath.Join(dir, sample+".fasta"),
		filepath.Join(dir, sample+".qual"),
		fastq,
	)
	if err != nil {
		return err
	}
	log.Info("Converted %d fasta+qual records to fastq", n)

	if primers != "" {
		log.Info("Trimming primers")
		trimmed := filepath.Join(outdir, sample+".trimmed.fastq")
		trim := tools.FastqMCF(conf.Vendors.FastqMCF, primers, fastq, trimmed, conf.Pathoscope.TrimQuality)
		trim.Log = filepath.Join(outdir, "fastq-mcf.stdout")
		if _, err := trim.RunStrict(); err != nil {
			return err
		}
		fastq = trimmed
	}

	log.Info("Running bowtie2")
	sam := filepath.Join(outdir, sample+".sam")
	align := tools.Bowtie2(conf.Vendors.Bowtie2, index, fastq, sam, conf.Pathoscope.BowtieK)
	align.Log = filepath.Join(outdir, "bowtie2.stdout")
	if _, err := align.Run(); err != nil {
		return err
	}

	log.Info("Running pathoscope")
	id := tools.Pathoscope(conf.Vendors.Pathoscope, sam, outdir, sample, conf.Pathoscope.PathoscopeOptions)
	id.Log = filepath.Join(outdir, "pathoscope.stdout")
	if _, err := id.RunStrict(); err != nil {
		return err
	}

	return nil
}
