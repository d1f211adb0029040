package meta

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/faircloth-lab/meta/config"
	"github.com/faircloth-lab/meta/internal/seqio"
	"github.com/faircloth-lab/meta/internal/tools"
	"github.com/faircloth-lab/meta/internal/uclust"
	"github.com/spf13/cobra"
)

// ucSuffix ends the names of the .uc files written by uclust run
const ucSuffix = ".results.uc"

// UclustRunCmd sorts and clusters each FASTA file of a directory and
// reports the number of clusters of each.
func UclustRunCmd(cmd *cobra.Command, args []string) {
	conf := config.New()

	out := mustString(cmd, "output")
	id := conf.Uclust.ID
	if cmd.Flags().Changed("id") {
		v, err := cmd.Flags().GetFloat64("id")
		if err != nil {
			stderr.Fatalf("failed to parse id flag: %v", err)
		}
		id = v
	}

	inputs, err := inputDir(args[0], ".fasta")
	if err != nil {
		stderr.Fatal(err)
	}

	if err := UclustRun(inputs, out, id, conf, os.Stdout); err != nil {
		stderr.Fatal(err)
	}
}

// UclustRun clusters each input at identity id, writing the sorted reads and
// the .uc file of each to out.
func UclustRun(inputs []string, out string, id float64, conf *config.Config, w io.Writer) error {
	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %v", out, err)
	}

	for _, in := range inputs {
		name := baseName(in, ".fasta")
		sorted := filepath.Join(out, name+".sorted.fasta")
		uc := filepath.Join(out, name+ucSuffix)

		if _, err := tools.UclustSort(conf.Vendors.Uclust, in, sorted).Run(); err != nil {
			return fmt.Errorf("failed to sort %s: %v", in, err)
		}

		_, report, err := tools.Uclust(conf.Vendors.Uclust, sorted, uc, id).Output()
		if err != nil {
			return fmt.Errorf("failed to cluster %s: %v", in, err)
		}

		count, err := tools.ClusterCount(report)
		if err != nil {
			return fmt.Errorf("failed to cluster %s: %v", in, err)
		}
		fmt.Fprintf(w, "%s %d\n", filepath.Base(in), count)
	}

	return nil
}

// UclustCountsCmd writes a table of the number of reads in each cluster
// of each .uc file in a directory.
func UclustCountsCmd(cmd *cobra.Command, args []string) {
	files, err := inputDir(args[0], ucSuffix)
	if err != nil {
		stderr.Fatal(err)
	}

	if err := UclustCounts(files, mustBool(cmd, "sorted"), os.Stdout); err != nil {
		stderr.Fatal(err)
	}
}

// UclustCounts writes one CSV row per .uc file: its name and then the read
// count of each cluster. Every row has a column for every cluster number seen
// in any file, empty where the file lacks that cluster. If sorted, the counts
// of each row are ordered largest first.
func UclustCounts(files []string, sorted bool, w io.Writer) error {
	tbl := &uclust.Table{}
	for _, file := range files {
		records, err := uclust.ReadFile(file)
		if err != nil {
			return err
		}
		tbl.Add(uclust.Count(filepath.Base(file), records))
	}

	out := csv.NewWriter(w)
	if err := out.WriteAll(tbl.Rows(sorted)); err != nil {
		return fmt.Errorf("failed to write cluster counts: %v", err)
	}
	return nil
}

// UclustSplitCmd writes the reads of each cluster to their own FASTA and
// QUAL files.
func UclustSplitCmd(cmd *cobra.Command, args []string) {
	conf := config.New()

	ucs, err := inputDir(args[0], ".uc")
	if err != nil {
		stderr.Fatal(err)
	}

	if err := UclustSplit(ucs, args[1], args[2], mustBool(cmd, "overwrite"), conf, os.Stdout); err != nil {
		stderr.Fatal(err)
	}
}

// UclustSplit sorts the reads clustered into each .uc file into
// out/<name>/Cluster-<n>.fasta and .qual, where the reads of <name>.uc are in
// reads/<name>.fasta and reads/<name>.qual. Without a .qual file only the
// FASTA files are written.
func UclustSplit(ucs []string, reads, out string, overwrite bool, conf *config.Config, w io.Writer) error {
	for _, uc := range ucs {
		name := strings.SplitN(filepath.Base(uc), ".", 2)[0]
		fmt.Fprintf(w, "%s\n%s\n", name, strings.Repeat("=", len(name)+2))

		records, err := uclust.ReadFile(uc)
		if err != nil {
			return err
		}

		clustered, withQual, err := clusteredReads(reads, name)
		if err != nil {
			return fmt.Errorf("failed to read the clustered reads of %s: %v", uc, err)
		}

		m, err := uclust.Split(uc, uclust.Assign(records), clustered)
		if err != nil {
			return err
		}

		dir := filepath.Join(out, name)
		if err := prepareDir(dir, overwrite); err != nil {
			return err
		}

		for _, n := range m.Clusters() {
			base := filepath.Join(dir, fmt.Sprintf("Cluster-%d", n))
			if err := seqio.WriteFasta(base+".fasta", m.Reads(n)); err != nil {
				return err
			}
			if withQual {
				if err := seqio.WriteQual(base+".qual", m.Reads(n)); err != nil {
					return err
				}
			}

			fmt.Fprintf(w, "Cluster-%d: %d reads\n", n, len(m.Reads(n)))
			if conf.Verbose {
				log.Printf("wrote the reads of %s\n", base)
			}
		}
	}

	return nil
}

// clusteredReads reads dir/<name>.fasta, paired with dir/<name>.qual when
// that exists. withQual reports whether it did.
func clusteredReads(dir, name string) (reads []*seqio.Read, withQual bool, err error) {
	fasta := filepath.Join(dir, name+".fasta")
	qual := filepath.Join(dir, name+".qual")

	if _, err := os.Stat(qual); os.IsNotExist(err) {
		reads, err := seqio.ReadFasta(fasta)
		return reads, false, err
	}

	reads, err = seqio.ReadPaired(fasta, qual)
	return reads, true, err
}
