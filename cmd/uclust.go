package cmd

import (
	"github.com/faircloth-lab/meta/internal/meta"
	"github.com/spf13/cobra"
)

// uclustCmd groups the commands that cluster reads and read the clusters
var uclustCmd = &cobra.Command{
	Use:                        "uclust",
	Short:                      "Cluster reads with uclust and summarize the clusters",
	SuggestionsMinimumDistance: 2,
}

// uclustRunCmd clusters every FASTA file of a directory
var uclustRunCmd = &cobra.Command{
	Use:                        "run [dir]",
	Short:                      "Sort and cluster every FASTA file of a directory",
	Run:                        meta.UclustRunCmd,
	Args:                       cobra.ExactArgs(1),
	SuggestionsMinimumDistance: 2,
	Long: `Sort and cluster every .fasta file of dir with uclust, writing <name>.sorted.fasta
and <name>.results.uc to --output. The number of clusters of each file is logged.`,
}

// uclustCountsCmd counts the reads of each cluster
var uclustCountsCmd = &cobra.Command{
	Use:                        "counts [dir]",
	Short:                      "Write the read count of every cluster as CSV",
	Run:                        meta.UclustCountsCmd,
	Args:                       cobra.ExactArgs(1),
	SuggestionsMinimumDistance: 2,
	Long: `Read every .results.uc file of dir and write a CSV row per file with the number of
reads in each of its clusters, in cluster number order.`,
}

// uclustSplitCmd writes the reads of each cluster to their own files
var uclustSplitCmd = &cobra.Command{
	Use:                        "split [uc-dir] [reads-dir] [output]",
	Short:                      "Write the reads of every cluster to their own FASTA and QUAL files",
	Run:                        meta.UclustSplitCmd,
	Args:                       cobra.ExactArgs(3),
	SuggestionsMinimumDistance: 2,
	Long: `For every .uc file of uc-dir, find the reads that were clustered in reads-dir
(<name>.fasta and <name>.qual) and write each cluster to
output/<name>/Cluster-<n>.fasta and .qual.

Every clustered read must be among the reads, and every read must be clustered.`,
}

// set flags
func init() {
	uclustRunCmd.Flags().StringP("output", "o", ".", "directory for the sorted reads and .uc files")
	uclustRunCmd.Flags().Float64("id", 0.9, "identity threshold of a cluster (defaults to the settings' uclust id)")

	uclustCountsCmd.Flags().Bool("sorted", false, "order the counts of each row largest first")

	uclustSplitCmd.Flags().BoolP("overwrite", "w", false, "replace existing cluster directories")

	uclustCmd.AddCommand(uclustRunCmd)
	uclustCmd.AddCommand(uclustCountsCmd)
	uclustCmd.AddCommand(uclustSplitCmd)

	RootCmd.AddCommand(uclustCmd)
}
