package meta

import (
	"bufio"
	"fmt"
	"os"

	"github.com/faircloth-lab/meta/config"
	"github.com/faircloth-lab/meta/internal/screen"
	"github.com/spf13/cobra"
)

// ScreenCmd finds how short each sequence of a reference FASTA file can get
// before an aligner stops identifying it.
func ScreenCmd(cmd *cobra.Command, args []string) {
	conf := config.New()

	s, err := newScreener(args[2], args[1], mustBool(cmd, "five-prime"), conf)
	if err != nil {
		stderr.Fatal(err)
	}

	out, err := os.Create(args[3])
	if err != nil {
		stderr.Fatalf("failed to create output file %s: %v", args[3], err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if err := screen.Run(s, args[0], mustInt(cmd, "taxa"), mustInt(cmd, "cores"), w, conf.Verbose); err != nil {
		stderr.Fatalf("failed to screen %s: %v", args[0], err)
	}
	if err := w.Flush(); err != nil {
		stderr.Fatalf("failed to write %s: %v", args[3], err)
	}
}

// newScreener returns a Screener for the aligner called algo.
func newScreener(algo, db string, fivePrime bool, conf *config.Config) (*screen.Screener, error) {
	a, err := screen.NewAlgo(algo)
	if err != nil {
		return nil, err
	}

	bins := map[string]string{
		"swipe": conf.Vendors.Swipe,
		"blast": conf.Vendors.Blastn,
		"blat":  conf.Vendors.Blat,
	}
	bin, ok := bins[a.Name]
	if !ok {
		return nil, fmt.Errorf("failed to find an executable for %s", a.Name)
	}

	return &screen.Screener{
		Algo:      a,
		Bin:       bin,
		DB:        db,
		FivePrime: fivePrime,
		TempDir:   conf.TempDir,
	}, nil
}
