package meta

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/faircloth-lab/meta/internal/seqio"
	"github.com/spf13/cobra"
	"gopkg.in/ini.v1"
)

// VoucherCmd splits a FASTA file of voucher sequences into one file per
// group of species.
func VoucherCmd(cmd *cobra.Command, args []string) {
	if err := Voucher(args[0], args[1], args[2], os.Stdout); err != nil {
		stderr.Fatal(err)
	}
}

// Voucher writes the records of input whose header names any species of a
// section of the INI file conf to output/<section>.fasta, one file per section.
// Spaces in the section name become dashes.
func Voucher(input, conf, output string, w io.Writer) error {
	if info, err := os.Stat(output); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", output)
	}

	cfg, err := ini.Load(conf)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", conf, err)
	}

	reads, err := seqio.ReadFasta(input)
	if err != nil {
		return err
	}

	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}

		match := speciesPattern(section)
		var kept []*seqio.Read
		for _, r := range reads {
			if match != nil && match.MatchString(r.Header()) {
				kept = append(kept, r)
			}
		}

		path := filepath.Join(output, strings.ReplaceAll(section.Name(), " ", "-")+".fasta")
		if err := seqio.WriteFasta(path, kept); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %d records\n", section.Name(), len(kept))
	}

	return nil
}

// speciesPattern matches any of the section's species, case-insensitively,
// with the spaces of a name also matching punctuation or dashes. It's nil for
// an empty section.
func speciesPattern(section *ini.Section) *regexp.Regexp {
	var alts []string
	for _, k := range section.Keys() {
		words := strings.Fields(k.String())
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		if len(words) > 0 {
			alts = append(alts, strings.Join(words, `[.,!?;\s-]`))
		}
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)` + strings.Join(alts, "|"))
}
