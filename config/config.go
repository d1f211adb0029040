// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"os"

	"github.com/faircloth-lab/meta/internal/tools"
	"github.com/spf13/viper"
)

// VendorConfig are the paths to the external executables
type VendorConfig struct {
	Blat         string `mapstructure:"blat"`
	Blastn       string `mapstructure:"blastn"`
	Swipe        string `mapstructure:"swipe"`
	Uclust       string `mapstructure:"uclust"`
	Bowtie2      string `mapstructure:"bowtie2"`
	Bowtie2Build string `mapstructure:"bowtie2-build"`
	FastqMCF     string `mapstructure:"fastq-mcf"`
	Pathoscope   string `mapstructure:"pathoscope"`
}

// SelectConfig is for picking the best alignments of a read
type SelectConfig struct {
	// the scoring strategy, one of psl.ScorerNames. Empty means the command's default
	Scorer string `mapstructure:"scorer"`

	// the extra penalty per mismatch of the weighted scorer
	MismatchWeight int `mapstructure:"mismatch-weight"`

	// the share of the best score given up when scaling
	ScaleFactor float64 `mapstructure:"scale-factor"`

	// separates the species from the rest of a target name
	Delimiter string `mapstructure:"delimiter"`

	// reads shorter than this are left out of a tally
	MinQuerySize int `mapstructure:"min-query-size"`
}

// UclustConfig is for clustering reads
type UclustConfig struct {
	// the identity threshold of a cluster
	ID float64 `mapstructure:"id"`
}

// PathoscopeConfig is for the PathoScope batch
type PathoscopeConfig struct {
	tools.PathoscopeOptions `mapstructure:",squash"`

	// the number of alignments bowtie2 reports per read
	BowtieK int `mapstructure:"bowtie-k"`

	// the quality fastq-mcf trims read ends to
	TrimQuality int `mapstructure:"trim-quality"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// paths to executables
	Vendors VendorConfig `mapstructure:"vendors"`

	// blat search settings
	Blat tools.BlatOptions `mapstructure:"blat"`

	// alignment selection settings
	Select SelectConfig `mapstructure:"select"`

	// uclust settings
	Uclust UclustConfig `mapstructure:"uclust"`

	// PathoScope settings
	Pathoscope PathoscopeConfig `mapstructure:"pathoscope"`

	// where temporary alignment files are written
	TempDir string `mapstructure:"temp-dir"`

	// whether to log progress
	Verbose bool `mapstructure:"verbose"`
}

// defaults are the settings used when neither a settings file nor a flag sets them
var defaults = map[string]interface{}{
	"vendors.blat":          "blat",
	"vendors.blastn":        "blastn",
	"vendors.swipe":         "swipe",
	"vendors.uclust":        "uclust",
	"vendors.bowtie2":       "bowtie2",
	"vendors.bowtie2-build": "bowtie2-build",
	"vendors.fastq-mcf":     "fastq-mcf",
	"vendors.pathoscope":    "pathoscope",

	"blat.step-size":    tools.DefaultBlatOptions.StepSize,
	"blat.rep-match":    tools.DefaultBlatOptions.RepMatch,
	"blat.min-score":    tools.DefaultBlatOptions.MinScore,
	"blat.min-identity": tools.DefaultBlatOptions.MinIdentity,

	"select.scorer":          "",
	"select.mismatch-weight": 15,
	"select.scale-factor":    0.1,
	"select.delimiter":       "|",
	"select.min-query-size":  50,

	"uclust.id": 0.9,

	"pathoscope.em-epsilon":   1e-7,
	"pathoscope.max-iter":     50,
	"pathoscope.score-cutoff": 0.01,
	"pathoscope.bowtie-k":     100,
	"pathoscope.trim-quality": 5,

	"temp-dir": os.TempDir(),
	"verbose":  false,
}

// New returns a new Config struct populated by Viper settings:
// the defaults, then the optional settings file passed with --settings,
// then command line arguments
func New() *Config {
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	if settings := viper.GetString("settings"); settings != "" {
		viper.SetConfigFile(settings)
		if err := viper.MergeInConfig(); err != nil {
			log.Fatalf("failed to read settings file %s: %v", settings, err)
		}
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("failed to decode settings: %v", err)
	}

	return &c
}
