// Package cmd is for command line interactions with the meta application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "meta",
	Short: `Identify and count the species in metagenomic amplicon reads.
Align reads with blat, cluster them with uclust, or reassign them with PathoScope`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	// settings is an optional settings file that overrides the defaults
	RootCmd.PersistentFlags().StringP("settings", "s", "", "YAML settings file")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "whether to log progress to stderr")
	viper.BindPFlag("settings", RootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
}
