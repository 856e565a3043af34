// Package cmd is for command line interactions with the synbio application
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Imperial-iGEM/synbio/config"
)

// logger is for logging to stderr (without an annoying timestamp)
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "synbio"})

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "synbio",
	Short: `Simulate the digestion and ligation of DNA records.
Find the plasmids that form in a one-pot assembly, eg Golden Gate`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}

// loadConfig reads the settings and sets the log level from them
func loadConfig() (*config.Config, error) {
	conf, err := config.New()
	if err != nil {
		return nil, err
	}

	logger.SetLevel(conf.Level())
	if viper.GetBool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}
	return conf, nil
}

// set flags
func init() {
	config.SetDefaults(viper.GetViper())

	// settings is an optional parameter for a settings file (that overrides the defaults)
	RootCmd.PersistentFlags().StringP("settings", "s", "", "settings file, eg settings.yaml")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")
	viper.BindPFlag("settings", RootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
}
