package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	lockPath   string
	log        = logrus.StandardLogger()
)

var rootCmd = &cobra.Command{
	Use:     "syncd",
	Short:   "Redirect and reconcile SAI requests against a virtual or vendor switch",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (defaults baked in if omitted)")
	rootCmd.PersistentFlags().StringVar(&lockPath, "lock-file", "/var/run/syncd.lock", "Single-instance lock file path")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applyLogLevel(levelName string) {
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		log.WithError(err).Warn("syncd: unknown log level, keeping default")
		return
	}
	log.SetLevel(level)
}
