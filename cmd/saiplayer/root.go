package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	inputPath string
	stopOnErr bool
)

var rootCmd = &cobra.Command{
	Use:     "saiplayer",
	Short:   "Replay a recorded record stream against a virtual switch",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&inputPath, "input", "", "Path to a replay file (required)")
	rootCmd.PersistentFlags().BoolVar(&stopOnErr, "stop-on-error", false, "Abort a batch at its first failed item")
	_ = rootCmd.MarkPersistentFlagRequired("input")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
