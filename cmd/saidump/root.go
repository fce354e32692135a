package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	redisAddr string
	redisDB   int
)

var rootCmd = &cobra.Command{
	Use:     "saidump",
	Short:   "Dump a switch's persisted ASIC_STATE",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address backing the persisted state")
	rootCmd.PersistentFlags().IntVar(&redisDB, "redis-db", 0, "Redis logical database index")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
