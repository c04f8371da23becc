package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "droidpilot",
		Short:   "droidpilot — AI automation agents for Android development workflows",
		Version: version,
	}

	root.AddCommand(
		newGenerateCmd(),
		newFixCmd(),
		newAnalyzeCmd(),
		newStatsCmd(),
		newCacheCmd(),
		newBudgetCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
