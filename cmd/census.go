package main

import (
	"github.com/spf13/cobra"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/pipeline"
)

var censusCmd = &cobra.Command{
	Use:   "census",
	Short: "Compute the census ratio indicators",
	Long:  "Extracts tract variables from the census snapshots and produces one normalized per-hexagon surface per ratio indicator.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return executeStages(cmd, pipeline.CensusStage())
	},
}

func init() {
	rootCmd.AddCommand(censusCmd)
}
