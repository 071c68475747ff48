package main

import (
	"github.com/spf13/cobra"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/pipeline"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Build the base hexagon table",
	Long:  "Joins the H3-to-tract crosswalk with the household-count chunks and computes each hexagon's dasymetric weight within its census tract.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return executeStages(cmd, pipeline.GridStage())
	},
}

func init() {
	rootCmd.AddCommand(gridCmd)
}
