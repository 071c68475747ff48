package main

import (
	"github.com/spf13/cobra"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/pipeline"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Compute healthcare accessibility",
	Long:  "Scores every hexagon with the gravitational model: the capacity of the nearest facilities discounted by planar distance.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return executeStages(cmd, pipeline.HealthStage())
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
