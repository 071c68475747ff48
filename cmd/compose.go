package main

import (
	"github.com/spf13/cobra"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/pipeline"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose the consolidated index surface",
	Long:  "Joins every indicator surface by hexagon, averages dimensions, and writes the final index. External hazard layers are included when present.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		shapefile, _ := cmd.Flags().GetBool("shapefile")
		return executeStages(cmd, pipeline.ComposeStage(shapefile))
	},
}

func init() {
	composeCmd.Flags().Bool("shapefile", false, "also export the final surface as a point shapefile")
	rootCmd.AddCommand(composeCmd)
}
