package main

import (
	"github.com/spf13/cobra"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long:  "Executes every stage in order: grid, census and health in parallel, munic, finance, compose.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		shapefile, _ := cmd.Flags().GetBool("shapefile")
		return executeStages(cmd, pipeline.AllStages(shapefile)...)
	},
}

func init() {
	runCmd.Flags().Bool("shapefile", false, "also export the final surface as a point shapefile")
	rootCmd.AddCommand(runCmd)
}
