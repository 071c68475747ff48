package main

import (
	"github.com/spf13/cobra"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/pipeline"
)

var municCmd = &cobra.Command{
	Use:   "munic",
	Short: "Compute the municipal survey indicators",
	Long:  "Reads the MUNIC survey answers, normalizes them across municipalities, and broadcasts them onto the hexagon grid.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return executeStages(cmd, pipeline.MunicStage())
	},
}

func init() {
	rootCmd.AddCommand(municCmd)
}
