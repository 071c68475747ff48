package main

import (
	"github.com/spf13/cobra"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/pipeline"
)

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Compute the environmental-expense indicator",
	Long:  "Sums the liquidated environmental-management expense per capita across the configured SICONFI years and broadcasts it onto the grid.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return executeStages(cmd, pipeline.FinanceStage())
	},
}

func init() {
	rootCmd.AddCommand(financeCmd)
}
