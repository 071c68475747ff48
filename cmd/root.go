package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/config"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/pipeline"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ijc",
	Short: "Climate justice index pipeline",
	Long:  "Builds the hexagonal climate justice index for Brazil: dasymetric census aggregation, healthcare accessibility, municipal governance indicators, and the consolidated surface.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// executeStages wires the env, the run registry, and the runner for every
// stage command.
func executeStages(cmd *cobra.Command, stages ...pipeline.Stage) error {
	env, err := pipeline.NewEnv(cfg)
	if err != nil {
		return err
	}
	st, err := pipeline.OpenRunStore(cfg.Run.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	r := &pipeline.Runner{Store: st}
	return r.Execute(cmd.Context(), env, stages)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
