package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/lineup-engine/internal/config"
	"github.com/stitts-dev/lineup-engine/internal/optimizer"
	"github.com/stitts-dev/lineup-engine/pkg/logger"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

var (
	cfgFile  string
	poolFile string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lineup-sim",
	Short: "DFS lineup optimization and contest simulation engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger.InitLogger(cfg.LogLevel, cfg.Development)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&poolFile, "pool", "", "player pool JSON file")
	rootCmd.AddCommand(optimizeCmd, simulateCmd, backtestCmd, strategiesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadPool reads and normalizes the player pool named by --pool.
func loadPool() ([]types.Player, error) {
	if poolFile == "" {
		return nil, fmt.Errorf("--pool is required")
	}
	data, err := os.ReadFile(poolFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool file: %w", err)
	}
	var pool []types.Player
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("failed to parse pool file: %w", err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("pool file %s contains no players", poolFile)
	}
	return types.NormalizePool(pool), nil
}

func solverOptions() optimizer.Options {
	timeout, err := time.ParseDuration(cfg.OptimizerTimeout)
	if err != nil || timeout <= 0 {
		timeout = optimizer.DefaultTimeout
	}
	return optimizer.Options{
		Timeout:            timeout,
		TargetSalary:       cfg.TargetSalary,
		TargetSalaryWeight: cfg.TargetSalaryWeight,
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
