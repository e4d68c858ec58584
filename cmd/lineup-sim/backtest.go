package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/lineup-engine/internal/backtest"
	"github.com/stitts-dev/lineup-engine/internal/scoring"
	"github.com/stitts-dev/lineup-engine/internal/simulator"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

var (
	btStrategies []string
	btFieldSizes []int
	btIterations int
	btEntryFee   float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Compare strategies across contest types and field sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := loadPool()
		if err != nil {
			return err
		}

		strategies := btStrategies
		if len(strategies) == 0 {
			strategies = scoring.Names()
		}

		var tasks []backtest.Task
		seed := cfg.Seed
		for _, strategy := range strategies {
			for _, contestType := range []types.ContestType{types.ContestCash, types.ContestTournament} {
				for _, fieldSize := range btFieldSizes {
					tasks = append(tasks, backtest.Task{
						Strategy: strategy,
						Contest: simulator.Contest{
							Type:      contestType,
							FieldSize: fieldSize,
							EntryFee:  btEntryFee,
						},
						Iterations: btIterations,
						Seed:       seed,
					})
					seed += 2
				}
			}
		}

		runner := backtest.NewRunner(pool, cfg.Rules, scoring.NewComposer(nil),
			solverOptions(), cfg.ScoreParams, cfg.BacktestWorkers)
		reports := runner.Run(cmd.Context(), tasks)

		for _, r := range reports {
			if r.Err != nil {
				fmt.Printf("%-16s %-10s field=%-5d ERROR: %v\n",
					r.Task.Strategy, r.Task.Contest.Type, r.Task.Contest.FieldSize, r.Err)
				continue
			}
			fmt.Printf("%-16s %-10s field=%-5d roi=%+7.1f%% cash=%.1f%% win=%.2f%% score=%.1f\n",
				r.Task.Strategy, r.Task.Contest.Type, r.Task.Contest.FieldSize,
				r.Series.MeanROI, r.Series.CashRate*100, r.Series.WinRate*100, r.Series.MeanScore)
		}
		return nil
	},
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available scoring strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(scoring.Names())
	},
}

func init() {
	backtestCmd.Flags().StringSliceVar(&btStrategies, "strategies", nil, "strategies to test (default: all)")
	backtestCmd.Flags().IntSliceVar(&btFieldSizes, "field-sizes", []int{100, 1000}, "contest field sizes")
	backtestCmd.Flags().IntVar(&btIterations, "iterations", 500, "iterations per task")
	backtestCmd.Flags().Float64Var(&btEntryFee, "entry-fee", 3.0, "contest entry fee")
}
