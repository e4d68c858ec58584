package main

import (
	"github.com/spf13/cobra"

	"github.com/stitts-dev/lineup-engine/internal/optimizer"
	"github.com/stitts-dev/lineup-engine/internal/scoring"
	"github.com/stitts-dev/lineup-engine/internal/simulator"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

var (
	simStrategy   string
	simFieldSize  int
	simIterations int
	simEntryFee   float64
	simContest    string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Optimize a lineup and run it through simulated contests",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := loadPool()
		if err != nil {
			return err
		}

		contest := simulator.Contest{
			Type:      types.ContestTournament,
			FieldSize: simFieldSize,
			EntryFee:  simEntryFee,
		}
		if simContest == "cash" {
			contest.Type = types.ContestCash
		}

		composer := scoring.NewComposer(nil)
		composer.Compose(pool, simStrategy, contest.Type)

		lineup, err := optimizer.Solve(pool, cfg.Rules, solverOptions())
		if err != nil {
			return err
		}

		gen, err := simulator.NewFieldGenerator(pool, cfg.Rules, cfg.Seed)
		if err != nil {
			return err
		}
		field, err := gen.Generate(contest.Type, contest.FieldSize)
		if err != nil {
			return err
		}

		model := simulator.NewScoreModel(cfg.ScoreParams, cfg.Seed+1)
		series := simulator.NewContestSimulator(contest, field, model).RunSeries(lineup, simIterations)

		out := struct {
			Strategy string                 `json:"strategy"`
			Lineup   *types.Lineup          `json:"lineup"`
			Contest  simulator.Contest      `json:"contest"`
			Series   simulator.SeriesResult `json:"series"`
		}{simStrategy, lineup, contest, series}
		return printJSON(out)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simStrategy, "strategy", scoring.DefaultStrategy, "scoring strategy")
	simulateCmd.Flags().StringVar(&simContest, "contest", "tournament", "contest type (cash or tournament)")
	simulateCmd.Flags().IntVar(&simFieldSize, "field-size", 100, "contest field size")
	simulateCmd.Flags().IntVar(&simIterations, "iterations", 1000, "simulation iterations")
	simulateCmd.Flags().Float64Var(&simEntryFee, "entry-fee", 3.0, "contest entry fee")
}
