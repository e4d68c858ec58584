package main

import (
	"github.com/spf13/cobra"

	"github.com/stitts-dev/lineup-engine/internal/diversity"
	"github.com/stitts-dev/lineup-engine/internal/scoring"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

var (
	optStrategy string
	optContest  string
	optLineups  int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Build one or more optimal lineups from a player pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := loadPool()
		if err != nil {
			return err
		}

		composer := scoring.NewComposer(nil)
		composer.Compose(pool, optStrategy, contestType())

		result, err := diversity.Generate(pool, cfg.Rules, diversity.Params{
			NumLineups:  optLineups,
			MinUnique:   cfg.MinUnique,
			BasePenalty: cfg.BasePenalty,
			MaxRetries:  cfg.MaxRetries,
			Solver:      solverOptions(),
		})
		if err != nil {
			return err
		}

		out := struct {
			Strategy  string         `json:"strategy"`
			Requested int            `json:"requested"`
			Produced  int            `json:"produced"`
			Exhausted bool           `json:"exhausted"`
			Lineups   []types.Lineup `json:"lineups"`
		}{
			Strategy:  optStrategy,
			Requested: result.Requested,
			Produced:  len(result.Lineups),
			Exhausted: result.Exhausted != nil,
			Lineups:   result.Lineups,
		}
		return printJSON(out)
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optStrategy, "strategy", scoring.DefaultStrategy, "scoring strategy")
	optimizeCmd.Flags().StringVar(&optContest, "contest", "tournament", "contest type (cash or tournament)")
	optimizeCmd.Flags().IntVar(&optLineups, "lineups", 1, "number of diverse lineups to build")
}

func contestType() types.ContestType {
	if optContest == "cash" {
		return types.ContestCash
	}
	return types.ContestTournament
}
