package simulator

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/lineup-engine/pkg/logger"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

// Contest describes the contest a lineup is entered into.
type Contest struct {
	Type      types.ContestType `mapstructure:"type"`
	FieldSize int               `mapstructure:"field_size"`
	EntryFee  float64           `mapstructure:"entry_fee"`
}

// PayoutTier pays a multiple of the entry fee to entries finishing
// within the top RankFraction of the field.
type PayoutTier struct {
	RankFraction float64
	Multiplier   float64
}

// Tournament payouts are top heavy; tiers are checked best first.
var tournamentPayouts = []PayoutTier{
	{0.01, 10.0},
	{0.05, 5.0},
	{0.10, 3.0},
	{0.20, 2.0},
	{0.30, 1.5},
	{0.40, 1.2},
}

// cashThreshold is the fraction of the field that doubles up in a cash
// game.
const cashThreshold = 0.44

// EntryResult is one simulated contest outcome for a user lineup.
type EntryResult struct {
	Score      float64
	Rank       int
	Percentile float64
	Payout     float64
	Profit     float64
	ROI        float64
}

// SeriesResult aggregates EntryResults over many simulated contests.
type SeriesResult struct {
	Iterations  int
	MeanScore   float64
	ScoreStdDev float64
	MeanROI     float64
	CashRate    float64
	WinRate     float64
	TopTenRate  float64
}

// ContestSimulator runs a user lineup against a fixed opponent field,
// rescoring everyone each iteration.
type ContestSimulator struct {
	contest Contest
	field   []types.FieldLineup
	model   *ScoreModel
	log     *logrus.Entry
}

func NewContestSimulator(contest Contest, field []types.FieldLineup, model *ScoreModel) *ContestSimulator {
	return &ContestSimulator{
		contest: contest,
		field:   field,
		model:   model,
		log: logger.WithSimulationContext(
			"sim_"+uuid.New().String()[:8], string(contest.Type), contest.FieldSize,
		).WithField("component", "contest_simulator"),
	}
}

// Run scores the user lineup and every field lineup once and settles
// the contest. Ties rank the user ahead.
func (cs *ContestSimulator) Run(lineup *types.Lineup) EntryResult {
	userScore := cs.model.Simulate(lineup)

	beaten := 0
	for i := range cs.field {
		if cs.model.Simulate(&cs.field[i].Lineup) > userScore {
			beaten++
		}
	}

	total := len(cs.field) + 1
	rank := beaten + 1
	payout := cs.payoutFor(rank, total)
	profit := payout - cs.contest.EntryFee

	result := EntryResult{
		Score:      userScore,
		Rank:       rank,
		Percentile: float64(total-rank) / float64(total) * 100,
		Payout:     payout,
		Profit:     profit,
	}
	if cs.contest.EntryFee > 0 {
		result.ROI = profit / cs.contest.EntryFee * 100
	}
	return result
}

// RunSeries repeats Run and aggregates. The field roster composition
// stays fixed across iterations; only realized scores vary.
func (cs *ContestSimulator) RunSeries(lineup *types.Lineup, iterations int) SeriesResult {
	if iterations <= 0 {
		iterations = 1
	}

	scores := make([]float64, 0, iterations)
	rois := make([]float64, 0, iterations)
	cashes, wins, topTens := 0, 0, 0

	for i := 0; i < iterations; i++ {
		entry := cs.Run(lineup)
		scores = append(scores, entry.Score)
		rois = append(rois, entry.ROI)
		if entry.Payout > 0 {
			cashes++
		}
		if entry.Rank == 1 {
			wins++
		}
		if entry.Percentile >= 90 {
			topTens++
		}
	}

	result := SeriesResult{
		Iterations:  iterations,
		MeanScore:   stat.Mean(scores, nil),
		ScoreStdDev: stat.StdDev(scores, nil),
		MeanROI:     stat.Mean(rois, nil),
		CashRate:    float64(cashes) / float64(iterations),
		WinRate:     float64(wins) / float64(iterations),
		TopTenRate:  float64(topTens) / float64(iterations),
	}

	cs.log.WithFields(logrus.Fields{
		"iterations": iterations,
		"mean_score": result.MeanScore,
		"mean_roi":   result.MeanROI,
		"cash_rate":  result.CashRate,
	}).Debug("Completed contest series")

	return result
}

func (cs *ContestSimulator) payoutFor(rank, total int) float64 {
	rankFraction := float64(rank) / float64(total)

	if cs.contest.Type == types.ContestCash {
		if rankFraction <= cashThreshold {
			return cs.contest.EntryFee * 2
		}
		return 0
	}

	for _, tier := range tournamentPayouts {
		if rankFraction <= tier.RankFraction {
			return cs.contest.EntryFee * tier.Multiplier
		}
	}
	return 0
}
