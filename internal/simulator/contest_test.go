package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/lineup-engine/pkg/types"
)

func TestPayoutFor_CashDoublesTopHalf(t *testing.T) {
	cs := NewContestSimulator(Contest{
		Type:      types.ContestCash,
		FieldSize: 100,
		EntryFee:  10,
	}, nil, nil)

	assert.Equal(t, 20.0, cs.payoutFor(1, 100))
	assert.Equal(t, 20.0, cs.payoutFor(44, 100))
	assert.Equal(t, 0.0, cs.payoutFor(45, 100))
	assert.Equal(t, 0.0, cs.payoutFor(100, 100))
}

func TestPayoutFor_TournamentTopHeavy(t *testing.T) {
	cs := NewContestSimulator(Contest{
		Type:      types.ContestTournament,
		FieldSize: 1000,
		EntryFee:  3,
	}, nil, nil)

	assert.Equal(t, 30.0, cs.payoutFor(1, 1000))   // top 1%: 10x
	assert.Equal(t, 15.0, cs.payoutFor(50, 1000))  // top 5%: 5x
	assert.Equal(t, 9.0, cs.payoutFor(100, 1000))  // top 10%: 3x
	assert.Equal(t, 6.0, cs.payoutFor(200, 1000))  // top 20%: 2x
	assert.Equal(t, 4.5, cs.payoutFor(300, 1000))  // top 30%: 1.5x
	assert.Equal(t, 3.6, cs.payoutFor(400, 1000))  // top 40%: 1.2x
	assert.Equal(t, 0.0, cs.payoutFor(401, 1000))
	assert.Equal(t, 0.0, cs.payoutFor(1000, 1000))
}

func TestRun_DominantLineupWins(t *testing.T) {
	// Field projections are so low that even a clamped-down user score
	// beats a clamped-up field score.
	var field []types.FieldLineup
	for i := 0; i < 9; i++ {
		field = append(field, types.FieldLineup{
			Lineup: types.Lineup{TotalProjection: 10},
			Skill:  types.TierAverage,
		})
	}

	contest := Contest{Type: types.ContestTournament, FieldSize: 10, EntryFee: 3}
	cs := NewContestSimulator(contest, field, NewScoreModel(DefaultScoreParams(), 1))

	user := &types.Lineup{
		Players:         []types.Player{{ID: "u1", Team: "LAD", Opponent: "SF", Projection: 1000}},
		TotalProjection: 1000,
	}

	result := cs.Run(user)
	assert.Equal(t, 1, result.Rank)
	assert.Equal(t, 90.0, result.Percentile)
	// rank 1 of 10 lands in the top-10% tier
	assert.Equal(t, 9.0, result.Payout)
	assert.InDelta(t, 200.0, result.ROI, 0.001)
}

func TestRunSeries_Aggregates(t *testing.T) {
	gen, err := NewFieldGenerator(fieldPool(), fieldRules(), 21)
	require.NoError(t, err)
	field, err := gen.Generate(types.ContestCash, 50)
	require.NoError(t, err)

	contest := Contest{Type: types.ContestCash, FieldSize: 50, EntryFee: 10}
	cs := NewContestSimulator(contest, field, NewScoreModel(DefaultScoreParams(), 22))

	user := &types.Lineup{
		Players: []types.Player{
			{ID: "u1", Team: "LAD", Opponent: "SF", Projection: 15},
			{ID: "u2", Team: "NYY", Opponent: "BOS", Projection: 15},
			{ID: "u3", Team: "HOU", Opponent: "SEA", Projection: 15},
			{ID: "u4", Team: "ATL", Opponent: "MIA", Projection: 15},
		},
		TotalProjection: 60,
	}

	series := cs.RunSeries(user, 500)
	assert.Equal(t, 500, series.Iterations)
	assert.Greater(t, series.MeanScore, 0.0)
	assert.Greater(t, series.ScoreStdDev, 0.0)
	assert.GreaterOrEqual(t, series.CashRate, 0.0)
	assert.LessOrEqual(t, series.CashRate, 1.0)
	assert.GreaterOrEqual(t, series.WinRate, 0.0)
	assert.LessOrEqual(t, series.WinRate, series.CashRate+1e-9)
}

func TestRunSeries_ZeroIterationsRunsOnce(t *testing.T) {
	contest := Contest{Type: types.ContestCash, FieldSize: 2, EntryFee: 1}
	cs := NewContestSimulator(contest, []types.FieldLineup{
		{Lineup: types.Lineup{TotalProjection: 10}},
	}, NewScoreModel(DefaultScoreParams(), 30))

	series := cs.RunSeries(&types.Lineup{TotalProjection: 10, Players: []types.Player{{ID: "x"}}}, 0)
	assert.Equal(t, 1, series.Iterations)
}
