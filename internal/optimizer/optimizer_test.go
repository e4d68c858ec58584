package optimizer

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/lineup-engine/pkg/types"
)

func mkPlayer(id, team string, positions []string, salary int, score float64) types.Player {
	return types.Player{
		ID:                id,
		Name:              id,
		Team:              team,
		Positions:         positions,
		PrimaryPosition:   positions[0],
		Salary:            salary,
		Projection:        score,
		OptimizationScore: score,
	}
}

func smallRules() types.RosterRules {
	return types.RosterRules{
		Slots: []types.SlotRequirement{
			{Position: "P", Count: 1},
			{Position: "C", Count: 1},
			{Position: "OF", Count: 2},
		},
		SalaryCap:  18000,
		MaxPerTeam: 3,
	}
}

func smallPool() []types.Player {
	return []types.Player{
		mkPlayer("p1", "TEX", []string{"P"}, 6000, 34),
		mkPlayer("p2", "NYY", []string{"P"}, 4500, 22),
		mkPlayer("p3", "BOS", []string{"P"}, 3500, 15),
		mkPlayer("c1", "LAD", []string{"C"}, 4000, 18),
		mkPlayer("c2", "SF", []string{"C"}, 3000, 12),
		mkPlayer("o1", "LAD", []string{"OF"}, 5500, 25),
		mkPlayer("o2", "NYY", []string{"OF"}, 5000, 23),
		mkPlayer("o3", "SEA", []string{"OF"}, 4000, 17),
		mkPlayer("o4", "SEA", []string{"OF"}, 3000, 10),
		mkPlayer("m1", "HOU", []string{"C", "OF"}, 3800, 16),
	}
}

// bruteForceBest enumerates every size-4 subset and returns the highest
// total score among legal lineups.
func bruteForceBest(pool []types.Player, rules types.RosterRules) float64 {
	best := -1.0
	n := len(pool)
	size := rules.RosterSize()

	var recurse func(start int, chosen []types.Player)
	recurse = func(start int, chosen []types.Player) {
		if len(chosen) == size {
			if ValidateLineup(chosen, rules) != nil {
				return
			}
			total := 0.0
			for _, p := range chosen {
				total += p.OptimizationScore
			}
			if total > best {
				best = total
			}
			return
		}
		for i := start; i < n; i++ {
			recurse(i+1, append(chosen, pool[i]))
		}
	}
	recurse(0, nil)
	return best
}

func TestSolve_MatchesBruteForce(t *testing.T) {
	pool := smallPool()
	rules := smallRules()

	lineup, err := Solve(pool, rules, Options{})
	require.NoError(t, err)

	assert.InDelta(t, bruteForceBest(pool, rules), lineup.TotalScore, 0.001)
	assert.False(t, lineup.Heuristic)
	assert.NoError(t, ValidateLineup(lineup.Players, rules))
	assert.Len(t, lineup.SlotAssignments, 4)
}

func TestSolve_RespectsMinSalary(t *testing.T) {
	pool := smallPool()
	rules := smallRules()
	rules.MinSalary = 17000

	lineup, err := Solve(pool, rules, Options{})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, lineup.TotalSalary, rules.MinSalary)
	assert.LessOrEqual(t, lineup.TotalSalary, rules.SalaryCap)
}

func TestSolve_RespectsMaxPerTeam(t *testing.T) {
	rules := smallRules()
	rules.MaxPerTeam = 1

	lineup, err := Solve(smallPool(), rules, Options{})
	require.NoError(t, err)

	teams := map[string]int{}
	for _, p := range lineup.Players {
		teams[p.Team]++
		assert.LessOrEqual(t, teams[p.Team], 1)
	}
}

func TestSolve_Deterministic(t *testing.T) {
	pool := smallPool()
	rules := smallRules()

	first, err := Solve(pool, rules, Options{})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		next, err := Solve(pool, rules, Options{})
		require.NoError(t, err)
		assert.Equal(t, sortedIDs(first), sortedIDs(next))
		assert.Equal(t, first.TotalScore, next.TotalScore)
	}
}

func TestSolve_MinimalFeasiblePool(t *testing.T) {
	// Exactly one player per slot: the only legal roster must come back.
	pool := []types.Player{
		mkPlayer("p1", "TEX", []string{"P"}, 6000, 30),
		mkPlayer("c1", "LAD", []string{"C"}, 4000, 18),
		mkPlayer("o1", "NYY", []string{"OF"}, 5500, 25),
		mkPlayer("o2", "SEA", []string{"OF"}, 2000, 5),
	}

	lineup, err := Solve(pool, smallRules(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "o1", "o2", "p1"}, sortedIDs(lineup))
	assert.Equal(t, 17500, lineup.TotalSalary)
	assert.InDelta(t, 78.0, lineup.TotalScore, 0.001)
}

func TestSolve_InsufficientPool(t *testing.T) {
	pool := []types.Player{
		mkPlayer("p1", "TEX", []string{"P"}, 6000, 30),
		mkPlayer("o1", "LAD", []string{"OF"}, 5500, 25),
		mkPlayer("o2", "NYY", []string{"OF"}, 5000, 23),
		mkPlayer("o3", "SEA", []string{"OF"}, 4000, 17),
	}

	_, err := Solve(pool, smallRules(), Options{})
	var poolErr *InsufficientPoolError
	require.ErrorAs(t, err, &poolErr)
	assert.Equal(t, "C", poolErr.Position)
	assert.Contains(t, err.Error(), "C")
}

func TestSolve_NoFeasibleLineup(t *testing.T) {
	rules := smallRules()
	rules.SalaryCap = 12000 // cheapest legal roster costs 13300

	_, err := Solve(smallPool(), rules, Options{})
	var feasErr *NoFeasibleLineupError
	require.ErrorAs(t, err, &feasErr)
	assert.Equal(t, 12000, feasErr.SalaryCap)
}

func TestSolve_DoesNotMutatePool(t *testing.T) {
	pool := smallPool()
	snapshot := append([]types.Player(nil), pool...)

	_, err := Solve(pool, smallRules(), Options{
		Penalties: map[string]float64{"p1": 0.5, "o1": 0.5},
		Forbidden: map[string]bool{"o2": true},
	})
	require.NoError(t, err)
	assert.Equal(t, snapshot, pool)
}

func TestSolve_ForbiddenPlayersExcluded(t *testing.T) {
	lineup, err := Solve(smallPool(), smallRules(), Options{
		Forbidden: map[string]bool{"p1": true, "o1": true},
	})
	require.NoError(t, err)

	ids := lineup.PlayerIDSet()
	assert.False(t, ids["p1"])
	assert.False(t, ids["o1"])
}

func TestSolve_PenaltyChangesSelectionButNotReportedScore(t *testing.T) {
	pool := smallPool()
	rules := smallRules()

	base, err := Solve(pool, rules, Options{})
	require.NoError(t, err)
	require.True(t, base.PlayerIDSet()["p1"])

	penalized, err := Solve(pool, rules, Options{
		Penalties: map[string]float64{"p1": 0.01},
	})
	require.NoError(t, err)
	assert.False(t, penalized.PlayerIDSet()["p1"])

	// Reported score sums unpenalized optimization scores.
	expected := 0.0
	for _, p := range penalized.Players {
		expected += p.OptimizationScore
	}
	assert.InDelta(t, expected, penalized.TotalScore, 0.001)
}

func TestSolve_TargetSalaryPullsSpendUp(t *testing.T) {
	pool := smallPool()
	rules := smallRules()

	cheap, err := Solve(pool, rules, Options{})
	require.NoError(t, err)

	spendy, err := Solve(pool, rules, Options{
		TargetSalary:       rules.SalaryCap,
		TargetSalaryWeight: 100, // dominate the objective
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, spendy.TotalSalary, cheap.TotalSalary)
}

func TestSolve_GreedyFallbackOnTimeout(t *testing.T) {
	var pool []types.Player
	teams := []string{"LAD", "NYY", "HOU", "ATL", "SEA", "TEX"}
	positions := []string{"P", "P", "C", "1B", "2B", "3B", "SS", "OF", "OF", "OF"}
	id := 0
	for i := 0; i < 6; i++ {
		for _, pos := range positions {
			id++
			pool = append(pool, mkPlayer(
				fmt.Sprintf("pl%02d", id),
				teams[id%len(teams)],
				[]string{pos},
				3000+(id%7)*800,
				float64(5+id%13),
			))
		}
	}

	rules := types.ClassicRules()
	rules.MinSalary = 0

	lineup, err := Solve(pool, rules, Options{Timeout: time.Nanosecond})
	require.NoError(t, err)

	assert.True(t, lineup.Heuristic)
	assert.NoError(t, ValidateLineup(lineup.Players, rules))
}

func TestSolve_TimeoutErrorNotExposed(t *testing.T) {
	// The sentinel stays internal even on fallback paths.
	_, err := Solve(nil, smallRules(), Options{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, errSolveTimeout))
}

func sortedIDs(l *types.Lineup) []string {
	ids := make([]string, 0, len(l.Players))
	for _, p := range l.Players {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}
