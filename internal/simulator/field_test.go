package simulator

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/lineup-engine/internal/optimizer"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

func mkPlayer(id, team, position string, salary int, projection float64) types.Player {
	return types.Player{
		ID:                id,
		Name:              id,
		Team:              team,
		Positions:         []string{position},
		PrimaryPosition:   position,
		Salary:            salary,
		Projection:        projection,
		OptimizationScore: projection,
	}
}

func fieldRules() types.RosterRules {
	return types.RosterRules{
		Slots: []types.SlotRequirement{
			{Position: "P", Count: 1},
			{Position: "C", Count: 1},
			{Position: "OF", Count: 2},
		},
		SalaryCap: 20000,
	}
}

func fieldPool() []types.Player {
	teams := []string{"LAD", "NYY", "HOU", "ATL", "SEA", "TEX"}
	var pool []types.Player
	for i := 0; i < 5; i++ {
		pool = append(pool,
			mkPlayer(fmt.Sprintf("p%d", i), teams[i%len(teams)], "P", 3500+i*400, 18-float64(i)),
			mkPlayer(fmt.Sprintf("c%d", i), teams[(i+3)%len(teams)], "C", 3200+i*350, 12-float64(i)))
	}
	for i := 0; i < 10; i++ {
		pool = append(pool,
			mkPlayer(fmt.Sprintf("o%d", i), teams[i%len(teams)], "OF", 3000+i*300, 15-float64(i)))
	}
	return pool
}

func TestGenerate_ExactFieldSize(t *testing.T) {
	for _, contest := range []types.ContestType{types.ContestCash, types.ContestTournament} {
		for _, fieldSize := range []int{10, 100, 1000} {
			gen, err := NewFieldGenerator(fieldPool(), fieldRules(), 42)
			require.NoError(t, err)

			field, err := gen.Generate(contest, fieldSize)
			require.NoError(t, err)
			assert.Len(t, field, fieldSize-1, "%s field of %d", contest, fieldSize)
		}
	}
}

func TestGenerate_MinimalPoolStillFillsField(t *testing.T) {
	// Pool of exactly roster size: every entry is the same roster, so
	// the generator has to lean on duplication to hit the count.
	pool := []types.Player{
		mkPlayer("p0", "LAD", "P", 4000, 18),
		mkPlayer("c0", "NYY", "C", 3500, 12),
		mkPlayer("o0", "HOU", "OF", 3500, 15),
		mkPlayer("o1", "ATL", "OF", 3500, 14),
	}

	gen, err := NewFieldGenerator(pool, fieldRules(), 7)
	require.NoError(t, err)

	field, err := gen.Generate(types.ContestTournament, 50)
	require.NoError(t, err)
	assert.Len(t, field, 49)
}

func TestGenerate_RejectsTinyField(t *testing.T) {
	gen, err := NewFieldGenerator(fieldPool(), fieldRules(), 1)
	require.NoError(t, err)

	_, err = gen.Generate(types.ContestCash, 1)
	assert.Error(t, err)
}

func TestNewFieldGenerator_RejectsShortPool(t *testing.T) {
	pool := []types.Player{mkPlayer("p0", "LAD", "P", 4000, 18)}
	_, err := NewFieldGenerator(pool, fieldRules(), 1)

	var poolErr *optimizer.InsufficientPoolError
	require.ErrorAs(t, err, &poolErr)
}

func TestGenerate_LineupsAreLegalRosters(t *testing.T) {
	rules := fieldRules()
	gen, err := NewFieldGenerator(fieldPool(), rules, 11)
	require.NoError(t, err)

	field, err := gen.Generate(types.ContestTournament, 100)
	require.NoError(t, err)

	for i, fl := range field {
		assert.NoError(t, optimizer.ValidateLineup(fl.Players, rules), "field lineup %d", i)
		assert.NotEmpty(t, fl.Skill, "field lineup %d", i)
		assert.Greater(t, fl.TotalProjection, 0.0, "field lineup %d", i)
	}
}

func TestBuildTiered_WeakTierVariesLegalRosters(t *testing.T) {
	rules := fieldRules()
	gen, err := NewFieldGenerator(fieldPool(), rules, 17)
	require.NoError(t, err)

	rosters := map[string]bool{}
	for i := 0; i < 50; i++ {
		lineup := gen.buildTiered(types.TierWeak)
		require.NotNil(t, lineup)
		require.NoError(t, optimizer.ValidateLineup(lineup.Players, rules))

		ids := make([]string, 0, len(lineup.Players))
		for _, p := range lineup.Players {
			ids = append(ids, p.ID)
		}
		sort.Strings(ids)
		rosters[strings.Join(ids, ",")] = true
	}
	assert.Greater(t, len(rosters), 1, "weak builds should not collapse to one roster")
}

func TestGenerate_SkillTiersSpreadInLargeField(t *testing.T) {
	gen, err := NewFieldGenerator(fieldPool(), fieldRules(), 3)
	require.NoError(t, err)

	field, err := gen.Generate(types.ContestTournament, 1000)
	require.NoError(t, err)

	tiers := map[types.SkillTier]int{}
	for _, fl := range field {
		tiers[fl.Skill]++
	}

	// 5/15/50/30 split; a 999-entry field should show every core tier.
	for _, tier := range []types.SkillTier{types.TierSharp, types.TierGood, types.TierAverage, types.TierWeak} {
		assert.Greater(t, tiers[tier], 0, string(tier))
	}
	assert.Greater(t, tiers[types.TierAverage], tiers[types.TierSharp])
}

func TestGenerate_SeedReproducible(t *testing.T) {
	genA, err := NewFieldGenerator(fieldPool(), fieldRules(), 99)
	require.NoError(t, err)
	genB, err := NewFieldGenerator(fieldPool(), fieldRules(), 99)
	require.NoError(t, err)

	fieldA, err := genA.Generate(types.ContestCash, 100)
	require.NoError(t, err)
	fieldB, err := genB.Generate(types.ContestCash, 100)
	require.NoError(t, err)

	require.Equal(t, len(fieldA), len(fieldB))
	for i := range fieldA {
		assert.Equal(t, fieldA[i].Skill, fieldB[i].Skill, "entry %d", i)
		assert.Equal(t, fieldA[i].PlayerIDSet(), fieldB[i].PlayerIDSet(), "entry %d", i)
	}
}
