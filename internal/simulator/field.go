package simulator

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/stitts-dev/lineup-engine/internal/optimizer"
	"github.com/stitts-dev/lineup-engine/pkg/logger"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

// tierWeight pairs a skill tier with its share of the opponent field.
type tierWeight struct {
	tier   types.SkillTier
	weight float64
}

// Cash fields are sharper than tournament fields.
var cashField = []tierWeight{
	{types.TierSharp, 0.08},
	{types.TierGood, 0.27},
	{types.TierAverage, 0.45},
	{types.TierWeak, 0.20},
}

var tournamentField = []tierWeight{
	{types.TierSharp, 0.05},
	{types.TierGood, 0.15},
	{types.TierAverage, 0.50},
	{types.TierWeak, 0.30},
}

// FieldGenerator builds the opponent entries for a simulated contest.
// It always delivers exactly the requested count: tier-specific builders
// first, a simple builder for stragglers, and duplication of existing
// entries as the last resort.
type FieldGenerator struct {
	pool  []types.Player
	rules types.RosterRules
	rng   *rand.Rand
	log   *logrus.Entry
}

// NewFieldGenerator validates the pool once up front so that Generate
// can rely on slot feasibility.
func NewFieldGenerator(pool []types.Player, rules types.RosterRules, seed uint64) (*FieldGenerator, error) {
	normalized := types.NormalizePool(pool)
	if err := optimizer.CheckPool(normalized, rules); err != nil {
		return nil, err
	}
	return &FieldGenerator{
		pool:  normalized,
		rules: rules,
		rng:   rand.New(rand.NewSource(seed)),
		log:   logger.WithComponent("field_generator"),
	}, nil
}

// Generate returns exactly fieldSize-1 opponent lineups for the given
// contest type. fieldSize must be at least 2.
func (g *FieldGenerator) Generate(contest types.ContestType, fieldSize int) ([]types.FieldLineup, error) {
	if fieldSize < 2 {
		return nil, fmt.Errorf("field size must be at least 2, got %d", fieldSize)
	}

	target := fieldSize - 1
	weights := tournamentField
	if contest == types.ContestCash {
		weights = cashField
	}

	field := make([]types.FieldLineup, 0, target)
	stats := map[string]int{}

	for i := 0; i < target; i++ {
		tier := g.pickTier(weights)
		lineup := g.buildTiered(tier)
		if lineup == nil {
			lineup = g.buildSimple()
			if lineup == nil {
				break
			}
			tier = types.TierFiller
			stats["simple_fallback"]++
		} else {
			stats[string(tier)]++
		}
		g.applySkillMultiplier(lineup, tier)
		field = append(field, types.FieldLineup{Lineup: *lineup, Skill: tier})
	}

	// Fill stragglers with simple lineups, then duplicates with
	// jittered projections so the count never comes up short.
	for attempts := 0; len(field) < target && attempts < target*2; attempts++ {
		lineup := g.buildSimple()
		if lineup == nil {
			break
		}
		lineup.TotalProjection *= g.uniform(0.85, 1.05)
		field = append(field, types.FieldLineup{Lineup: *lineup, Skill: types.TierFiller})
		stats["filler"]++
	}

	for len(field) < target {
		if len(field) == 0 {
			return nil, fmt.Errorf("could not build any field lineup from pool of %d players", len(g.pool))
		}
		base := field[g.rng.Intn(len(field))]
		dup := base.Lineup
		dup.Players = append([]types.Player(nil), base.Players...)
		dup.TotalProjection = base.TotalProjection * g.uniform(0.90, 1.10)
		field = append(field, types.FieldLineup{Lineup: dup, Skill: types.TierDuplicate})
		stats["duplicate"]++
	}

	g.log.WithFields(logrus.Fields{
		"contest_type": contest,
		"field_size":   fieldSize,
		"generated":    len(field),
		"stats":        stats,
	}).Debug("Generated contest field")

	return field, nil
}

func (g *FieldGenerator) pickTier(weights []tierWeight) types.SkillTier {
	roll := g.rng.Float64()
	cumulative := 0.0
	for _, tw := range weights {
		cumulative += tw.weight
		if roll < cumulative {
			return tw.tier
		}
	}
	return types.TierAverage
}

// skillRange maps a tier to the projection multiplier applied to its
// lineups. Sharp opponents beat their projections, weak ones fall well
// short.
func (g *FieldGenerator) applySkillMultiplier(lineup *types.Lineup, tier types.SkillTier) {
	var lo, hi float64
	switch tier {
	case types.TierSharp:
		lo, hi = 1.02, 1.08
	case types.TierGood:
		lo, hi = 0.98, 1.02
	case types.TierAverage:
		lo, hi = 0.92, 0.98
	case types.TierWeak:
		lo, hi = 0.75, 0.90
	case types.TierFiller:
		lo, hi = 0.85, 1.05
	default:
		lo, hi = 0.90, 1.10
	}
	lineup.TotalProjection *= g.uniform(lo, hi)
}

func (g *FieldGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// buildTiered builds a lineup the way a player of the given tier
// would: sharps blend projection and ceiling, good players chase
// projection, average players chase value with noise, weak players
// pick near-randomly. Returns nil when the greedy pass dead-ends.
func (g *FieldGenerator) buildTiered(tier types.SkillTier) *types.Lineup {
	var metric func(p *types.Player) float64
	var window int

	switch tier {
	case types.TierSharp:
		metric = func(p *types.Player) float64 { return p.Projection + 0.3*p.Ceiling }
		window = 3
	case types.TierGood:
		metric = func(p *types.Player) float64 { return p.Projection }
		window = 5
	case types.TierAverage:
		metric = func(p *types.Player) float64 { return p.Value() }
		window = 8
	default:
		// Weak players pick uniformly: no metric, shuffled candidates.
		metric = nil
		window = 1
	}

	return g.buildGreedy(metric, window)
}

// buildSimple fills each slot with the cheapest eligible player. With
// a pool that passed CheckPool this succeeds except under adversarial
// salary distributions, which the duplicate fallback then covers.
func (g *FieldGenerator) buildSimple() *types.Lineup {
	return g.buildGreedy(func(p *types.Player) float64 { return -float64(p.Salary) }, 1)
}

func (g *FieldGenerator) buildGreedy(metric func(p *types.Player) float64, window int) *types.Lineup {
	type slot struct {
		position string
		eligible []int
	}

	slots := make([]slot, 0, g.rules.RosterSize())
	for _, req := range g.rules.Slots {
		eligible := make([]int, 0, len(g.pool))
		for i := range g.pool {
			if g.pool[i].CanPlay(req.Position) {
				eligible = append(eligible, i)
			}
		}
		for c := 0; c < req.Count; c++ {
			slots = append(slots, slot{position: req.Position, eligible: eligible})
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return len(slots[i].eligible) < len(slots[j].eligible)
	})

	used := make(map[string]bool, len(slots))
	teamCounts := make(map[string]int)
	picked := make([]types.Player, 0, len(slots))
	salary := 0

	for si, s := range slots {
		// Keep enough budget for the cheapest fill of later slots.
		reserve := 0
		for _, later := range slots[si+1:] {
			cheapest := -1
			for _, idx := range later.eligible {
				p := &g.pool[idx]
				if used[p.ID] {
					continue
				}
				if cheapest < 0 || p.Salary < cheapest {
					cheapest = p.Salary
				}
			}
			if cheapest < 0 {
				return nil
			}
			reserve += cheapest
		}

		candidates := make([]int, 0, len(s.eligible))
		for _, idx := range s.eligible {
			p := &g.pool[idx]
			if used[p.ID] {
				continue
			}
			if salary+p.Salary+reserve > g.rules.SalaryCap {
				continue
			}
			if g.rules.MaxPerTeam > 0 && teamCounts[p.Team] >= g.rules.MaxPerTeam {
				continue
			}
			candidates = append(candidates, idx)
		}
		if len(candidates) == 0 {
			return nil
		}

		if metric == nil {
			g.rng.Shuffle(len(candidates), func(i, j int) {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			})
		} else {
			sort.Slice(candidates, func(i, j int) bool {
				return metric(&g.pool[candidates[i]]) > metric(&g.pool[candidates[j]])
			})
		}
		top := window
		if top > len(candidates) {
			top = len(candidates)
		}
		choice := g.pool[candidates[g.rng.Intn(top)]]

		used[choice.ID] = true
		teamCounts[choice.Team]++
		salary += choice.Salary
		picked = append(picked, choice)
	}

	lineup := &types.Lineup{
		Players:     picked,
		TotalSalary: salary,
	}
	for i := range picked {
		lineup.TotalProjection += picked[i].Projection
	}
	return lineup
}
