package scoring

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-engine/pkg/logger"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

// Composer turns a player's raw attributes, a strategy tag and a
// contest type into the one scalar the optimizer maximizes. It writes
// OptimizationScore in place so callers can layer passes, never fails
// (missing attributes degrade to neutral defaults), and is idempotent
// for identical inputs.
type Composer struct {
	strategies map[string]Strategy
	log        *logrus.Entry
}

// NewComposer builds a composer over the built-in catalogue, with
// optional per-strategy overrides (typically from config).
func NewComposer(overrides map[string]Strategy) *Composer {
	strategies := make(map[string]Strategy, len(catalogue))
	for name, s := range catalogue {
		strategies[name] = s
	}
	for name, s := range overrides {
		s.Name = name
		strategies[name] = s
	}
	return &Composer{
		strategies: strategies,
		log:        logger.WithComponent("scoring"),
	}
}

// Compose scores every player in the pool for the given strategy and
// contest type. Aggregate statistics (the stack pre-pass) are computed
// once over the whole pool before the per-player pass, so the result
// never depends on iteration order.
func (c *Composer) Compose(pool []types.Player, strategyName string, contest types.ContestType) {
	strat, ok := c.strategies[strategyName]
	if !ok {
		c.log.WithFields(logrus.Fields{
			"strategy": strategyName,
			"fallback": DefaultStrategy,
		}).Warn("Unknown strategy, using fallback")
		strat = c.strategies[DefaultStrategy]
	}

	weights := strat.Cash
	if contest == types.ContestTournament {
		weights = strat.Tournament
	}

	boostTeams := map[string]bool{}
	if strat.StackBoost > 1 && strat.StackTeams > 0 {
		boostTeams = topProjectionTeams(pool, strat.StackTeams)
	}

	for i := range pool {
		score := scorePlayer(&pool[i], weights)
		if boostTeams[pool[i].Team] {
			score *= strat.StackBoost
		}
		if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
			score = 0
		}
		pool[i].OptimizationScore = score
	}
}

func scorePlayer(p *types.Player, w Weights) float64 {
	proj := p.Projection
	floor := p.Floor
	if floor <= 0 {
		floor = proj * 0.7
	}
	ceiling := p.Ceiling
	if ceiling <= 0 {
		ceiling = proj * 1.4
	}
	// Unowned players read as near-zero ownership, which is exactly
	// what leverage scoring wants.
	leverage := ceiling / (p.Ownership + 5.0)

	return w.Projection*proj +
		w.Floor*floor +
		w.Ceiling*ceiling +
		w.Leverage*leverage +
		w.Value*p.Value()
}

// topProjectionTeams returns the n teams with the highest average raw
// projection. Ties break by team name so the pre-pass is deterministic.
func topProjectionTeams(pool []types.Player, n int) map[string]bool {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range pool {
		if pool[i].Team == "" {
			continue
		}
		sums[pool[i].Team] += pool[i].Projection
		counts[pool[i].Team]++
	}

	type teamAvg struct {
		team string
		avg  float64
	}
	teams := make([]teamAvg, 0, len(sums))
	for team, sum := range sums {
		teams = append(teams, teamAvg{team: team, avg: sum / float64(counts[team])})
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].avg != teams[j].avg {
			return teams[i].avg > teams[j].avg
		}
		return teams[i].team < teams[j].team
	})

	top := make(map[string]bool, n)
	for i := 0; i < n && i < len(teams); i++ {
		top[teams[i].team] = true
	}
	return top
}
