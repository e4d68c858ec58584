package diversity

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-engine/internal/optimizer"
	"github.com/stitts-dev/lineup-engine/pkg/logger"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

const (
	// DefaultPenalty is the multiplicative score penalty applied to
	// every player already used in an earlier lineup. Escalates
	// geometrically on retry.
	DefaultPenalty = 0.8

	// DefaultMaxRetries bounds escalation attempts per lineup before
	// the request is reported short instead of looping forever.
	DefaultMaxRetries = 4
)

// Params configure one multi-lineup generation request.
type Params struct {
	NumLineups int
	// MinUnique is the minimum number of players any two returned
	// lineups must differ by. Checked pairwise against every accepted
	// lineup, not just the previous one: penalizing only the last
	// lineup's players can reproduce an earlier lineup.
	MinUnique   int
	BasePenalty float64
	MaxRetries  int
	Solver      optimizer.Options
}

// ExhaustedSignal reports a non-fatal diversity shortfall: fewer
// lineups than requested could be generated within the retry bounds.
type ExhaustedSignal struct {
	Requested int
	Produced  int
}

func (e *ExhaustedSignal) String() string {
	return fmt.Sprintf("diversity exhausted: requested %d lineups, produced %d", e.Requested, e.Produced)
}

// Result is an ordered list of feasible lineups, in strict generation
// order, each pair differing by at least MinUnique players. Exhausted
// is non-nil when the list is shorter than requested.
type Result struct {
	Lineups   []types.Lineup
	Requested int
	Exhausted *ExhaustedSignal
}

// Generate produces up to params.NumLineups diverse lineups. The first
// solve's feasibility errors propagate; running out of diverse
// alternatives later is a partial result, not an error. The pool is
// never mutated: penalties travel through solver options.
func Generate(pool []types.Player, rules types.RosterRules, params Params) (*Result, error) {
	if params.NumLineups <= 0 {
		return &Result{Requested: params.NumLineups}, nil
	}
	if params.BasePenalty <= 0 || params.BasePenalty >= 1 {
		params.BasePenalty = DefaultPenalty
	}
	if params.MaxRetries <= 0 {
		params.MaxRetries = DefaultMaxRetries
	}

	log := logger.WithComponent("diversity").WithFields(logrus.Fields{
		"num_lineups": params.NumLineups,
		"min_unique":  params.MinUnique,
	})

	result := &Result{Requested: params.NumLineups}
	usage := make(map[string]int)

	first, err := optimizer.Solve(pool, rules, params.Solver)
	if err != nil {
		return nil, err
	}
	accept(result, usage, first)

	for len(result.Lineups) < params.NumLineups {
		lineup, ok := nextDiverse(pool, rules, params, result.Lineups, usage, log)
		if !ok {
			result.Exhausted = &ExhaustedSignal{
				Requested: params.NumLineups,
				Produced:  len(result.Lineups),
			}
			log.WithFields(logrus.Fields{
				"requested": result.Exhausted.Requested,
				"produced":  result.Exhausted.Produced,
			}).Warn("Diversity retries exhausted, returning partial result")
			break
		}
		accept(result, usage, lineup)
	}

	return result, nil
}

func accept(result *Result, usage map[string]int, lineup *types.Lineup) {
	result.Lineups = append(result.Lineups, *lineup)
	for _, p := range lineup.Players {
		usage[p.ID]++
	}
}

// nextDiverse escalates the penalty each attempt and, on the final
// attempt, also hard-excludes the most reused players.
func nextDiverse(pool []types.Player, rules types.RosterRules, params Params,
	accepted []types.Lineup, usage map[string]int, log *logrus.Entry) (*types.Lineup, bool) {

	maxShared := rules.RosterSize() - params.MinUnique

	for attempt := 0; attempt < params.MaxRetries; attempt++ {
		opts := params.Solver
		penalty := math.Pow(params.BasePenalty, float64(attempt+1))

		opts.Penalties = make(map[string]float64, len(usage)+len(params.Solver.Penalties))
		for id, mult := range params.Solver.Penalties {
			opts.Penalties[id] = mult
		}
		for id := range usage {
			opts.Penalties[id] = penalty
		}

		if attempt == params.MaxRetries-1 && params.MinUnique > 0 {
			opts.Forbidden = mergeForbidden(params.Solver.Forbidden, mostUsed(usage, params.MinUnique))
		}

		lineup, err := optimizer.Solve(pool, rules, opts)
		if err != nil {
			// Exclusions can make the reduced pool infeasible; that is
			// an exhaustion signal for this attempt, not a fatal error.
			log.WithError(err).WithField("attempt", attempt+1).Debug("Penalized solve failed")
			continue
		}

		if worstShared(lineup, accepted) <= maxShared {
			return lineup, true
		}
		log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"penalty": penalty,
		}).Debug("Lineup overlapped too much, escalating penalty")
	}
	return nil, false
}

func worstShared(lineup *types.Lineup, accepted []types.Lineup) int {
	worst := 0
	for i := range accepted {
		if shared := lineup.Overlap(&accepted[i]); shared > worst {
			worst = shared
		}
	}
	return worst
}

// mostUsed returns the n players appearing in the most accepted
// lineups, ties broken by ID for determinism.
func mostUsed(usage map[string]int, n int) map[string]bool {
	ids := make([]string, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if usage[ids[i]] != usage[ids[j]] {
			return usage[ids[i]] > usage[ids[j]]
		}
		return ids[i] < ids[j]
	})
	out := make(map[string]bool, n)
	for i := 0; i < n && i < len(ids); i++ {
		out[ids[i]] = true
	}
	return out
}

func mergeForbidden(base, extra map[string]bool) map[string]bool {
	merged := make(map[string]bool, len(base)+len(extra))
	for id := range base {
		merged[id] = true
	}
	for id := range extra {
		merged[id] = true
	}
	return merged
}
