package optimizer

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-engine/pkg/logger"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

// DefaultTimeout bounds one exact solve. Past this budget the greedy
// fallback takes over and the result is flagged heuristic.
const DefaultTimeout = 5 * time.Second

// DefaultTargetSalaryWeight is the objective cost, in score points per
// $1000, of finishing below a soft salary target.
const DefaultTargetSalaryWeight = 0.5

// Options tune a single optimization call. The zero value asks for the
// plain optimum under the roster rules.
type Options struct {
	// Forbidden players are excluded from the candidate set entirely.
	Forbidden map[string]bool

	// Penalties multiplies a player's score in the objective only; the
	// caller's pool is never modified. Used by the diversity
	// controller between successive calls.
	Penalties map[string]float64

	// TargetSalary is a per-strategy soft spend target. Lineups under
	// it lose TargetSalaryWeight points per $1000 of shortfall in the
	// objective; it is never a hard constraint. 0 disables.
	TargetSalary       int
	TargetSalaryWeight float64

	// Timeout bounds the exact solve; 0 means DefaultTimeout.
	Timeout time.Duration
}

// Solve maximizes total optimization score over all legal lineups for
// the rules. The input pool is read-only: scores, penalties and all
// bookkeeping happen on a private candidate list.
//
// Failures are typed: *InsufficientPoolError when some position cannot
// be covered at all, *NoFeasibleLineupError when coverage exists but no
// combination satisfies the salary and team constraints.
func Solve(pool []types.Player, rules types.RosterRules, opts Options) (*types.Lineup, error) {
	optimizationID := uuid.New().String()
	log := logger.WithComponent("optimizer").WithField("optimization_id", optimizationID)

	if err := CheckPool(pool, rules); err != nil {
		log.WithError(err).Warn("Pool failed preflight check")
		return nil, err
	}

	cands := buildCandidates(pool, opts)
	if err := checkCandidates(cands, rules); err != nil {
		log.WithError(err).Warn("Candidate set failed preflight check after exclusions")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"pool_size":     len(pool),
		"candidates":    len(cands),
		"roster_size":   rules.RosterSize(),
		"salary_cap":    rules.SalaryCap,
		"target_salary": opts.TargetSalary,
	}).Debug("Starting lineup solve")

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	targetWt := opts.TargetSalaryWeight
	if targetWt == 0 {
		targetWt = DefaultTargetSalaryWeight
	}
	deadline := time.Now().Add(timeout)

	chosen, _, err := solveExact(cands, rules, opts.TargetSalary, targetWt, deadline)
	heuristic := false
	if errors.Is(err, errSolveTimeout) {
		log.WithField("timeout", timeout).Warn("Exact solver timed out, falling back to greedy fill")
		chosen, err = solveGreedy(cands, rules)
		heuristic = true
	}
	if err != nil {
		return nil, err
	}

	lineup := assembleLineup(cands, chosen, rules, heuristic)
	log.WithFields(logrus.Fields{
		"total_salary": lineup.TotalSalary,
		"total_score":  lineup.TotalScore,
		"heuristic":    lineup.Heuristic,
	}).Info("Lineup solve complete")
	return lineup, nil
}

// buildCandidates filters the pool down to optimizable, non-forbidden
// players and applies penalty multipliers to a private score copy.
func buildCandidates(pool []types.Player, opts Options) []candidate {
	cands := make([]candidate, 0, len(pool))
	for i := range pool {
		p := pool[i]
		if !p.Optimizable() {
			continue
		}
		if opts.Forbidden[p.ID] {
			continue
		}
		score := p.OptimizationScore
		if mult, ok := opts.Penalties[p.ID]; ok {
			score *= mult
		}
		cands = append(cands, candidate{player: p, score: score})
	}
	return cands
}

// checkCandidates re-runs the position sufficiency check against the
// filtered candidate set, so forbidding players can surface as an
// insufficient pool instead of a mysterious infeasibility.
func checkCandidates(cands []candidate, rules types.RosterRules) error {
	for _, req := range rules.Slots {
		count := 0
		for i := range cands {
			if cands[i].player.CanPlay(req.Position) {
				count++
			}
		}
		if count < req.Count {
			return &InsufficientPoolError{Position: req.Position, Required: req.Count, Available: count}
		}
	}
	return nil
}

// assembleLineup builds the immutable result. Totals use the caller's
// unpenalized scores, so diversity penalties never leak into reported
// lineup quality.
func assembleLineup(cands []candidate, chosen []int, rules types.RosterRules, heuristic bool) *types.Lineup {
	players := make([]types.Player, 0, len(chosen))
	totalSalary := 0
	totalScore := 0.0
	totalProj := 0.0
	for _, ci := range chosen {
		p := cands[ci].player
		players = append(players, p)
		totalSalary += p.Salary
		totalScore += p.OptimizationScore
		totalProj += p.Projection
	}

	id := "lineup_" + uuid.New().String()[:8]

	assignment, ok := AssignSlots(players, rules)
	if !ok {
		logger.WithComponent("optimizer").WithField("lineup_id", id).
			Error("Solved roster does not cover the slot requirements")
	}

	return &types.Lineup{
		ID:              id,
		Players:         players,
		SlotAssignments: assignment,
		TotalSalary:     totalSalary,
		TotalScore:      totalScore,
		TotalProjection: totalProj,
		Heuristic:       heuristic,
	}
}
