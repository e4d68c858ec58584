package optimizer

import (
	"errors"
	"sort"
	"time"

	"github.com/stitts-dev/lineup-engine/pkg/types"
)

var errSolveTimeout = errors.New("exact solver exceeded its time budget")

// candidate is a pool player with its effective objective score (the
// optimization score after any diversity penalty multiplier).
type candidate struct {
	player types.Player
	score  float64
}

// slotGroup is one position requirement with its eligible candidates,
// sorted by effective score descending.
type slotGroup struct {
	position string
	count    int
	eligible []int // candidate indices

	// prefix sums over the sorted eligible list, used for bounds
	topScore  []float64 // topScore[k] = sum of k best scores
	minSalary []int     // minSalary[k] = sum of k cheapest salaries
	maxSalary []int     // maxSalary[k] = sum of k most expensive salaries
}

type exactSolver struct {
	cands    []candidate
	groups   []slotGroup
	rules    types.RosterRules
	target   int     // soft salary target, 0 disables
	targetWt float64 // objective points lost per $1000 below target
	deadline time.Time

	used      []bool
	teamCount map[string]int
	choice    []int // flat list of chosen candidate indices

	bestSet   []int
	bestObj   float64
	bestFound bool
	nodes     uint64
}

// solveExact finds the provably optimal feasible selection, one
// candidate per roster slot, maximizing total effective score minus the
// soft target-salary shortfall penalty. Ties between equally optimal
// selections break arbitrarily (the objective value is deterministic,
// the chosen players need not be). Returns errSolveTimeout when the
// deadline passes before the search space is exhausted.
func solveExact(cands []candidate, rules types.RosterRules, target int, targetWt float64, deadline time.Time) ([]int, float64, error) {
	s := &exactSolver{
		cands:     cands,
		rules:     rules,
		target:    target,
		targetWt:  targetWt,
		deadline:  deadline,
		used:      make([]bool, len(cands)),
		teamCount: make(map[string]int),
	}
	s.buildGroups()

	if err := s.search(0, 0, 0.0); err != nil {
		return nil, 0, err
	}
	if !s.bestFound {
		return nil, 0, &NoFeasibleLineupError{SalaryCap: rules.SalaryCap, MinSalary: rules.MinSalary}
	}
	return s.bestSet, s.bestObj, nil
}

func (s *exactSolver) buildGroups() {
	groups := make([]slotGroup, 0, len(s.rules.Slots))
	for _, req := range s.rules.Slots {
		g := slotGroup{position: req.Position, count: req.Count}
		for i := range s.cands {
			if s.cands[i].player.CanPlay(req.Position) {
				g.eligible = append(g.eligible, i)
			}
		}
		// Best score first; salary then ID as deterministic tie-breaks.
		sort.Slice(g.eligible, func(a, b int) bool {
			ca, cb := s.cands[g.eligible[a]], s.cands[g.eligible[b]]
			if ca.score != cb.score {
				return ca.score > cb.score
			}
			if ca.player.Salary != cb.player.Salary {
				return ca.player.Salary < cb.player.Salary
			}
			return ca.player.ID < cb.player.ID
		})

		g.topScore = make([]float64, g.count+1)
		for k := 1; k <= g.count && k <= len(g.eligible); k++ {
			g.topScore[k] = g.topScore[k-1] + s.cands[g.eligible[k-1]].score
		}

		salaries := make([]int, len(g.eligible))
		for i, ci := range g.eligible {
			salaries[i] = s.cands[ci].player.Salary
		}
		sort.Ints(salaries)
		g.minSalary = make([]int, g.count+1)
		g.maxSalary = make([]int, g.count+1)
		for k := 1; k <= g.count && k <= len(salaries); k++ {
			g.minSalary[k] = g.minSalary[k-1] + salaries[k-1]
			g.maxSalary[k] = g.maxSalary[k-1] + salaries[len(salaries)-k]
		}
		groups = append(groups, g)
	}

	// Scarcest groups first so infeasible branches die early.
	sort.SliceStable(groups, func(a, b int) bool {
		return len(groups[a].eligible)-groups[a].count < len(groups[b].eligible)-groups[b].count
	})
	s.groups = groups
}

// remainingBound is an optimistic score bound for groups gi.. ignoring
// cross-group player reuse; an overestimate never prunes the optimum.
func (s *exactSolver) remainingBound(gi int) float64 {
	bound := 0.0
	for i := gi; i < len(s.groups); i++ {
		bound += s.groups[i].topScore[s.groups[i].count]
	}
	return bound
}

func (s *exactSolver) remainingMinSalary(gi int) int {
	total := 0
	for i := gi; i < len(s.groups); i++ {
		total += s.groups[i].minSalary[s.groups[i].count]
	}
	return total
}

func (s *exactSolver) remainingMaxSalary(gi int) int {
	total := 0
	for i := gi; i < len(s.groups); i++ {
		total += s.groups[i].maxSalary[s.groups[i].count]
	}
	return total
}

func (s *exactSolver) objective(score float64, salary int) float64 {
	if s.target > 0 && salary < s.target {
		score -= float64(s.target-salary) / 1000.0 * s.targetWt
	}
	return score
}

func (s *exactSolver) search(gi, salary int, score float64) error {
	s.nodes++
	if s.nodes&1023 == 0 && !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return errSolveTimeout
	}

	if gi == len(s.groups) {
		if s.rules.MinSalary > 0 && salary < s.rules.MinSalary {
			return nil
		}
		obj := s.objective(score, salary)
		if !s.bestFound || obj > s.bestObj {
			s.bestObj = obj
			s.bestFound = true
			s.bestSet = append(s.bestSet[:0], s.choice...)
		}
		return nil
	}

	if s.bestFound && s.objective(score+s.remainingBound(gi), s.rules.SalaryCap) <= s.bestObj {
		return nil
	}
	if salary+s.remainingMinSalary(gi) > s.rules.SalaryCap {
		return nil
	}
	if s.rules.MinSalary > 0 && salary+s.remainingMaxSalary(gi) < s.rules.MinSalary {
		return nil
	}

	return s.fillGroup(gi, 0, 0, salary, score)
}

// fillGroup picks the group's players with strictly increasing indices
// into the eligible list, so identical slots never enumerate the same
// combination twice.
func (s *exactSolver) fillGroup(gi, from, taken, salary int, score float64) error {
	g := &s.groups[gi]
	if taken == g.count {
		return s.search(gi+1, salary, score)
	}

	need := g.count - taken
	for idx := from; idx+need <= len(g.eligible); idx++ {
		ci := g.eligible[idx]
		c := &s.cands[ci]
		if s.used[ci] {
			continue
		}
		if salary+c.player.Salary+g.minSalary[need-1]+s.remainingMinSalary(gi+1) > s.rules.SalaryCap {
			continue
		}
		if s.rules.MaxPerTeam > 0 && c.player.Team != "" && s.teamCount[c.player.Team] >= s.rules.MaxPerTeam {
			continue
		}

		s.used[ci] = true
		if c.player.Team != "" {
			s.teamCount[c.player.Team]++
		}
		s.choice = append(s.choice, ci)

		err := s.fillGroup(gi, idx+1, taken+1, salary+c.player.Salary, score+c.score)

		s.choice = s.choice[:len(s.choice)-1]
		if c.player.Team != "" {
			s.teamCount[c.player.Team]--
		}
		s.used[ci] = false

		if err != nil {
			return err
		}
	}
	return nil
}
