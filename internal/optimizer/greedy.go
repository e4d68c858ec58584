package optimizer

import (
	"sort"

	"github.com/stitts-dev/lineup-engine/pkg/types"
)

// solveGreedy is the resilience fallback used when the exact solver
// times out. It fills scarcest positions first with the best
// points-per-dollar candidates that leave enough budget for the rest,
// then swap-repairs the salary floor. Not guaranteed optimal, and
// callers see that through the lineup's Heuristic flag.
func solveGreedy(cands []candidate, rules types.RosterRules) ([]int, error) {
	type slotPlan struct {
		position string
		eligible []int
	}

	plans := make([]slotPlan, 0, rules.RosterSize())
	for _, req := range rules.Slots {
		var eligible []int
		for i := range cands {
			if cands[i].player.CanPlay(req.Position) {
				eligible = append(eligible, i)
			}
		}
		// Value sort: effective score per dollar, best first.
		sort.Slice(eligible, func(a, b int) bool {
			ca, cb := cands[eligible[a]], cands[eligible[b]]
			va := ca.score / float64(ca.player.Salary)
			vb := cb.score / float64(cb.player.Salary)
			if va != vb {
				return va > vb
			}
			return ca.player.ID < cb.player.ID
		})
		for i := 0; i < req.Count; i++ {
			plans = append(plans, slotPlan{position: req.Position, eligible: eligible})
		}
	}

	// Scarcest slots first.
	sort.SliceStable(plans, func(a, b int) bool {
		return len(plans[a].eligible) < len(plans[b].eligible)
	})

	minCost := func(p slotPlan, used []bool) int {
		best := -1
		for _, ci := range p.eligible {
			if used[ci] {
				continue
			}
			if best == -1 || cands[ci].player.Salary < best {
				best = cands[ci].player.Salary
			}
		}
		return best
	}

	used := make([]bool, len(cands))
	teamCount := make(map[string]int)
	chosen := make([]int, 0, len(plans))
	salary := 0

	for pi, plan := range plans {
		// Budget that must be reserved for the slots after this one.
		reserve := 0
		for _, later := range plans[pi+1:] {
			c := minCost(later, used)
			if c < 0 {
				return nil, &InsufficientPoolError{Position: later.position, Required: 1, Available: 0}
			}
			reserve += c
		}

		pick := -1
		for _, ci := range plan.eligible {
			c := &cands[ci]
			if used[ci] {
				continue
			}
			if salary+c.player.Salary+reserve > rules.SalaryCap {
				continue
			}
			if rules.MaxPerTeam > 0 && c.player.Team != "" && teamCount[c.player.Team] >= rules.MaxPerTeam {
				continue
			}
			if pick == -1 || c.score > cands[pick].score {
				pick = ci
			}
		}
		if pick == -1 {
			return nil, &NoFeasibleLineupError{
				SalaryCap: rules.SalaryCap,
				MinSalary: rules.MinSalary,
				Reason:    "greedy fill could not place position " + plan.position + " within the remaining budget",
			}
		}

		used[pick] = true
		if cands[pick].player.Team != "" {
			teamCount[cands[pick].player.Team]++
		}
		chosen = append(chosen, pick)
		salary += cands[pick].player.Salary
	}

	// Swap-repair toward the salary floor: upgrade the cheapest slots
	// until the minimum is met or no upgrade fits.
	for iter := 0; rules.MinSalary > 0 && salary < rules.MinSalary && iter < 2*len(chosen); iter++ {
		bestSlot, bestRepl, bestGain := -1, -1, 0
		for si, ci := range chosen {
			for _, ri := range plans[si].eligible {
				r := &cands[ri]
				if used[ri] || ri == ci {
					continue
				}
				gain := r.player.Salary - cands[ci].player.Salary
				if gain <= 0 || salary+gain > rules.SalaryCap {
					continue
				}
				if rules.MaxPerTeam > 0 && r.player.Team != "" && r.player.Team != cands[ci].player.Team &&
					teamCount[r.player.Team] >= rules.MaxPerTeam {
					continue
				}
				if bestRepl == -1 || gain > bestGain {
					bestSlot, bestRepl, bestGain = si, ri, gain
				}
			}
		}
		if bestRepl == -1 {
			break
		}
		old := chosen[bestSlot]
		used[old] = false
		if cands[old].player.Team != "" {
			teamCount[cands[old].player.Team]--
		}
		used[bestRepl] = true
		if cands[bestRepl].player.Team != "" {
			teamCount[cands[bestRepl].player.Team]++
		}
		chosen[bestSlot] = bestRepl
		salary += bestGain
	}

	if rules.MinSalary > 0 && salary < rules.MinSalary {
		return nil, &NoFeasibleLineupError{
			SalaryCap: rules.SalaryCap,
			MinSalary: rules.MinSalary,
			Reason:    "greedy repair could not reach the salary floor",
		}
	}
	return chosen, nil
}
