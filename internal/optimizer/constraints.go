package optimizer

import (
	"fmt"

	"github.com/stitts-dev/lineup-engine/pkg/types"
)

// expandSlots flattens slot requirements into one entry per roster spot,
// preserving the declared order.
func expandSlots(rules types.RosterRules) []string {
	slots := make([]string, 0, rules.RosterSize())
	for _, req := range rules.Slots {
		for i := 0; i < req.Count; i++ {
			slots = append(slots, req.Position)
		}
	}
	return slots
}

// AssignSlots finds an assignment of the given players to the rules'
// roster slots, honoring multi-position eligibility. Returns player ID
// -> slot position, or false when no complete assignment exists. Uses
// augmenting paths so a valid set is never rejected because of a bad
// greedy fill order.
func AssignSlots(players []types.Player, rules types.RosterRules) (map[string]string, bool) {
	slots := expandSlots(rules)
	if len(players) != len(slots) {
		return nil, false
	}

	// matchSlot[s] = index of player occupying slot s, -1 if open
	matchSlot := make([]int, len(slots))
	for i := range matchSlot {
		matchSlot[i] = -1
	}
	matchPlayer := make([]int, len(players))
	for i := range matchPlayer {
		matchPlayer[i] = -1
	}

	var augment func(p int, seen []bool) bool
	augment = func(p int, seen []bool) bool {
		for s, pos := range slots {
			if seen[s] || !players[p].CanPlay(pos) {
				continue
			}
			seen[s] = true
			if matchSlot[s] == -1 || augment(matchSlot[s], seen) {
				matchSlot[s] = p
				matchPlayer[p] = s
				return true
			}
		}
		return false
	}

	for p := range players {
		seen := make([]bool, len(slots))
		if !augment(p, seen) {
			return nil, false
		}
	}

	assignment := make(map[string]string, len(players))
	for p, s := range matchPlayer {
		assignment[players[p].ID] = slots[s]
	}
	return assignment, true
}

// IsFeasible reports whether the candidate set forms a legal lineup:
// exact slot satisfaction, salary within bounds, and no team over the
// exposure cap.
func IsFeasible(players []types.Player, rules types.RosterRules) bool {
	return ValidateLineup(players, rules) == nil
}

// ValidateLineup is IsFeasible with a descriptive error naming the
// first violated constraint.
func ValidateLineup(players []types.Player, rules types.RosterRules) error {
	size := rules.RosterSize()
	if len(players) != size {
		return fmt.Errorf("roster size mismatch: have %d players, rules require %d", len(players), size)
	}

	totalSalary := 0
	teamCounts := make(map[string]int)
	for _, p := range players {
		totalSalary += p.Salary
		if p.Team != "" {
			teamCounts[p.Team]++
		}
	}

	if totalSalary > rules.SalaryCap {
		return fmt.Errorf("total salary $%d exceeds cap $%d", totalSalary, rules.SalaryCap)
	}
	if rules.MinSalary > 0 && totalSalary < rules.MinSalary {
		return fmt.Errorf("total salary $%d below minimum $%d", totalSalary, rules.MinSalary)
	}
	if rules.MaxPerTeam > 0 {
		for team, count := range teamCounts {
			if count > rules.MaxPerTeam {
				return fmt.Errorf("too many players from team %s: %d > %d", team, count, rules.MaxPerTeam)
			}
		}
	}

	if _, ok := AssignSlots(players, rules); !ok {
		return fmt.Errorf("players cannot cover the required position slots")
	}
	return nil
}

// RemainingCapacity returns, for a partial roster, how many players are
// still needed per slot position. Used by incremental builders. The
// partial roster is matched against the expanded slots with the same
// augmenting-path search AssignSlots uses, so a multi-position player
// yields its slot to a less flexible teammate and identical calls
// always return the same counts.
func RemainingCapacity(partial []types.Player, rules types.RosterRules) map[string]int {
	slots := expandSlots(rules)

	matchSlot := make([]int, len(slots))
	for i := range matchSlot {
		matchSlot[i] = -1
	}

	var augment func(p int, seen []bool) bool
	augment = func(p int, seen []bool) bool {
		for s, pos := range slots {
			if seen[s] || !partial[p].CanPlay(pos) {
				continue
			}
			seen[s] = true
			if matchSlot[s] == -1 || augment(matchSlot[s], seen) {
				matchSlot[s] = p
				return true
			}
		}
		return false
	}

	for p := range partial {
		augment(p, make([]bool, len(slots)))
	}

	remaining := make(map[string]int, len(rules.Slots))
	for _, req := range rules.Slots {
		remaining[req.Position] = req.Count
	}
	for s, pos := range slots {
		if matchSlot[s] != -1 {
			remaining[pos]--
		}
	}
	return remaining
}

// CheckPool verifies, before any solve is attempted, that the pool has
// enough eligible players at every required position. A shortage here
// is an InsufficientPoolError, a different failure from the solver
// finding no salary-feasible combination.
func CheckPool(pool []types.Player, rules types.RosterRules) error {
	eligible := 0
	for i := range pool {
		if pool[i].Optimizable() {
			eligible++
		}
	}
	if size := rules.RosterSize(); eligible < size {
		return &InsufficientPoolError{Position: "any", Required: size, Available: eligible}
	}

	for _, req := range rules.Slots {
		count := 0
		for i := range pool {
			if pool[i].Optimizable() && pool[i].CanPlay(req.Position) {
				count++
			}
		}
		if count < req.Count {
			return &InsufficientPoolError{
				Position:  req.Position,
				Required:  req.Count,
				Available: count,
			}
		}
	}
	return nil
}
