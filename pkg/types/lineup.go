package types

// Lineup is one optimizer result: exactly roster-size players, each
// assigned to a satisfied slot. Immutable after creation.
type Lineup struct {
	ID              string            `json:"id"`
	Players         []Player          `json:"players"`
	SlotAssignments map[string]string `json:"slot_assignments"` // player ID -> slot position filled
	TotalSalary     int               `json:"total_salary"`
	TotalScore      float64           `json:"total_score"`
	TotalProjection float64           `json:"total_projection"`

	// Heuristic is set when the lineup came from the greedy fallback
	// after a solver timeout; such lineups are feasible but not
	// guaranteed optimal.
	Heuristic bool `json:"heuristic,omitempty"`
}

// PlayerIDSet returns the lineup's player IDs for overlap checks.
func (l *Lineup) PlayerIDSet() map[string]bool {
	ids := make(map[string]bool, len(l.Players))
	for _, p := range l.Players {
		ids[p.ID] = true
	}
	return ids
}

// Overlap counts players shared with another lineup.
func (l *Lineup) Overlap(other *Lineup) int {
	ids := l.PlayerIDSet()
	shared := 0
	for _, p := range other.Players {
		if ids[p.ID] {
			shared++
		}
	}
	return shared
}

// MaxTeamStack returns the size of the largest same-team group in the
// lineup. Consumed by the simulator's stack-correlation variance.
func (l *Lineup) MaxTeamStack() int {
	counts := make(map[string]int)
	max := 0
	for _, p := range l.Players {
		if p.Team == "" {
			continue
		}
		counts[p.Team]++
		if counts[p.Team] > max {
			max = counts[p.Team]
		}
	}
	return max
}

// GameCount returns the number of distinct games the lineup draws from.
// Players without opponent data each count as their own game.
func (l *Lineup) GameCount() int {
	games := make(map[string]bool)
	loners := 0
	for _, p := range l.Players {
		if p.Opponent == "" {
			loners++
			continue
		}
		key := p.Team + "@" + p.Opponent
		if p.Opponent < p.Team {
			key = p.Opponent + "@" + p.Team
		}
		games[key] = true
	}
	return len(games) + loners
}

// FieldLineup is a synthetic opponent entry inside the contest field
// simulator. It never competes for real selection; the skill tier only
// picks the variance model used when scoring it.
type FieldLineup struct {
	Lineup
	Skill SkillTier `json:"skill_level"`
}
