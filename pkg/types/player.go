package types

import (
	"math"
)

// ContestType selects the payout shape a lineup is built for.
type ContestType string

const (
	ContestCash       ContestType = "cash"
	ContestTournament ContestType = "tournament"
)

// SkillTier labels a synthetic field opponent. It only selects the
// variance model applied to that opponent's simulated score.
type SkillTier string

const (
	TierSharp     SkillTier = "sharp"
	TierGood      SkillTier = "good"
	TierAverage   SkillTier = "average"
	TierWeak      SkillTier = "weak"
	TierFiller    SkillTier = "filler"
	TierDuplicate SkillTier = "duplicate"
)

// Player is one draftable player in a slate pool. Projection, floor,
// ceiling and ownership are externally supplied; OptimizationScore is
// the single scalar the optimizer maximizes and is rewritten by the
// scoring composer per strategy/contest invocation.
type Player struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Team            string   `json:"team"`
	Opponent        string   `json:"opponent,omitempty"`
	Salary          int      `json:"salary"`
	Positions       []string `json:"positions"`
	PrimaryPosition string   `json:"primary_position"`
	Projection      float64  `json:"projection"`
	Floor           float64  `json:"floor"`
	Ceiling         float64  `json:"ceiling"`
	Ownership       float64  `json:"ownership"`

	OptimizationScore float64 `json:"optimization_score"`
}

// CanPlay reports whether the player is eligible for a roster slot of
// the given position tag.
func (p *Player) CanPlay(position string) bool {
	for _, pos := range p.Positions {
		if pos == position {
			return true
		}
	}
	return false
}

// Optimizable reports whether the player may enter an optimization run.
// A non-finite or negative score makes the player ineligible rather
// than poisoning the objective.
func (p *Player) Optimizable() bool {
	return !math.IsNaN(p.OptimizationScore) &&
		!math.IsInf(p.OptimizationScore, 0) &&
		p.OptimizationScore >= 0 &&
		p.Salary > 0
}

// Value returns projected points per $1000 of salary.
func (p *Player) Value() float64 {
	if p.Salary <= 0 {
		return 0
	}
	return p.Projection / (float64(p.Salary) / 1000.0)
}

// NormalizePool applies neutral defaults once, at pool construction, so
// every downstream consumer sees fields as always present. Floor and
// ceiling default to a band around the projection, ownership is clamped
// to [0,100], and the primary position falls back to the first eligible
// position tag.
func NormalizePool(players []Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		if p.Projection < 0 || math.IsNaN(p.Projection) || math.IsInf(p.Projection, 0) {
			p.Projection = 0
		}
		if p.Floor <= 0 {
			p.Floor = p.Projection * 0.7
		}
		if p.Ceiling <= 0 {
			p.Ceiling = p.Projection * 1.4
		}
		if p.Ceiling < p.Floor {
			p.Ceiling = p.Floor
		}
		if p.Ownership < 0 {
			p.Ownership = 0
		} else if p.Ownership > 100 {
			p.Ownership = 100
		}
		if len(p.Positions) == 0 && p.PrimaryPosition != "" {
			p.Positions = []string{p.PrimaryPosition}
		}
		if p.PrimaryPosition == "" && len(p.Positions) > 0 {
			p.PrimaryPosition = p.Positions[0]
		}
		out[i] = p
	}
	return out
}
