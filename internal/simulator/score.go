package simulator

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stitts-dev/lineup-engine/pkg/types"
)

// ScoreParams tune the stochastic scoring model. Probabilities are per
// simulated contest entry.
type ScoreParams struct {
	BreakoutRate float64 `mapstructure:"breakout_rate"`
	DisasterRate float64 `mapstructure:"disaster_rate"`
	GameFlowStd  float64 `mapstructure:"game_flow_std"`
	PlayerStd    float64 `mapstructure:"player_std"`
	NoiseStd     float64 `mapstructure:"noise_std"`
	InjuryRate   float64 `mapstructure:"injury_rate"`
	MinMultiple  float64 `mapstructure:"min_multiple"`
	MaxMultiple  float64 `mapstructure:"max_multiple"`
}

// DefaultScoreParams returns the calibrated model parameters.
func DefaultScoreParams() ScoreParams {
	return ScoreParams{
		BreakoutRate: 0.01,
		DisasterRate: 0.03,
		GameFlowStd:  0.15,
		PlayerStd:    0.12,
		NoiseStd:     3.0,
		InjuryRate:   0.04,
		MinMultiple:  0.2,
		MaxMultiple:  4.0,
	}
}

// Correlated boom-or-bust outcomes for stacked lineups. Bigger stacks
// swing harder in both directions.
var (
	stackVariance5 = []float64{0.7, 0.85, 0.95, 1.0, 1.05, 1.15, 1.3, 1.5}
	stackVariance4 = []float64{0.8, 0.9, 1.0, 1.0, 1.1, 1.2}
	stackVariance3 = []float64{0.9, 0.95, 1.0, 1.05, 1.1}
	gameVariance1  = []float64{0.6, 0.8, 1.0, 1.2, 1.4}
)

// ScoreModel samples realized lineup scores around a projection. The
// same model scores user lineups and field lineups so comparisons stay
// fair.
type ScoreModel struct {
	params   ScoreParams
	rng      *rand.Rand
	gameFlow distuv.Normal
	player   distuv.Normal
	noise    distuv.Normal
}

// NewScoreModel seeds a model. All sampling goes through one source so
// a fixed seed reproduces a full simulation run.
func NewScoreModel(params ScoreParams, seed uint64) *ScoreModel {
	src := rand.NewSource(seed)
	return &ScoreModel{
		params:   params,
		rng:      rand.New(src),
		gameFlow: distuv.Normal{Mu: 1.0, Sigma: params.GameFlowStd, Src: src},
		player:   distuv.Normal{Mu: 1.0, Sigma: params.PlayerStd, Src: src},
		noise:    distuv.Normal{Mu: 0, Sigma: params.NoiseStd, Src: src},
	}
}

// Simulate draws one realized score for the lineup. Discrete breakout
// and disaster outcomes short-circuit the variance pipeline; otherwise
// game flow, per-player variance, and stack correlation combine
// multiplicatively before additive noise and injury risk. The result
// is clamped to [MinMultiple, MaxMultiple] times the projection.
func (m *ScoreModel) Simulate(lineup *types.Lineup) float64 {
	base := lineup.TotalProjection
	if base <= 0 {
		return 0
	}

	if m.rng.Float64() < m.params.BreakoutRate {
		return base * m.uniform(2.5, 3.5)
	}
	if m.rng.Float64() < m.params.DisasterRate {
		return base * m.uniform(0.3, 0.6)
	}

	flow := m.gameFlow.Rand()

	// Geometric mean keeps one hot or cold player from dominating a
	// ten-man product.
	playerVariance := 1.0
	for range lineup.Players {
		playerVariance *= m.player.Rand()
	}
	if n := len(lineup.Players); n > 0 && playerVariance > 0 {
		playerVariance = math.Pow(playerVariance, 1.0/float64(n))
	} else if playerVariance <= 0 {
		playerVariance = m.params.MinMultiple
	}

	correlation := 1.0
	switch stack := lineup.MaxTeamStack(); {
	case stack >= 5:
		correlation *= m.choice(stackVariance5)
	case stack >= 4:
		correlation *= m.choice(stackVariance4)
	case stack >= 3:
		correlation *= m.choice(stackVariance3)
	}
	if lineup.GameCount() == 1 {
		correlation *= m.choice(gameVariance1)
	}

	score := base*flow*playerVariance*correlation + m.noise.Rand()

	if m.rng.Float64() < m.params.InjuryRate {
		affected := 1 + m.rng.Intn(2)
		score *= 1 - float64(affected)*0.1
	}

	return clamp(score, base*m.params.MinMultiple, base*m.params.MaxMultiple)
}

func (m *ScoreModel) uniform(lo, hi float64) float64 {
	return lo + m.rng.Float64()*(hi-lo)
}

func (m *ScoreModel) choice(values []float64) float64 {
	return values[m.rng.Intn(len(values))]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
