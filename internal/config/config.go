package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/stitts-dev/lineup-engine/internal/diversity"
	"github.com/stitts-dev/lineup-engine/internal/simulator"
	"github.com/stitts-dev/lineup-engine/pkg/types"
)

// Config collects every tunable of the engine. Values come from an
// optional YAML file and LINEUP_*-prefixed environment variables, with
// code defaults below.
type Config struct {
	// Logging
	LogLevel    string `mapstructure:"log_level"`
	Development bool   `mapstructure:"development"`

	// Roster rules
	Rules types.RosterRules `mapstructure:"rules"`

	// Optimization
	Strategy           string  `mapstructure:"strategy"`
	OptimizerTimeout   string  `mapstructure:"optimizer_timeout"`
	TargetSalary       int     `mapstructure:"target_salary"`
	TargetSalaryWeight float64 `mapstructure:"target_salary_weight"`

	// Diversity
	NumLineups  int     `mapstructure:"num_lineups"`
	MinUnique   int     `mapstructure:"min_unique"`
	BasePenalty float64 `mapstructure:"base_penalty"`
	MaxRetries  int     `mapstructure:"max_retries"`

	// Simulation
	Contest     simulator.Contest     `mapstructure:"contest"`
	ScoreParams simulator.ScoreParams `mapstructure:"score_params"`
	Iterations  int                   `mapstructure:"iterations"`
	Seed        uint64                `mapstructure:"seed"`

	// Backtest
	BacktestWorkers int `mapstructure:"backtest_workers"`
}

// Load reads configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LINEUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Rules.Slots) == 0 {
		cfg.Rules = types.ClassicRules()
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("development", false)

	v.SetDefault("strategy", "balanced")
	v.SetDefault("optimizer_timeout", "5s")
	v.SetDefault("target_salary", 0)
	v.SetDefault("target_salary_weight", 0.5)

	v.SetDefault("num_lineups", 1)
	v.SetDefault("min_unique", 3)
	v.SetDefault("base_penalty", diversity.DefaultPenalty)
	v.SetDefault("max_retries", diversity.DefaultMaxRetries)

	v.SetDefault("contest.type", string(types.ContestTournament))
	v.SetDefault("contest.field_size", 100)
	v.SetDefault("contest.entry_fee", 3.0)
	v.SetDefault("iterations", 1000)
	v.SetDefault("seed", 0)

	params := simulator.DefaultScoreParams()
	v.SetDefault("score_params.breakout_rate", params.BreakoutRate)
	v.SetDefault("score_params.disaster_rate", params.DisasterRate)
	v.SetDefault("score_params.game_flow_std", params.GameFlowStd)
	v.SetDefault("score_params.player_std", params.PlayerStd)
	v.SetDefault("score_params.noise_std", params.NoiseStd)
	v.SetDefault("score_params.injury_rate", params.InjuryRate)
	v.SetDefault("score_params.min_multiple", params.MinMultiple)
	v.SetDefault("score_params.max_multiple", params.MaxMultiple)

	v.SetDefault("backtest_workers", 0)
}
