package scoring

import "sort"

// Weights is the declarative shape of a scoring strategy: each raw
// attribute's contribution to the single optimization score. A strategy
// is a table, not a function; one evaluator interprets all of them.
type Weights struct {
	Projection float64 `mapstructure:"projection"`
	Floor      float64 `mapstructure:"floor"`
	Ceiling    float64 `mapstructure:"ceiling"`
	Leverage   float64 `mapstructure:"leverage"` // ceiling over ownership, tournament leverage
	Value      float64 `mapstructure:"value"`    // projected points per $1000
}

// Strategy pairs a cash-shaped and a tournament-shaped weight table
// under one name. StackBoost, when above 1, multiplies the score of
// players on the top StackTeams teams by average projection; that pass
// needs an aggregate statistic and is computed once over the whole
// pool, never per player.
type Strategy struct {
	Name       string  `mapstructure:"name"`
	Cash       Weights `mapstructure:"cash"`
	Tournament Weights `mapstructure:"tournament"`
	StackBoost float64 `mapstructure:"stack_boost"`
	StackTeams int     `mapstructure:"stack_teams"`
}

// DefaultStrategy is used when a caller names a strategy the catalogue
// does not know.
const DefaultStrategy = "balanced"

// catalogue collapses the hand-tuned strategy zoo into weight tables.
// Cash shapes weight floor and consistency, tournament shapes weight
// ceiling and inverse ownership.
var catalogue = map[string]Strategy{
	"balanced": {
		Name:       "balanced",
		Cash:       Weights{Projection: 0.40, Floor: 0.30, Ceiling: 0.10, Value: 0.20},
		Tournament: Weights{Projection: 0.40, Floor: 0.10, Ceiling: 0.30, Leverage: 0.10, Value: 0.10},
	},
	"projection": {
		Name:       "projection",
		Cash:       Weights{Projection: 1.0},
		Tournament: Weights{Projection: 1.0},
	},
	"value_floor": {
		Name:       "value_floor",
		Cash:       Weights{Projection: 0.30, Floor: 0.50, Value: 0.20},
		Tournament: Weights{Projection: 0.30, Floor: 0.35, Ceiling: 0.15, Value: 0.20},
	},
	"ceiling_stack": {
		Name:       "ceiling_stack",
		Cash:       Weights{Projection: 0.40, Floor: 0.25, Ceiling: 0.25, Value: 0.10},
		Tournament: Weights{Projection: 0.25, Floor: 0.0, Ceiling: 0.55, Leverage: 0.10, Value: 0.10},
		StackBoost: 1.12,
		StackTeams: 2,
	},
	"smart_stack": {
		Name:       "smart_stack",
		Cash:       Weights{Projection: 0.40, Floor: 0.30, Ceiling: 0.15, Value: 0.15},
		Tournament: Weights{Projection: 0.35, Floor: 0.05, Ceiling: 0.35, Leverage: 0.15, Value: 0.10},
		StackBoost: 1.08,
		StackTeams: 2,
	},
	"leverage": {
		Name:       "leverage",
		Cash:       Weights{Projection: 0.45, Floor: 0.35, Ceiling: 0.10, Value: 0.10},
		Tournament: Weights{Projection: 0.30, Ceiling: 0.30, Leverage: 0.40},
	},
}

// Lookup returns the named strategy from the built-in catalogue.
func Lookup(name string) (Strategy, bool) {
	s, ok := catalogue[name]
	return s, ok
}

// Names lists the built-in strategies in stable order.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
