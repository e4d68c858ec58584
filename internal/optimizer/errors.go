package optimizer

import "fmt"

// InsufficientPoolError means the pool cannot even attempt a lineup:
// some required slot has fewer eligible players than it needs. Detected
// before the solver runs, and never retried internally.
type InsufficientPoolError struct {
	Position  string
	Required  int
	Available int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("insufficient player pool: position %s needs %d eligible players, only %d available",
		e.Position, e.Required, e.Available)
}

// NoFeasibleLineupError means enough players exist per position, but no
// combination satisfies the salary and team constraints. Surfaced
// distinctly from InsufficientPoolError so callers can react
// differently (relax the salary floor vs. abort).
type NoFeasibleLineupError struct {
	SalaryCap int
	MinSalary int
	Reason    string
}

func (e *NoFeasibleLineupError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no feasible lineup: %s", e.Reason)
	}
	if e.MinSalary > 0 {
		return fmt.Sprintf("no feasible lineup: no combination with salary in [$%d, $%d]", e.MinSalary, e.SalaryCap)
	}
	return fmt.Sprintf("no feasible lineup: no combination under $%d", e.SalaryCap)
}
