package types

// SlotRequirement is one roster slot type and how many of it a lineup
// must carry.
type SlotRequirement struct {
	Position string `json:"position" mapstructure:"position"`
	Count    int    `json:"count" mapstructure:"count"`
}

// RosterRules declares what a legal lineup looks like: required counts
// per position slot, the salary cap, an optional salary floor, and a
// per-team exposure cap. A valid roster has exactly RosterSize players,
// total salary within [MinSalary, SalaryCap], and no team contributing
// more than MaxPerTeam players.
type RosterRules struct {
	Slots      []SlotRequirement `json:"slots" mapstructure:"slots"`
	SalaryCap  int               `json:"salary_cap" mapstructure:"salary_cap"`
	MinSalary  int               `json:"min_salary" mapstructure:"min_salary"`
	MaxPerTeam int               `json:"max_per_team" mapstructure:"max_per_team"`
}

// RosterSize returns the fixed lineup size implied by the slot counts.
func (r RosterRules) RosterSize() int {
	total := 0
	for _, s := range r.Slots {
		total += s.Count
	}
	return total
}

// Required returns the slot count for a position tag, 0 if the rules do
// not use that tag.
func (r RosterRules) Required(position string) int {
	for _, s := range r.Slots {
		if s.Position == position {
			return s.Count
		}
	}
	return 0
}

// ClassicRules is the default 10-man classic roster: 2 P, 1 C, 1 1B,
// 1 2B, 1 3B, 1 SS, 3 OF under a $50,000 cap.
func ClassicRules() RosterRules {
	return RosterRules{
		Slots: []SlotRequirement{
			{Position: "P", Count: 2},
			{Position: "C", Count: 1},
			{Position: "1B", Count: 1},
			{Position: "2B", Count: 1},
			{Position: "3B", Count: 1},
			{Position: "SS", Count: 1},
			{Position: "OF", Count: 3},
		},
		SalaryCap:  50000,
		MinSalary:  45000,
		MaxPerTeam: 5,
	}
}
