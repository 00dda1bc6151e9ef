package sequencer

import (
	"fmt"
	"sort"
)

// Budget caps the number of active steps of an instrument.
type Budget struct {
	Max       int  `yaml:"max"`
	Unlimited bool `yaml:"unlimited"`
}

// Allows reports whether count active steps fit the budget.
func (b Budget) Allows(count int) bool {
	return b.Unlimited || count <= b.Max
}

// String renders the budget for display.
func (b Budget) String() string {
	if b.Unlimited {
		return "∞"
	}
	return fmt.Sprint(b.Max)
}

// StepSet lists step indices per instrument.
type StepSet map[Instrument][]int

// Config describes what a level allows the player to program.
type Config struct {
	Instruments []Instrument
	Budgets     map[Instrument]Budget
	Measures    int
	MaxLoops    int
	Blocked     StepSet
	Forced      StepSet
}

// DefaultConfig is the instrument setup used by levels that do not override it.
func DefaultConfig() Config {
	return Config{
		Instruments: []Instrument{Kick, Snare, HiHat, OpenHat},
		Budgets: map[Instrument]Budget{
			Kick:    {Max: 4},
			Snare:   {Max: 2},
			HiHat:   {Unlimited: true},
			OpenHat: {Unlimited: true},
		},
		Measures: 4,
		MaxLoops: 2,
	}
}

// Steps returns the pattern length.
func (c Config) Steps() int {
	return c.Measures * StepsPerMeasure
}

// Budget returns the budget of inst. Instruments without an entry are unlimited.
func (c Config) Budget(inst Instrument) Budget {
	if b, ok := c.Budgets[inst]; ok {
		return b
	}
	return Budget{Unlimited: true}
}

// Available reports whether the level provides inst.
func (c Config) Available(inst Instrument) bool {
	for _, i := range c.Instruments {
		if i == inst {
			return true
		}
	}
	return false
}

// rules is the validated, lookup-friendly form of a Config.
type rules struct {
	steps   int
	blocked map[Instrument]map[int]bool
	forced  map[Instrument]map[int]bool
}

func (r rules) isBlocked(inst Instrument, step int) bool {
	return r.blocked[inst][step]
}

func (r rules) isForced(inst Instrument, step int) bool {
	return r.forced[inst][step]
}

// compile validates c. Out-of-range constraint steps are dropped and a step
// both blocked and forced stays forced; each is reported as a warning.
func compile(c Config) (rules, []string, error) {
	var warnings []string
	if len(c.Instruments) == 0 {
		return rules{}, nil, fmt.Errorf("%w: no instruments", ErrInvalidConfig)
	}
	if c.Measures <= 0 {
		return rules{}, nil, fmt.Errorf("%w: measures must be positive, got %d", ErrInvalidConfig, c.Measures)
	}
	if c.MaxLoops <= 0 {
		return rules{}, nil, fmt.Errorf("%w: max loops must be positive, got %d", ErrInvalidConfig, c.MaxLoops)
	}
	seen := make(map[Instrument]bool, len(c.Instruments))
	for _, inst := range c.Instruments {
		if seen[inst] {
			return rules{}, nil, fmt.Errorf("%w: duplicate instrument %q", ErrInvalidConfig, inst)
		}
		seen[inst] = true
		if b := c.Budget(inst); !b.Unlimited && b.Max < 0 {
			return rules{}, nil, fmt.Errorf("%w: negative budget for %q", ErrInvalidConfig, inst)
		}
	}

	r := rules{
		steps:   c.Steps(),
		blocked: make(map[Instrument]map[int]bool),
		forced:  make(map[Instrument]map[int]bool),
	}
	collect := func(set StepSet, into map[Instrument]map[int]bool, kind string) {
		for _, inst := range sortedKeys(set) {
			if !seen[inst] {
				warnings = append(warnings, fmt.Sprintf("%s steps for unavailable instrument %q ignored", kind, inst))
				continue
			}
			for _, step := range set[inst] {
				if step < 0 || step >= r.steps {
					warnings = append(warnings, fmt.Sprintf("%s step %d of %q outside %d steps ignored", kind, step, inst, r.steps))
					continue
				}
				if into[inst] == nil {
					into[inst] = make(map[int]bool)
				}
				into[inst][step] = true
			}
		}
	}
	collect(c.Forced, r.forced, "forced")
	collect(c.Blocked, r.blocked, "blocked")

	for _, inst := range c.Instruments {
		steps := r.forced[inst]
		for step := 0; step < r.steps; step++ {
			if steps[step] && r.blocked[inst][step] {
				delete(r.blocked[inst], step)
				warnings = append(warnings, fmt.Sprintf("step %d of %q is both blocked and forced; forced wins", step, inst))
			}
		}
		if b := c.Budget(inst); !b.Allows(len(steps)) {
			return rules{}, warnings, fmt.Errorf("%w: %d forced steps of %q exceed budget %d", ErrInvalidConfig, len(steps), inst, b.Max)
		}
	}
	return r, warnings, nil
}

func sortedKeys(set StepSet) []Instrument {
	keys := make([]Instrument, 0, len(set))
	for inst := range set {
		keys = append(keys, inst)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
