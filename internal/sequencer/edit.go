package sequencer

// Validate checks that p has exactly the configured instruments, each with
// the configured length, and satisfies every budget, blocked and forced
// rule. Shape problems are *InvalidPatternError; rule violations are
// *ConstraintViolationError.
func (s *Sequencer) Validate(p Pattern) error {
	return s.validate(p, false)
}

// validate marks rule violations found by Start so they also match
// ErrInvalidPattern.
func (s *Sequencer) validate(p Pattern, atStart bool) error {
	for _, inst := range p.Instruments() {
		if !s.cfg.Available(inst) {
			return &InvalidPatternError{Instrument: inst, Reason: "instrument not available"}
		}
	}
	for _, inst := range s.cfg.Instruments {
		steps, ok := p[inst]
		if !ok || len(steps) != s.rules.steps {
			return &InvalidPatternError{Instrument: inst, Got: len(steps), Want: s.rules.steps}
		}
	}
	for _, inst := range s.cfg.Instruments {
		steps := p[inst]
		for step, on := range steps {
			if on && s.rules.isBlocked(inst, step) {
				return &ConstraintViolationError{Instrument: inst, Step: step, Reason: ReasonBlocked, AtStart: atStart}
			}
			if !on && s.rules.isForced(inst, step) {
				return &ConstraintViolationError{Instrument: inst, Step: step, Reason: ReasonForced, AtStart: atStart}
			}
		}
		if b := s.cfg.Budget(inst); !b.Allows(p.Count(inst)) {
			return &ConstraintViolationError{Instrument: inst, Step: -1, Reason: ReasonBudget, AtStart: atStart}
		}
	}
	return nil
}

// Toggle flips one step and returns its new value. The edit is rejected
// with a *ConstraintViolationError, leaving the pattern untouched, when it
// would break a rule.
func (s *Sequencer) Toggle(inst Instrument, step int) (bool, error) {
	if err := s.checkCell(inst, step); err != nil {
		return false, err
	}
	current := s.pattern[inst][step]
	if err := s.checkChange(inst, step, !current); err != nil {
		return current, err
	}
	s.pattern[inst][step] = !current
	return !current, nil
}

// Set activates or clears one step. Setting a step to its current value is
// a no-op.
func (s *Sequencer) Set(inst Instrument, step int, on bool) error {
	if err := s.checkCell(inst, step); err != nil {
		return err
	}
	if s.pattern[inst][step] == on {
		return nil
	}
	if err := s.checkChange(inst, step, on); err != nil {
		return err
	}
	s.pattern[inst][step] = on
	return nil
}

// Clear resets the pattern to the forced steps only.
func (s *Sequencer) Clear() {
	s.pattern = s.base()
}

// Load replaces the pattern after validating it.
func (s *Sequencer) Load(p Pattern) error {
	if err := s.Validate(p); err != nil {
		return err
	}
	s.pattern = p.Clone()
	return nil
}

// Normalize fits p to the configuration: unavailable tracks are dropped,
// missing tracks added, lengths padded or truncated, forced steps set and
// blocked steps cleared. Budgets are not enforced.
func (s *Sequencer) Normalize(p Pattern) Pattern {
	out := NewPattern(s.cfg.Instruments, s.rules.steps)
	for _, inst := range s.cfg.Instruments {
		copy(out[inst], p[inst])
		for step := range out[inst] {
			switch {
			case s.rules.isForced(inst, step):
				out[inst][step] = true
			case s.rules.isBlocked(inst, step):
				out[inst][step] = false
			}
		}
	}
	return out
}

// LoadPreset normalizes p and loads it.
func (s *Sequencer) LoadPreset(p Pattern) error {
	return s.Load(s.Normalize(p))
}

func (s *Sequencer) checkCell(inst Instrument, step int) error {
	if !s.cfg.Available(inst) {
		return &ConstraintViolationError{Instrument: inst, Step: step, Reason: ReasonUnavailable}
	}
	if step < 0 || step >= s.rules.steps {
		return &ConstraintViolationError{Instrument: inst, Step: step, Reason: ReasonRange}
	}
	return nil
}

func (s *Sequencer) checkChange(inst Instrument, step int, on bool) error {
	if !on {
		if s.rules.isForced(inst, step) {
			return &ConstraintViolationError{Instrument: inst, Step: step, Reason: ReasonForced}
		}
		return nil
	}
	if s.rules.isBlocked(inst, step) {
		return &ConstraintViolationError{Instrument: inst, Step: step, Reason: ReasonBlocked}
	}
	if b := s.cfg.Budget(inst); !b.Allows(s.pattern.Count(inst) + 1) {
		return &ConstraintViolationError{Instrument: inst, Step: step, Reason: ReasonBudget}
	}
	return nil
}
