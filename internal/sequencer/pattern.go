package sequencer

import (
	"sort"
	"strings"
)

// Pattern maps each instrument to its steps.
type Pattern map[Instrument][]bool

// NewPattern creates an all-off pattern for the given instruments.
func NewPattern(instruments []Instrument, steps int) Pattern {
	p := make(Pattern, len(instruments))
	for _, inst := range instruments {
		p[inst] = make([]bool, steps)
	}
	return p
}

// Clone returns a deep copy.
func (p Pattern) Clone() Pattern {
	if p == nil {
		return nil
	}
	out := make(Pattern, len(p))
	for inst, steps := range p {
		out[inst] = append([]bool(nil), steps...)
	}
	return out
}

// Count returns the number of active steps of an instrument.
func (p Pattern) Count(inst Instrument) int {
	n := 0
	for _, on := range p[inst] {
		if on {
			n++
		}
	}
	return n
}

// Total returns the number of active steps across all instruments.
func (p Pattern) Total() int {
	n := 0
	for inst := range p {
		n += p.Count(inst)
	}
	return n
}

// At reports whether inst is active at step.
func (p Pattern) At(inst Instrument, step int) bool {
	steps := p[inst]
	return step >= 0 && step < len(steps) && steps[step]
}

// Equal reports whether two patterns hold the same tracks and steps.
func (p Pattern) Equal(o Pattern) bool {
	if len(p) != len(o) {
		return false
	}
	for inst, steps := range p {
		other, ok := o[inst]
		if !ok || len(other) != len(steps) {
			return false
		}
		for i := range steps {
			if steps[i] != other[i] {
				return false
			}
		}
	}
	return true
}

// Instruments returns the instruments of the pattern in canonical order,
// unknown names last in lexical order.
func (p Pattern) Instruments() []Instrument {
	out := make([]Instrument, 0, len(p))
	for inst := range p {
		out = append(out, inst)
	}
	SortInstruments(out)
	return out
}

// String renders the pattern as one "name x..x" line per instrument.
func (p Pattern) String() string {
	var sb strings.Builder
	for i, inst := range p.Instruments() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(inst))
		sb.WriteByte(' ')
		for _, on := range p[inst] {
			if on {
				sb.WriteByte('x')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// SortInstruments orders instruments canonically in place.
func SortInstruments(insts []Instrument) {
	sort.SliceStable(insts, func(i, j int) bool {
		a, b := insts[i].Index(), insts[j].Index()
		switch {
		case a >= 0 && b >= 0:
			return a < b
		case a >= 0:
			return true
		case b >= 0:
			return false
		}
		return insts[i] < insts[j]
	})
}
