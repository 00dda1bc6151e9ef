// Package sequencer implements the step sequencer that drives the player:
// a beat pattern per instrument, per-instrument budgets, blocked and forced
// steps, and a step clock that counts loops until the run times out.
package sequencer

// Instrument is a named track of the pattern.
type Instrument string

// Canonical instruments. The index of an instrument in Canonical is the
// beat index the player maps to an action.
const (
	Kick    Instrument = "Kick"
	Snare   Instrument = "Snare"
	HiHat   Instrument = "Hi-Hat"
	OpenHat Instrument = "Open Hat"
	Clap    Instrument = "Clap"
	Crash   Instrument = "Crash"
)

// Canonical lists every known instrument in beat-index order.
var Canonical = []Instrument{Kick, Snare, HiHat, OpenHat, Clap, Crash}

// StepsPerMeasure is the number of steps in one measure.
const StepsPerMeasure = 4

// Index returns the canonical beat index of the instrument, or -1.
func (i Instrument) Index() int {
	for idx, c := range Canonical {
		if c == i {
			return idx
		}
	}
	return -1
}

// Known reports whether i is a canonical instrument.
func (i Instrument) Known() bool {
	return i.Index() >= 0
}

// Action names what the instrument does to the player.
func (i Instrument) Action() string {
	switch i {
	case Kick:
		return "jump"
	case Snare:
		return "dash"
	case HiHat:
		return "right"
	case OpenHat:
		return "left"
	case Crash:
		return "trigger"
	default:
		return "none"
	}
}

// ParseInstrument maps a name to a canonical instrument.
func ParseInstrument(name string) (Instrument, bool) {
	inst := Instrument(name)
	return inst, inst.Known()
}
