package core

// Action represents a semantic player action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A - walk left
	ActionRight          // D - walk right
	ActionJump           // W, Space - jump
	ActionDash           // F - mid-air dash
	ActionConfirm        // Enter - start or stop the sequencer, confirm in menus
	ActionBack           // Escape - go back to menu
	ActionRestart        // R - reset after game over
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionDash:
		return "Dash"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one frame.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}

// Intents returns the movement intents carried by this frame.
func (f InputFrame) Intents() Intents {
	return Intents{
		Left:  f.Has(ActionLeft),
		Right: f.Has(ActionRight),
		Jump:  f.Has(ActionJump),
		Dash:  f.Has(ActionDash),
	}
}

// Intents is the set of movement requests the player acts on.
// They come either from live input or from the beats of the current step.
type Intents struct {
	Left  bool
	Right bool
	Jump  bool
	Dash  bool
}

// Or combines two intent sets; an intent is held if either side holds it.
func (i Intents) Or(o Intents) Intents {
	return Intents{
		Left:  i.Left || o.Left,
		Right: i.Right || o.Right,
		Jump:  i.Jump || o.Jump,
		Dash:  i.Dash || o.Dash,
	}
}

// Any reports whether any intent is held.
func (i Intents) Any() bool {
	return i.Left || i.Right || i.Jump || i.Dash
}
