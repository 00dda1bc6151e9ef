package level

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/beatstep/internal/config"
	"github.com/vovakirdan/beatstep/internal/entity"
	"github.com/vovakirdan/beatstep/internal/registry"
	"github.com/vovakirdan/beatstep/internal/sequencer"
)

// Descriptor is the data form of a level: geometry, spawns and the
// sequencer rules the player programs against.
type Descriptor struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Order int    `yaml:"order"`

	World  WorldSize   `yaml:"world"`
	Player PlayerStart `yaml:"player"`

	Instruments []string                    `yaml:"instruments"`
	Budgets     map[string]sequencer.Budget `yaml:"budgets"`
	Measures    int                         `yaml:"measures"`
	MaxLoops    int                         `yaml:"max_loops"`
	Blocked     map[string][]int            `yaml:"blocked"`
	Forced      map[string][]int            `yaml:"forced"`
	Preset      map[string][]bool           `yaml:"preset"`

	NoFloor bool        `yaml:"no_floor"`
	Blocks  []BlockSpec `yaml:"blocks"`
	Walls   []WallSpec  `yaml:"walls"`
	Objects []SpawnSpec `yaml:"objects"`
}

// WorldSize is the world extent in blocks; zero uses the tuning default.
type WorldSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PlayerStart is the player spawn in pixels. A nil Y spawns the player
// just above the floor.
type PlayerStart struct {
	X float64  `yaml:"x"`
	Y *float64 `yaml:"y"`
}

// BlockSpec places one solid block.
type BlockSpec struct {
	X  int     `yaml:"x"`
	Y  int     `yaml:"y"`
	OX float64 `yaml:"ox"`
	OY float64 `yaml:"oy"`
}

// WallSpec fills the inclusive block range between two corners.
type WallSpec struct {
	From [2]int `yaml:"from"`
	To   [2]int `yaml:"to"`
}

// Cells returns the block coordinates covered by the wall.
func (w WallSpec) Cells() [][2]int {
	x0, x1 := order(w.From[0], w.To[0])
	y0, y1 := order(w.From[1], w.To[1])
	var cells [][2]int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			cells = append(cells, [2]int{x, y})
		}
	}
	return cells
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// SpawnSpec places one registered entity kind.
type SpawnSpec struct {
	Kind  entity.Kind `yaml:"kind"`
	X     int         `yaml:"x"`
	Y     int         `yaml:"y"`
	OX    float64     `yaml:"ox"`
	OY    float64     `yaml:"oy"`
	Range float64     `yaml:"range"`
}

// Spawn converts the descriptor entry to an entity spawn.
func (s SpawnSpec) Spawn() entity.Spawn {
	return entity.Spawn{BlockX: s.X, BlockY: s.Y, OffsetX: s.OX, OffsetY: s.OY, Range: s.Range}
}

// Parse decodes and validates a YAML descriptor.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	return d, d.Validate()
}

// Validate checks everything that can be checked without building the level.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return descriptorError(d.ID, "missing id")
	}
	if d.World.Width < 0 || d.World.Height < 0 {
		return descriptorError(d.ID, "negative world size")
	}
	for _, name := range d.Instruments {
		if _, ok := sequencer.ParseInstrument(name); !ok {
			return descriptorError(d.ID, "unknown instrument %q", name)
		}
	}
	for name, steps := range d.Preset {
		if _, ok := sequencer.ParseInstrument(name); !ok {
			return descriptorError(d.ID, "preset for unknown instrument %q", name)
		}
		if len(steps) == 0 {
			return descriptorError(d.ID, "empty preset for %q", name)
		}
	}
	if d.Measures < 0 || d.MaxLoops < 0 {
		return descriptorError(d.ID, "negative measures or loops")
	}
	for _, o := range d.Objects {
		if !registry.Exists(o.Kind) {
			return descriptorError(d.ID, "unknown object kind %q", o.Kind)
		}
	}
	if _, err := d.SequencerConfig(); err != nil {
		return descriptorError(d.ID, "%v", err)
	}
	return nil
}

// SequencerConfig converts the instrument rules. Levels that list no
// instruments get the default set and budgets; zero measures or loops
// take the defaults too.
func (d Descriptor) SequencerConfig() (sequencer.Config, error) {
	cfg := sequencer.DefaultConfig()
	if len(d.Instruments) > 0 {
		cfg.Instruments = make([]sequencer.Instrument, 0, len(d.Instruments))
		for _, name := range d.Instruments {
			cfg.Instruments = append(cfg.Instruments, sequencer.Instrument(name))
		}
		cfg.Budgets = make(map[sequencer.Instrument]sequencer.Budget, len(d.Budgets))
	}
	for name, b := range d.Budgets {
		cfg.Budgets[sequencer.Instrument(name)] = b
	}
	if d.Measures > 0 {
		cfg.Measures = d.Measures
	}
	if d.MaxLoops > 0 {
		cfg.MaxLoops = d.MaxLoops
	}
	cfg.Blocked = stepSet(d.Blocked)
	cfg.Forced = stepSet(d.Forced)

	// Build once to surface configuration errors early.
	if _, err := sequencer.New(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// PresetPattern returns the demonstration pattern, or nil if none is set.
// A preset exercises the level's instruments; it need not clear the level.
func (d Descriptor) PresetPattern() sequencer.Pattern {
	if len(d.Preset) == 0 {
		return nil
	}
	p := make(sequencer.Pattern, len(d.Preset))
	for name, steps := range d.Preset {
		p[sequencer.Instrument(name)] = append([]bool(nil), steps...)
	}
	return p
}

// Size returns the world size in blocks, applying the tuning defaults.
func (d Descriptor) Size(w config.WorldConfig) (width, height int) {
	width, height = d.World.Width, d.World.Height
	if width == 0 {
		width = w.WidthBlocks
	}
	if height == 0 {
		height = w.HeightBlocks
	}
	return width, height
}

// Title returns the display name.
func (d Descriptor) Title() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

func stepSet(m map[string][]int) sequencer.StepSet {
	if len(m) == 0 {
		return nil
	}
	out := make(sequencer.StepSet, len(m))
	for name, steps := range m {
		out[sequencer.Instrument(name)] = append([]int(nil), steps...)
	}
	return out
}
