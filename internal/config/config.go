// Package config provides YAML-based tuning for beatstep: player and enemy
// physics, sequencer tempo, session timing and world geometry.
package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// GameConfig contains every tunable value of the simulation.
type GameConfig struct {
	Player    PlayerConfig    `yaml:"player"`
	Snail     PatrolConfig    `yaml:"snail"`
	Drummy    PatrolConfig    `yaml:"drummy"`
	Saw       SawConfig       `yaml:"saw"`
	Sequencer SequencerConfig `yaml:"sequencer"`
	Session   SessionConfig   `yaml:"session"`
	World     WorldConfig     `yaml:"world"`
	Log       LogConfig       `yaml:"log"`
}

// PlayerConfig defines player physics and dash parameters.
type PlayerConfig struct {
	Gravity          float64  `yaml:"gravity"`
	DragX            float64  `yaml:"drag_x"`
	HorizontalSpeed  float64  `yaml:"horizontal_speed"`
	JumpVelocity     float64  `yaml:"jump_velocity"` // negative is up
	DashSpeed        float64  `yaml:"dash_speed"`
	DashDuration     Duration `yaml:"dash_duration"`
	DashEndFactor    float64  `yaml:"dash_end_factor"` // horizontal velocity kept when a dash ends
	Width            float64  `yaml:"width"`
	Height           float64  `yaml:"height"`
	TraceMinDistance float64  `yaml:"trace_min_distance"`
	StartYOffset     float64  `yaml:"start_y_offset"` // spawn height above the world floor when a level gives no y
}

// PatrolConfig defines a walking enemy variant.
type PatrolConfig struct {
	Speed            float64  `yaml:"speed"`
	Gravity          float64  `yaml:"gravity"`
	Width            float64  `yaml:"width"`
	Height           float64  `yaml:"height"`
	StompTolerance   float64  `yaml:"stomp_tolerance"`
	BounceVelocity   float64  `yaml:"bounce_velocity"` // applied to the player after a lethal stomp
	LaunchVelocity   float64  `yaml:"launch_velocity"` // applied to the player by a launcher stomp
	PauseDuration    Duration `yaml:"pause_duration"`
	PatrolWidth      float64  `yaml:"patrol_width"`
	InitialDirection int      `yaml:"initial_direction"`
	HaltWhenIdle     bool     `yaml:"halt_when_idle"` // stand still while the sequencer is not playing
}

// SawConfig defines the crash-triggered hazard.
type SawConfig struct {
	DropSpeed    float64 `yaml:"drop_speed"`
	ReturnSpeed  float64 `yaml:"return_speed"`
	DropDistance float64 `yaml:"drop_distance"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
}

// SequencerConfig defines the sequencer tempo.
type SequencerConfig struct {
	BPM int `yaml:"bpm"`
}

// StepInterval returns the wall time between two sequencer steps.
func (c SequencerConfig) StepInterval() time.Duration {
	if c.BPM <= 0 {
		return 0
	}
	return time.Minute / time.Duration(c.BPM)
}

// SessionConfig defines session timing.
type SessionConfig struct {
	WinDelay  Duration `yaml:"win_delay"`
	PhysicsHz int      `yaml:"physics_hz"`
}

// FrameDuration returns the fixed physics frame length.
func (c SessionConfig) FrameDuration() time.Duration {
	if c.PhysicsHz <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.PhysicsHz)
}

// WorldConfig defines the default world geometry in blocks.
type WorldConfig struct {
	BlockSize    float64 `yaml:"block_size"`
	WidthBlocks  int     `yaml:"width_blocks"`
	HeightBlocks int     `yaml:"height_blocks"`
}

// LogConfig defines the logging defaults.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Validate reports the first tuning value that cannot drive a simulation.
func (c GameConfig) Validate() error {
	checks := []struct {
		ok   bool
		name string
	}{
		{c.Player.HorizontalSpeed > 0, "player.horizontal_speed"},
		{c.Player.JumpVelocity < 0, "player.jump_velocity"},
		{c.Player.DashDuration.Duration > 0, "player.dash_duration"},
		{c.Player.Width > 0 && c.Player.Height > 0, "player size"},
		{c.Snail.Width > 0 && c.Snail.Height > 0, "snail size"},
		{c.Drummy.Width > 0 && c.Drummy.Height > 0, "drummy size"},
		{c.Saw.DropSpeed > 0 && c.Saw.ReturnSpeed > 0, "saw speeds"},
		{c.Sequencer.BPM > 0, "sequencer.bpm"},
		{c.Session.PhysicsHz > 0, "session.physics_hz"},
		{c.World.BlockSize > 0, "world.block_size"},
		{c.World.WidthBlocks > 0 && c.World.HeightBlocks > 0, "world size"},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("config: invalid %s", check.name)
		}
	}
	return nil
}

// Duration is a time.Duration written as a Go duration string ("200ms", "1s").
type Duration struct {
	time.Duration
}

// D wraps a time.Duration.
func D(d time.Duration) Duration {
	return Duration{Duration: d}
}

// UnmarshalYAML parses a duration string. Bare integers are milliseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("config: duration: %w", err)
	}
	if ms, err := strconv.Atoi(s); err == nil {
		d.Duration = time.Duration(ms) * time.Millisecond
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
