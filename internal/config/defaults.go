package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the hardcoded tuning used when no YAML is found.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Player: PlayerConfig{
			Gravity:          2500,
			DragX:            1500,
			HorizontalSpeed:  320,
			JumpVelocity:     -700,
			DashSpeed:        800,
			DashDuration:     D(200 * time.Millisecond),
			DashEndFactor:    0.3,
			Width:            64,
			Height:           80,
			TraceMinDistance: 5,
			StartYOffset:     120,
		},
		Snail: PatrolConfig{
			Speed:            30,
			Gravity:          600,
			Width:            48,
			Height:           32,
			StompTolerance:   10,
			BounceVelocity:   -400,
			PatrolWidth:      192,
			InitialDirection: -1,
		},
		Drummy: PatrolConfig{
			Speed:            50,
			Gravity:          600,
			Width:            48,
			Height:           32,
			StompTolerance:   30,
			LaunchVelocity:   -1400,
			PauseDuration:    D(time.Second),
			PatrolWidth:      320,
			InitialDirection: 1,
			HaltWhenIdle:     true,
		},
		Saw: SawConfig{
			DropSpeed:    400,
			ReturnSpeed:  100,
			DropDistance: 192,
			Width:        64,
			Height:       64,
		},
		Sequencer: SequencerConfig{
			BPM: 120,
		},
		Session: SessionConfig{
			WinDelay:  D(2 * time.Second),
			PhysicsHz: 60,
		},
		World: WorldConfig{
			BlockSize:    64,
			WidthBlocks:  40,
			HeightBlocks: 16,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
