package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Agent    AgentConfig    `toml:"agent"`
	Behavior BehaviorConfig `toml:"behavior"`
	Tick     TickConfig     `toml:"tick"`
	Sim      SimConfig      `toml:"sim"`
	Audio    AudioConfig    `toml:"audio"`
	Debug    DebugConfig    `toml:"debug"`
	Logging  LoggingConfig  `toml:"logging"`
}

type AgentConfig struct {
	Name      string  `toml:"name"`
	WalkSpeed float64 `toml:"walk_speed"` // units/sec while following calmly
	RunSpeed  float64 `toml:"run_speed"`  // units/sec while catching up or fetching
}

// BehaviorConfig holds every tuning constant the state machine reads.
// Distances are world units (~meters), probabilities 0.0-1.0.
type BehaviorConfig struct {
	FollowDistance     float64       `toml:"follow_distance"`     // idle when player is stationary within this
	MaxFollowDistance  float64       `toml:"max_follow_distance"` // run instead of walk beyond this; leash for exploring
	StopDistance       float64       `toml:"stop_distance"`       // carry drop-off radius
	PickupDistance     float64       `toml:"pickup_distance"`     // fetch target grab radius
	PlayerMoveEpsilon  float64       `toml:"player_move_epsilon"` // per-sample delta below this counts as stationary
	IdleCheckInterval  time.Duration `toml:"idle_check_interval"` // min idle time before an exploration draw
	ExplorationChance  float64       `toml:"exploration_chance"`  // uniform draw threshold per idle check
	ExplorationTimeout time.Duration `toml:"exploration_timeout"` // give up exploring and return
	ExploreRadius      float64       `toml:"explore_radius"`      // random destination sampling radius
	RepickDistance     float64       `toml:"repick_distance"`     // remaining path below this re-picks an explore point
	ExcitedDuration    time.Duration `toml:"excited_duration"`
	DetectionRadius    float64       `toml:"detection_radius"` // hand inside this suspends movement
	PetRadius          float64       `toml:"pet_radius"`       // hand inside this counts as petting
	PetCooldown        time.Duration `toml:"pet_cooldown"`     // min gap between pet cues
	SampleRetries      int           `toml:"sample_retries"`   // bounded navigable-point sampling budget
	StabilizeDelay     time.Duration `toml:"stabilize_delay"`  // settle time after scan completes before init
}

type TickConfig struct {
	Rate time.Duration `toml:"rate"` // behavior tick cadence, independent of render rate
}

type SimConfig struct {
	RoomFile    string        `toml:"room_file"`
	ScriptsDir  string        `toml:"scripts_dir"`
	ScanDelay   time.Duration `toml:"scan_delay"`   // simulated room-scan duration before readiness fires
	PlayerSpeed float64       `toml:"player_speed"` // scripted player walking speed
	ThrowEvery  time.Duration `toml:"throw_every"`  // 0 disables scripted ball throws
	HandEvery   time.Duration `toml:"hand_every"`   // 0 disables the scripted petting hand
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"` // 0.0-1.0
}

type DebugConfig struct {
	Enabled     bool   `toml:"enabled"`
	BindAddress string `toml:"bind_address"`
	StreamEvery int    `toml:"stream_every"` // snapshot broadcast every N ticks
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:      "Kuro",
			WalkSpeed: 1.2,
			RunSpeed:  2.6,
		},
		Behavior: BehaviorConfig{
			FollowDistance:     2.0,
			MaxFollowDistance:  4.0,
			StopDistance:       1.0,
			PickupDistance:     0.3,
			PlayerMoveEpsilon:  0.05,
			IdleCheckInterval:  2 * time.Second,
			ExplorationChance:  0.3,
			ExplorationTimeout: 8 * time.Second,
			ExploreRadius:      3.0,
			RepickDistance:     0.5,
			ExcitedDuration:    3 * time.Second,
			DetectionRadius:    0.4,
			PetRadius:          0.25,
			PetCooldown:        2 * time.Second,
			SampleRetries:      8,
			StabilizeDelay:     500 * time.Millisecond,
		},
		Tick: TickConfig{
			Rate: 100 * time.Millisecond,
		},
		Sim: SimConfig{
			RoomFile:    "data/rooms/living_room.yaml",
			ScriptsDir:  "scripts",
			ScanDelay:   2 * time.Second,
			PlayerSpeed: 1.4,
			ThrowEvery:  20 * time.Second,
			HandEvery:   45 * time.Second,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  0.7,
		},
		Debug: DebugConfig{
			Enabled:     false,
			BindAddress: "127.0.0.1:7777",
			StreamEvery: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
