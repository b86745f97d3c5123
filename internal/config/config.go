package config

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the calibrated screen coordinates for one emulator
// layout. It is produced by external calibration tooling and loaded
// once per session; the bot never mutates it.
type Config struct {
	DifficultyButtons map[string]Point `json:"difficulty_buttons" yaml:"difficulty_buttons"`
	DifficultyScroll  Gesture          `json:"difficulty_scroll" yaml:"difficulty_scroll"`
	SeriesButtons     map[string]Point `json:"series_buttons" yaml:"series_buttons"`
	ExpansionScroll   Gesture          `json:"expansion_scroll" yaml:"expansion_scroll"`
	ExpansionSlots    []Point          `json:"expansion_slots" yaml:"expansion_slots"`
	ExpansionsButton  Point            `json:"expansions_button" yaml:"expansions_button"`
	BattleListRegion  Region           `json:"battle_list_region" yaml:"battle_list_region"`
	RewardRegion      Region           `json:"reward_detection_region" yaml:"reward_detection_region"`

	// Battle engagement and reset-flow coordinates.
	AutoButton       Point `json:"auto_button" yaml:"auto_button"`
	BattleButton     Point `json:"battle_button" yaml:"battle_button"`
	BattlesTab       Point `json:"battles_tab" yaml:"battles_tab"`
	SoloBattleButton Point `json:"solo_battle_button" yaml:"solo_battle_button"`
}

// Point is a tap coordinate. Calibration files store points as [x, y]
// arrays, so it unmarshals from a two-element sequence.
type Point struct {
	X int
	Y int
}

// Region is a screen rectangle stored as [x, y, w, h].
type Region struct {
	X int
	Y int
	W int
	H int
}

// Gesture is a swipe start/end pair.
type Gesture struct {
	Start Point `json:"start" yaml:"start"`
	End   Point `json:"end" yaml:"end"`
}

// MissingError reports a required coordinate absent from the config
// for the action about to execute. It is not retried.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("coordinate config missing required key %q", e.Key)
}

func (p *Point) UnmarshalJSON(b []byte) error {
	var a [2]int
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	p.X, p.Y = a[0], a[1]
	return nil
}

func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var a [2]int
	if err := value.Decode(&a); err != nil {
		return err
	}
	p.X, p.Y = a[0], a[1]
	return nil
}

// IsZero reports whether the point was never calibrated. Calibration
// tools write (0, 0) for keys the operator skipped.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

func (r *Region) UnmarshalJSON(b []byte) error {
	var a [4]int
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	r.X, r.Y, r.W, r.H = a[0], a[1], a[2], a[3]
	return nil
}

func (r *Region) UnmarshalYAML(value *yaml.Node) error {
	var a [4]int
	if err := value.Decode(&a); err != nil {
		return err
	}
	r.X, r.Y, r.W, r.H = a[0], a[1], a[2], a[3]
	return nil
}

func (r Region) IsZero() bool {
	return r == Region{}
}

// Rect converts to a stdlib rectangle for image cropping.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (g Gesture) isZero() bool {
	return g.Start.IsZero() && g.End.IsZero()
}

// Load reads a calibration file. The format is chosen by extension:
// .yaml/.yml parse as YAML, anything else as JSON (the calibration
// tooling historically writes adb_config.json).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// DifficultyButton returns the tap point for a difficulty tier.
func (c *Config) DifficultyButton(name string) (Point, error) {
	p, ok := c.DifficultyButtons[name]
	if !ok || p.IsZero() {
		return Point{}, &MissingError{Key: "difficulty_buttons." + name}
	}
	return p, nil
}

// SeriesButton returns the tap point for a series selector.
func (c *Config) SeriesButton(name string) (Point, error) {
	p, ok := c.SeriesButtons[name]
	if !ok || p.IsZero() {
		return Point{}, &MissingError{Key: "series_buttons." + name}
	}
	return p, nil
}

// Slot returns the tap point for the 1-indexed visible expansion slot.
// A slot number beyond the calibrated list is reported as missing.
func (c *Config) Slot(n int) (Point, error) {
	if n < 1 || n > len(c.ExpansionSlots) {
		return Point{}, &MissingError{Key: fmt.Sprintf("expansion_slots[%d]", n)}
	}
	p := c.ExpansionSlots[n-1]
	if p.IsZero() {
		return Point{}, &MissingError{Key: fmt.Sprintf("expansion_slots[%d]", n)}
	}
	return p, nil
}

func (c *Config) requirePoint(p Point, key string) (Point, error) {
	if p.IsZero() {
		return Point{}, &MissingError{Key: key}
	}
	return p, nil
}

func (c *Config) Expansions() (Point, error) {
	return c.requirePoint(c.ExpansionsButton, "expansions_button")
}

func (c *Config) Auto() (Point, error) {
	return c.requirePoint(c.AutoButton, "auto_button")
}

func (c *Config) Battle() (Point, error) {
	return c.requirePoint(c.BattleButton, "battle_button")
}

func (c *Config) Battles() (Point, error) {
	return c.requirePoint(c.BattlesTab, "battles_tab")
}

func (c *Config) SoloBattle() (Point, error) {
	return c.requirePoint(c.SoloBattleButton, "solo_battle_button")
}

// DifficultyScrollGesture returns the swipe that reveals the lower
// difficulty tiers.
func (c *Config) DifficultyScrollGesture() (Gesture, error) {
	if c.DifficultyScroll.isZero() {
		return Gesture{}, &MissingError{Key: "difficulty_scroll"}
	}
	return c.DifficultyScroll, nil
}

// ExpansionScrollGesture returns the swipe that advances the expansion
// list by one position.
func (c *Config) ExpansionScrollGesture() (Gesture, error) {
	if c.ExpansionScroll.isZero() {
		return Gesture{}, &MissingError{Key: "expansion_scroll"}
	}
	return c.ExpansionScroll, nil
}

// BattleList returns the scrollable battle list rectangle.
func (c *Config) BattleList() (Region, error) {
	if c.BattleListRegion.IsZero() {
		return Region{}, &MissingError{Key: "battle_list_region"}
	}
	return c.BattleListRegion, nil
}

// RewardDetection returns the rectangle where reward glyphs render.
func (c *Config) RewardDetection() (Region, error) {
	if c.RewardRegion.IsZero() {
		return Region{}, &MissingError{Key: "reward_detection_region"}
	}
	return c.RewardRegion, nil
}
