package track

import (
	"sort"

	"github.com/matt-g-everett/motion/physics"
)

// Keyframe is an authored sample of a track. Time is in milliseconds.
type Keyframe struct {
	Time   float64 `yaml:"time"`
	Value  Value   `yaml:"value"`
	Easing Easing  `yaml:"easing,omitempty"`
}

// AudioConfig describes the clip an audio track plays.
type AudioConfig struct {
	Source   string     `yaml:"source"`
	Offset   float64    `yaml:"offset"`             // Timeline time the clip starts at (ms)
	Duration float64    `yaml:"duration,omitempty"` // Overrides the decoded length when > 0 (ms)
	Gain     float64    `yaml:"gain,omitempty"`     // Base gain, 0 means unity
	Volume   []Keyframe `yaml:"volume,omitempty"`
}

// BaseGain returns the configured gain with the unity default applied.
func (c *AudioConfig) BaseGain() float64 {
	if c.Gain == 0 {
		return 1
	}
	return c.Gain
}

// A Track binds a node property to keyframes or to a physics simulation.
// Keyframes must be sorted by time.
type Track struct {
	ID        string          `yaml:"id"`
	TargetID  string          `yaml:"target"`
	Property  Property        `yaml:"property"`
	Keyframes []Keyframe      `yaml:"keyframes,omitempty"`
	Physics   *physics.Config `yaml:"physics,omitempty"`
	Audio     *AudioConfig    `yaml:"audio,omitempty"`
}

// Sorted reports whether the keyframes are in ascending time order.
func (t *Track) Sorted() bool {
	return sort.SliceIsSorted(t.Keyframes, func(i, j int) bool {
		return t.Keyframes[i].Time < t.Keyframes[j].Time
	})
}

// SortKeyframes orders keyframes by time, keeping authored order for ties.
func (t *Track) SortKeyframes() {
	sort.SliceStable(t.Keyframes, func(i, j int) bool {
		return t.Keyframes[i].Time < t.Keyframes[j].Time
	})
}
