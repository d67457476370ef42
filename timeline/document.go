// Package timeline holds the in-memory document a runtime plays: the clock,
// the scene nodes and the tracks bound to them.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/matt-g-everett/motion/scene"
	"github.com/matt-g-everett/motion/stream"
	"github.com/matt-g-everett/motion/track"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid document")

// Document is a timeline with its scene. Playing is runtime state and is
// never persisted.
type Document struct {
	Name        string       `yaml:"name,omitempty"`
	Duration    float64      `yaml:"duration"`
	Loop        bool         `yaml:"loop,omitempty"`
	Speed       float64      `yaml:"speed,omitempty"`
	CurrentTime float64      `yaml:"currentTime,omitempty"`
	Nodes       []scene.Node `yaml:"nodes"`

	// Lanes are the tracks in evaluation order. Later lanes win when they
	// write the same channel.
	Lanes []*track.Track `yaml:"tracks"`

	playing bool
}

// New creates an empty document of the given duration in milliseconds.
func New(duration float64) *Document {
	d := new(Document)
	d.Duration = duration
	d.Speed = 1
	return d
}

// Clock returns the playback state.
func (d *Document) Clock() stream.Clock {
	return stream.Clock{
		CurrentTime: d.CurrentTime,
		Duration:    d.Duration,
		Playing:     d.playing,
		Loop:        d.Loop,
		Speed:       d.Speed,
	}
}

// Tracks returns the tracks in evaluation order.
func (d *Document) Tracks() []*track.Track {
	return d.Lanes
}

// SetTime moves the playhead.
func (d *Document) SetTime(ms float64) {
	d.CurrentTime = ms
}

// SetPlaying sets the playing flag.
func (d *Document) SetPlaying(playing bool) {
	d.playing = playing
}

// Track finds a track by id.
func (d *Document) Track(id string) (*track.Track, bool) {
	for _, t := range d.Lanes {
		if t != nil && t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// AddNode appends a scene node.
func (d *Document) AddNode(id, parentID string) {
	d.Nodes = append(d.Nodes, scene.Node{ID: id, ParentID: parentID})
}

// AddTrack appends a track, sorting its keyframes.
func (d *Document) AddTrack(t *track.Track) {
	t.SortKeyframes()
	d.Lanes = append(d.Lanes, t)
}

// Validate checks the document for problems that would make tracks
// unplayable. All problems are reported together.
func (d *Document) Validate() error {
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
	}

	if d.Duration < 0 || math.IsNaN(d.Duration) {
		fail("duration %v", d.Duration)
	}

	nodes := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			fail("node without id")
		}
		if nodes[n.ID] {
			fail("duplicate node %q", n.ID)
		}
		nodes[n.ID] = true
	}

	ids := make(map[string]bool, len(d.Lanes))
	for i, t := range d.Lanes {
		if t == nil {
			fail("track %d is empty", i)
			continue
		}
		if t.ID == "" {
			fail("track %d has no id", i)
		} else if ids[t.ID] {
			fail("duplicate track %q", t.ID)
		}
		ids[t.ID] = true

		for _, k := range t.Keyframes {
			if k.Time < 0 {
				fail("track %q: keyframe at %vms", t.ID, k.Time)
				break
			}
		}

		switch t.Property {
		case track.Audio:
			if t.Audio == nil || t.Audio.Source == "" {
				fail("track %q: audio track needs a source", t.ID)
			}
			continue
		case track.Physics:
			if t.Physics == nil {
				fail("track %q: physics track needs a config", t.ID)
			} else if !t.Physics.Type.Valid() {
				fail("track %q: unknown physics type %q", t.ID, t.Physics.Type)
			} else if t.Physics.Property == "" {
				fail("track %q: physics track drives no property", t.ID)
			}
		}
		if t.TargetID == "" {
			fail("track %q has no target", t.ID)
		}
	}

	return errors.Join(errs...)
}
