package timeline

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/matt-g-everett/motion/physics"
	"github.com/matt-g-everett/motion/scene"
	"github.com/matt-g-everett/motion/stream"
	"github.com/matt-g-everett/motion/track"
)

const sample = `
name: intro
duration: 2000
loop: true
nodes:
  - id: stage
  - id: logo
    parent: stage
tracks:
  - id: fade
    target: logo
    property: opacity
    keyframes:
      - {time: 1000, value: 1}
      - {time: 0, value: 0, easing: easeInOut}
  - id: tint
    target: logo
    property: color
    keyframes:
      - {time: 0, value: "#ff0000"}
      - {time: 1000, value: "#0000ff"}
  - id: slide
    target: stage
    property: position
    keyframes:
      - {time: 0, value: [0, 0, 0]}
      - {time: 2000, value: [200, 100, 0]}
  - id: drop
    target: logo
    property: physics
    physics: {type: gravity, property: y, floor: 300}
  - id: music
    property: audio
    audio:
      source: theme.wav
      offset: 250
      volume:
        - {time: 0, value: 0}
        - {time: 1000, value: 1}
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "intro" || d.Duration != 2000 || !d.Loop || d.Speed != 1 {
		t.Errorf("header = %+v", d)
	}
	if len(d.Nodes) != 2 || d.Nodes[1].ParentID != "stage" {
		t.Errorf("nodes = %+v", d.Nodes)
	}
	if len(d.Tracks()) != 5 {
		t.Fatalf("got %d tracks, want 5", len(d.Tracks()))
	}

	fade, _ := d.Track("fade")
	if !fade.Sorted() || fade.Keyframes[0].Easing != track.EaseInOut {
		t.Errorf("fade keyframes not sorted: %+v", fade.Keyframes)
	}
	slide, _ := d.Track("slide")
	if slide.Keyframes[1].Value.Kind != track.KindVector {
		t.Errorf("slide value kind = %v", slide.Keyframes[1].Value.Kind)
	}
	drop, _ := d.Track("drop")
	if drop.Physics.Type != physics.Gravity || drop.Physics.Floor == nil || *drop.Physics.Floor != 300 {
		t.Errorf("drop physics = %+v", drop.Physics)
	}
	music, _ := d.Track("music")
	if music.Audio.Offset != 250 || len(music.Audio.Volume) != 2 {
		t.Errorf("music audio = %+v", music.Audio)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown property", "duration: 10\ntracks:\n  - {id: a, target: n, property: wiggle}\n"},
		{"unknown easing", "duration: 10\ntracks:\n  - {id: a, target: n, property: x, keyframes: [{time: 0, value: 1, easing: wobbly}]}\n"},
		{"physics without config", "duration: 10\ntracks:\n  - {id: a, target: n, property: physics}\n"},
		{"bad physics type", "duration: 10\ntracks:\n  - {id: a, target: n, property: physics, physics: {type: magnet, property: x}}\n"},
		{"audio without source", "duration: 10\ntracks:\n  - {id: a, property: audio}\n"},
		{"duplicate track", "duration: 10\ntracks:\n  - {id: a, target: n, property: x}\n  - {id: a, target: n, property: y}\n"},
		{"negative duration", "duration: -5\n"},
		{"missing target", "duration: 10\ntracks:\n  - {id: a, property: x}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("Parse succeeded")
			}
		})
	}
}

func TestValidateWrapsErrInvalid(t *testing.T) {
	d := New(1000)
	d.AddTrack(&track.Track{ID: "a", Property: track.Physics})
	d.AddTrack(&track.Track{ID: "a", TargetID: "n", Property: track.X})

	err := d.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestWriteRead(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "intro.yaml")
	if err := Write(d, path); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tracks()) != len(d.Tracks()) {
		t.Fatalf("got %d tracks, want %d", len(got.Tracks()), len(d.Tracks()))
	}
	for i, want := range d.Tracks() {
		tr := got.Tracks()[i]
		if tr.ID != want.ID || tr.Property != want.Property || len(tr.Keyframes) != len(want.Keyframes) {
			t.Errorf("track %d = %+v, want %+v", i, tr, want)
			continue
		}
		for k := range tr.Keyframes {
			if !tr.Keyframes[k].Value.Equal(want.Keyframes[k].Value) {
				t.Errorf("track %s keyframe %d = %v, want %v", tr.ID, k, tr.Keyframes[k].Value, want.Keyframes[k].Value)
			}
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Read succeeded on a missing file")
	}
}

func TestDocumentDrivesRuntime(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	r := stream.NewRuntime(d, d.Nodes)

	var logo scene.Transform
	var style track.Style
	r.Register("logo", stream.TargetFunc(func(w scene.Transform, s track.Style) error {
		logo, style = w, s
		return nil
	}))

	r.Play()
	r.Tick(500 * time.Millisecond)

	if d.CurrentTime != 500 || !d.Clock().Playing {
		t.Fatalf("clock = %+v", d.Clock())
	}
	if math.Abs(logo.Opacity-0.5) > 1e-4 {
		t.Errorf("opacity = %v, want 0.5", logo.Opacity)
	}
	if math.Abs(logo.Position[0]-50) > 1e-9 {
		t.Errorf("x = %v, want 50 inherited from stage", logo.Position[0])
	}
	if _, ok := style["color"]; !ok {
		t.Errorf("style = %v, want color", style)
	}

	r.Stop()
	if d.Clock().Playing {
		t.Error("still playing after stop")
	}
}

func TestTrackSkipsEmptyLanes(t *testing.T) {
	d := New(1000)
	d.Lanes = append(d.Lanes, nil)
	d.AddTrack(&track.Track{ID: "x", TargetID: "n", Property: track.X})

	if tr, ok := d.Track("x"); !ok || tr.ID != "x" {
		t.Errorf("Track(x) = %v, %v", tr, ok)
	}
	if _, ok := d.Track("missing"); ok {
		t.Error("found a track that does not exist")
	}
	if err := d.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate = %v, want ErrInvalid for the empty lane", err)
	}
}
