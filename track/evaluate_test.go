package track

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func opacityTrack() *Track {
	return &Track{
		ID:       "fade",
		TargetID: "a",
		Property: Opacity,
		Keyframes: []Keyframe{
			{Time: 0, Value: Number(0), Easing: Linear},
			{Time: 1000, Value: Number(1), Easing: Linear},
		},
	}
}

func TestEvaluateLinearMidpoint(t *testing.T) {
	v, ok := Evaluate(opacityTrack(), 500)
	if !ok {
		t.Fatal("expected a value")
	}
	if math.Abs(v.Scalar-0.5) > 1e-9 {
		t.Errorf("expected 0.5, got %v", v.Scalar)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	if _, ok := Evaluate(&Track{Property: X}, 100); ok {
		t.Error("expected no value for a track without keyframes")
	}
	if _, ok := Evaluate(nil, 100); ok {
		t.Error("expected no value for a nil track")
	}
}

func TestEvaluateSingleKeyframe(t *testing.T) {
	tr := &Track{Property: X, Keyframes: []Keyframe{{Time: 300, Value: Number(42)}}}
	for _, at := range []float64{0, 300, 5000} {
		v, _ := Evaluate(tr, at)
		if v.Scalar != 42 {
			t.Errorf("at %v: expected 42, got %v", at, v.Scalar)
		}
	}
}

func TestEvaluateExactAtKeyframes(t *testing.T) {
	tr := &Track{
		Property: X,
		Keyframes: []Keyframe{
			{Time: 0, Value: Number(3), Easing: "outBounce"},
			{Time: 250, Value: Number(-7), Easing: "inOutElastic"},
			{Time: 900, Value: Number(11.5), Easing: EaseInOut},
			{Time: 1200, Value: Number(2), Easing: "cubic-bezier(0.1, 0.7, 1, 0.1)"},
		},
	}

	for i, kf := range tr.Keyframes {
		v, ok := Evaluate(tr, kf.Time)
		if !ok {
			t.Fatalf("keyframe %d: expected a value", i)
		}
		if v.Scalar != kf.Value.Scalar {
			t.Errorf("keyframe %d: expected %v, got %v", i, kf.Value.Scalar, v.Scalar)
		}
	}
}

func TestEvaluateClamps(t *testing.T) {
	tr := &Track{
		Property: X,
		Keyframes: []Keyframe{
			{Time: 100, Value: Number(1)},
			{Time: 200, Value: Number(2)},
		},
	}

	if v, _ := Evaluate(tr, -50); v.Scalar != 1 {
		t.Errorf("before first: expected 1, got %v", v.Scalar)
	}
	if v, _ := Evaluate(tr, 99); v.Scalar != 1 {
		t.Errorf("before first: expected 1, got %v", v.Scalar)
	}
	if v, _ := Evaluate(tr, 10000); v.Scalar != 2 {
		t.Errorf("after last: expected 2, got %v", v.Scalar)
	}
}

func TestEvaluateTiesResolveToLater(t *testing.T) {
	tr := &Track{
		Property: X,
		Keyframes: []Keyframe{
			{Time: 0, Value: Number(0)},
			{Time: 500, Value: Number(10)},
			{Time: 500, Value: Number(20)},
			{Time: 1000, Value: Number(30)},
		},
	}

	if v, _ := Evaluate(tr, 500); v.Scalar != 20 {
		t.Errorf("expected the later keyframe (20), got %v", v.Scalar)
	}
	if v, _ := Evaluate(tr, 750); math.Abs(v.Scalar-25) > 1e-9 {
		t.Errorf("expected 25 after the tie, got %v", v.Scalar)
	}
	if v, _ := Evaluate(tr, 250); math.Abs(v.Scalar-5) > 1e-9 {
		t.Errorf("expected 5 before the tie, got %v", v.Scalar)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	tr := &Track{
		Property: Position,
		Keyframes: []Keyframe{
			{Time: 0, Value: Vec(0, 0, 0), Easing: "inOutCubic"},
			{Time: 800, Value: Vec(100, -40, 8)},
		},
	}

	// Scrub forwards then backwards; every repeat must match.
	times := []float64{0, 120, 400, 799, 400, 120, 0}
	first := make([]Value, len(times))
	for i, at := range times {
		first[i], _ = Evaluate(tr, at)
	}
	for i, at := range times {
		again, _ := Evaluate(tr, at)
		if !again.Equal(first[i]) {
			t.Errorf("at %v: %v != %v", at, again, first[i])
		}
	}
	a, _ := Evaluate(tr, 400)
	b, _ := Evaluate(tr, 400)
	if !a.Equal(b) {
		t.Errorf("repeat evaluation differed: %v vs %v", a, b)
	}
}

func TestEvaluateVectorPerComponent(t *testing.T) {
	tr := &Track{
		Property: Position,
		Keyframes: []Keyframe{
			{Time: 0, Value: Vec(0, 10, 100)},
			{Time: 100, Value: Vec(10, 20, 0)},
		},
	}

	v, _ := Evaluate(tr, 50)
	want := []float64{5, 15, 50}
	for i, w := range want {
		if math.Abs(v.Vector[i]-w) > 1e-9 {
			t.Errorf("component %d: expected %v, got %v", i, w, v.Vector[i])
		}
	}
}

func TestEvaluateColorPerChannel(t *testing.T) {
	black, _ := colorful.Hex("#000000")
	white, _ := colorful.Hex("#ffffff")
	tr := &Track{
		Property: BackgroundColor,
		Keyframes: []Keyframe{
			{Time: 0, Value: RGBA(black, 0)},
			{Time: 1000, Value: RGBA(white, 1)},
		},
	}

	v, _ := Evaluate(tr, 500)
	if v.Kind != KindColor {
		t.Fatalf("expected colour, got %v", v.Kind)
	}
	for _, c := range []float64{v.Color.R, v.Color.G, v.Color.B, v.Alpha} {
		if math.Abs(c-0.5) > 1e-9 {
			t.Errorf("expected channel 0.5, got %v", c)
		}
	}
}

func TestEvaluateHoldEasing(t *testing.T) {
	tr := &Track{
		Property: X,
		Keyframes: []Keyframe{
			{Time: 0, Value: Number(1), Easing: Hold},
			{Time: 100, Value: Number(2)},
		},
	}

	if v, _ := Evaluate(tr, 99); v.Scalar != 1 {
		t.Errorf("expected held value 1, got %v", v.Scalar)
	}
	if v, _ := Evaluate(tr, 100); v.Scalar != 2 {
		t.Errorf("expected 2 at the keyframe, got %v", v.Scalar)
	}
}

func TestEvaluateMismatchedKinds(t *testing.T) {
	tr := &Track{
		Property: X,
		Keyframes: []Keyframe{
			{Time: 0, Value: Number(1)},
			{Time: 100, Value: Vec(5, 5)},
		},
	}

	if v, _ := Evaluate(tr, 50); !v.Equal(Number(1)) {
		t.Errorf("expected the leading value to hold, got %v", v)
	}
}
