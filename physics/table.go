package physics

import "math"

// MaxStep is the largest single integration step in seconds. Longer
// advances are split into equal sub-steps no longer than this.
const MaxStep = 1.0 / 120

// MaxSteps bounds the sub-steps of one advance. Time beyond
// MaxSteps*MaxStep is dropped.
const MaxSteps = 240

// Table holds the live simulation state of each physics track, keyed by
// track id. Entries persist across ticks until Reset.
type Table map[string]State

// Advance steps the state of track id, seeding it from cfg on first use.
func (t Table) Advance(id string, cfg Config, dt float64) State {
	s, ok := t[id]
	if !ok {
		s = Initial(cfg)
	}
	s = Simulate(s, cfg, dt)
	t[id] = s
	return s
}

// Reset discards every simulation.
func (t Table) Reset() {
	for id := range t {
		delete(t, id)
	}
}

// Simulate advances s by dt seconds in fixed sub-steps of at most MaxStep.
func Simulate(s State, cfg Config, dt float64) State {
	if dt <= 0 || math.IsNaN(dt) {
		return s
	}
	n := math.Ceil(dt / MaxStep)
	if n > MaxSteps {
		n = MaxSteps
		dt = MaxSteps * MaxStep
	}
	h := dt / n
	for i := 0; i < int(n); i++ {
		s = Step(s, cfg, h)
	}
	return s
}
