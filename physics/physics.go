// Package physics steps the procedural simulations that drive physics
// tracks. Every integrator is a pure function of state, config and dt.
package physics

import "math"

// Type selects an integrator.
type Type string

const (
	Spring  Type = "spring"
	Inertia Type = "inertia"
	Gravity Type = "gravity"
)

// Defaults applied when a config leaves a parameter at zero.
const (
	DefaultMass        = 1.0
	DefaultStiffness   = 180.0
	DefaultDamping     = 12.0
	DefaultFriction    = 0.95
	DefaultGravity     = 980.0
	DefaultRestitution = 0.5
)

// Config parameterises a simulation. Property names the output channel the
// simulated scalar is written to. Nil parameters take the package defaults;
// an explicit zero is kept.
type Config struct {
	Type     Type    `yaml:"type"`
	Property string  `yaml:"property"`
	Target   float64 `yaml:"target,omitempty"`
	From     float64 `yaml:"from,omitempty"`
	Velocity float64 `yaml:"velocity,omitempty"`

	Mass      *float64 `yaml:"mass,omitempty"`
	Stiffness *float64 `yaml:"stiffness,omitempty"`
	Damping   *float64 `yaml:"damping,omitempty"`

	Friction *float64 `yaml:"friction,omitempty"`

	Gravity     *float64 `yaml:"gravity,omitempty"`
	Floor       *float64 `yaml:"floor,omitempty"`
	Restitution *float64 `yaml:"restitution,omitempty"`
}

// State is the simulated position and velocity of one track.
type State struct {
	Position float64
	Velocity float64
}

// Valid reports whether t names a known integrator.
func (t Type) Valid() bool {
	switch t {
	case Spring, Inertia, Gravity:
		return true
	}
	return false
}

// Initial returns the state a simulation starts from.
func Initial(cfg Config) State {
	return State{Position: cfg.From, Velocity: cfg.Velocity}
}

// Step advances s by one explicit step of dt seconds; see Simulate for
// long advances. Unknown types and non-positive dt leave the
// state unchanged.
func Step(s State, cfg Config, dt float64) State {
	if dt <= 0 {
		return s
	}

	switch cfg.Type {
	case Spring:
		return stepSpring(s, cfg, dt)
	case Inertia:
		return stepInertia(s, cfg, dt)
	case Gravity:
		return stepGravity(s, cfg, dt)
	}
	return s
}

// stepSpring integrates a damped oscillator with semi-implicit Euler.
func stepSpring(s State, cfg Config, dt float64) State {
	mass := orDefault(cfg.Mass, DefaultMass)
	if mass <= 0 {
		mass = DefaultMass
	}
	k := orDefault(cfg.Stiffness, DefaultStiffness)
	c := orDefault(cfg.Damping, DefaultDamping)

	force := -k*(s.Position-cfg.Target) - c*s.Velocity
	v := s.Velocity + (force/mass)*dt
	return State{Position: s.Position + v*dt, Velocity: v}
}

// stepInertia decays velocity exponentially, normalised to 60 steps a second.
// Velocity is in units per millisecond.
func stepInertia(s State, cfg Config, dt float64) State {
	friction := orDefault(cfg.Friction, DefaultFriction)

	v := s.Velocity * math.Pow(friction, dt*60)
	return State{Position: s.Position + v*dt*1000, Velocity: v}
}

// stepGravity accelerates along g and bounces off Floor. With the default
// positive g (screen space, y down) the floor is crossed from below.
func stepGravity(s State, cfg Config, dt float64) State {
	g := orDefault(cfg.Gravity, DefaultGravity)
	restitution := orDefault(cfg.Restitution, DefaultRestitution)

	v := s.Velocity + g*dt
	x := s.Position + v*dt
	if cfg.Floor != nil {
		floor := *cfg.Floor
		if (g > 0 && x > floor) || (g < 0 && x < floor) {
			x = floor
			v = -v * restitution
		}
	}
	return State{Position: x, Velocity: v}
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
