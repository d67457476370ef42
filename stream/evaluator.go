package stream

import (
	"fmt"

	"github.com/matt-g-everett/motion/track"
)

// evaluateTrack writes one track's output for the tick into the node
// buffers. dt is the physics step in seconds. Panics are recovered so a
// single bad track cannot take the tick down.
func (r *Runtime) evaluateTrack(tr *track.Track, now, dt float64, playing bool) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s: %v", ErrMalformedTrack, tr.ID, p)
		}
	}()

	switch tr.Property {
	case track.Audio:
		if r.audio == nil || !playing {
			return nil
		}
		if tr.Audio == nil {
			return fmt.Errorf("%w: %s: audio track without audio config", ErrMalformedTrack, tr.ID)
		}
		r.audio.Update(tr, now)
		return nil

	case track.Physics:
		i, ok := r.graph.Index(tr.TargetID)
		if !ok {
			return fmt.Errorf("%w: %s: node %q", ErrMissingTarget, tr.ID, tr.TargetID)
		}
		cfg := tr.Physics
		if cfg == nil {
			return fmt.Errorf("%w: %s: physics track without physics config", ErrMalformedTrack, tr.ID)
		}
		if !cfg.Type.Valid() {
			return fmt.Errorf("%w: %s: physics type %q", ErrMalformedTrack, tr.ID, cfg.Type)
		}
		if cfg.Property == "" {
			return fmt.Errorf("%w: %s: physics track drives no property", ErrMalformedTrack, tr.ID)
		}
		s := r.physics.Advance(tr.ID, *cfg, dt)
		r.write(i, track.Property(cfg.Property), track.Number(s.Position))
		return nil

	default:
		if !tr.Property.Valid() {
			return fmt.Errorf("%w: %s: property %q", ErrMalformedTrack, tr.ID, tr.Property)
		}
		i, ok := r.graph.Index(tr.TargetID)
		if !ok {
			return fmt.Errorf("%w: %s: node %q", ErrMissingTarget, tr.ID, tr.TargetID)
		}
		v, ok := track.Evaluate(tr, now)
		if !ok {
			return nil
		}
		r.write(i, tr.Property, v)
		return nil
	}
}

// write stores a value on node i. Transform channels go to the local
// transform, everything else into the node's style patch.
func (r *Runtime) write(i int, p track.Property, v track.Value) {
	local := r.comp.Local(i)

	switch p {
	case track.X:
		local.Position[0] = v.Float()
	case track.Y:
		local.Position[1] = v.Float()
	case track.Z:
		local.Position[2] = v.Float()
	case track.Position:
		for c := range local.Position {
			local.Position[c] = v.Component(c, local.Position[c])
		}
	case track.Scale:
		local.Scale[0] = v.Component(0, local.Scale[0])
		local.Scale[1] = v.Component(1, local.Scale[1])
	case track.ScaleX:
		local.Scale[0] = v.Float()
	case track.ScaleY:
		local.Scale[1] = v.Float()
	case track.ScaleZ:
		local.Scale[2] = v.Float()
	case track.Rotate, track.RotateZ:
		local.Rotation[2] = v.Float()
	case track.RotateX:
		local.Rotation[0] = v.Float()
	case track.RotateY:
		local.Rotation[1] = v.Float()
	case track.Opacity:
		local.Opacity = v.Float()
	case track.Perspective:
		d := v.Float()
		local.Perspective = &d
	default:
		if r.styles[i] == nil {
			r.styles[i] = make(track.Style)
		}
		r.styles[i][string(p)] = v
	}
}
