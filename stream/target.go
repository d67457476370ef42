package stream

import (
	"github.com/matt-g-everett/motion/scene"
	"github.com/matt-g-everett/motion/track"
)

// A RenderTarget receives a node's output once per tick. The style patch is
// only valid for the duration of the call.
type RenderTarget interface {
	Apply(world scene.Transform, style track.Style) error
}

// TargetFunc adapts a function to RenderTarget.
type TargetFunc func(world scene.Transform, style track.Style) error

// Apply calls f.
func (f TargetFunc) Apply(world scene.Transform, style track.Style) error {
	return f(world, style)
}

// A FrameSink receives the whole frame after targets have been updated.
type FrameSink interface {
	Publish(f *Frame) error
}
