package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a node's 2.5D transform. Rotation holds Euler angles in
// degrees. A nil Perspective means none is set.
type Transform struct {
	Position    mgl64.Vec3
	Scale       mgl64.Vec3
	Rotation    mgl64.Vec3
	Opacity     float64
	Perspective *float64
}

// Identity returns the transform that leaves a node unchanged.
func Identity() Transform {
	return Transform{
		Scale:   mgl64.Vec3{1, 1, 1},
		Opacity: 1,
	}
}

// Compose inherits local into parent: the local offset is scaled per axis by
// the parent's scale, scales and opacities multiply, and rotations add per
// axis. Rotations are not composed as quaternions.
func Compose(parent, local Transform) Transform {
	world := Transform{
		Position: parent.Position.Add(mulElem(local.Position, parent.Scale)),
		Scale:    mulElem(parent.Scale, local.Scale),
		Rotation: parent.Rotation.Add(local.Rotation),
		Opacity:  parent.Opacity * local.Opacity,
	}

	world.Perspective = parent.Perspective
	if local.Perspective != nil {
		world.Perspective = local.Perspective
	}
	return world
}

// Matrix encodes the transform as a 4x4 matrix: translate, then rotate X, Y
// and Z, then scale. Opacity and perspective are not part of the matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	m := mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(t.Rotation.X())))
	m = m.Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(t.Rotation.Y())))
	m = m.Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(t.Rotation.Z())))
	return m.Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// ApproxEqual compares two transforms channel by channel with
// mgl64.FloatEqualThreshold.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	if !t.Position.ApproxEqualThreshold(o.Position, eps) ||
		!t.Scale.ApproxEqualThreshold(o.Scale, eps) ||
		!t.Rotation.ApproxEqualThreshold(o.Rotation, eps) ||
		!mgl64.FloatEqualThreshold(t.Opacity, o.Opacity, eps) {
		return false
	}
	if (t.Perspective == nil) != (o.Perspective == nil) {
		return false
	}
	return t.Perspective == nil || mgl64.FloatEqualThreshold(*t.Perspective, *o.Perspective, eps)
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
