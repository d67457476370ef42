package track

// Property names the channel a Track drives.
type Property string

// Supported properties.
const (
	X               Property = "x"
	Y               Property = "y"
	Z               Property = "z"
	Position        Property = "position"
	Scale           Property = "scale"
	ScaleX          Property = "scaleX"
	ScaleY          Property = "scaleY"
	ScaleZ          Property = "scaleZ"
	Rotate          Property = "rotate"
	RotateX         Property = "rotateX"
	RotateY         Property = "rotateY"
	RotateZ         Property = "rotateZ"
	Opacity         Property = "opacity"
	Color           Property = "color"
	BackgroundColor Property = "backgroundColor"
	Blur            Property = "blur"
	ClipPath        Property = "clipPath"
	Perspective     Property = "perspective"
	Audio           Property = "audio"
	Physics         Property = "physics"
)

var properties = map[Property]bool{
	X: true, Y: true, Z: true, Position: true,
	Scale: true, ScaleX: true, ScaleY: true, ScaleZ: true,
	Rotate: true, RotateX: true, RotateY: true, RotateZ: true,
	Opacity: true, Color: true, BackgroundColor: true, Blur: true,
	ClipPath: true, Perspective: true, Audio: true, Physics: true,
}

// Valid reports whether p is one of the supported properties.
func (p Property) Valid() bool {
	return properties[p]
}

// IsStyle reports whether p writes into the style map rather than the transform.
func (p Property) IsStyle() bool {
	switch p {
	case Color, BackgroundColor, Blur, ClipPath:
		return true
	}
	return false
}
