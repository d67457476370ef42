package track

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/motion/util"
)

// Kind tags which field of a Value is populated.
type Kind int

const (
	KindScalar Kind = iota
	KindVector
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindColor:
		return "color"
	}
	return "unknown"
}

// Value is a keyframe sample: a scalar, a vector or an RGBA colour.
type Value struct {
	Kind   Kind
	Scalar float64
	Vector []float64
	Color  colorful.Color
	Alpha  float64
}

// Style is a patch of non-transform outputs keyed by style name.
type Style map[string]Value

// Number creates a scalar Value.
func Number(v float64) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

// Vec creates a vector Value.
func Vec(components ...float64) Value {
	return Value{Kind: KindVector, Vector: components}
}

// RGBA creates a colour Value.
func RGBA(c colorful.Color, alpha float64) Value {
	return Value{Kind: KindColor, Color: c, Alpha: alpha}
}

// Hex parses #rgb, #rrggbb or #rrggbbaa into a colour Value.
func Hex(s string) (Value, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Value{}, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		alpha = float64(a) / 255.0
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return Value{}, err
	}
	return RGBA(c, alpha), nil
}

// Float collapses the value to a single number. Vectors yield their first
// component and colours their alpha.
func (v Value) Float() float64 {
	switch v.Kind {
	case KindVector:
		if len(v.Vector) == 0 {
			return 0
		}
		return v.Vector[0]
	case KindColor:
		return v.Alpha
	}
	return v.Scalar
}

// Component returns the i-th vector component, or fallback when absent.
func (v Value) Component(i int, fallback float64) float64 {
	if v.Kind == KindScalar {
		return v.Scalar
	}
	if v.Kind != KindVector || i >= len(v.Vector) {
		return fallback
	}
	return v.Vector[i]
}

func (v Value) String() string {
	switch v.Kind {
	case KindVector:
		parts := make([]string, len(v.Vector))
		for i, c := range v.Vector {
			parts[i] = strconv.FormatFloat(c, 'f', -1, 64)
		}
		return strings.Join(parts, " ")
	case KindColor:
		if v.Alpha >= 1 {
			return v.Color.Clamped().Hex()
		}
		r, g, b := v.Color.Clamped().RGB255()
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(v.Alpha, 'f', 3, 64))
	}
	return strconv.FormatFloat(v.Scalar, 'f', -1, 64)
}

// Equal reports whether two values hold the same kind and components.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindVector:
		if len(v.Vector) != len(o.Vector) {
			return false
		}
		for i := range v.Vector {
			if v.Vector[i] != o.Vector[i] {
				return false
			}
		}
		return true
	case KindColor:
		return v.Color == o.Color && v.Alpha == o.Alpha
	}
	return v.Scalar == o.Scalar
}

// Interpolate blends from a to b by u, component by component. Values of
// different kinds cannot be blended so a is held until the segment ends.
func Interpolate(a, b Value, u float64) Value {
	if a.Kind != b.Kind {
		return a
	}

	switch a.Kind {
	case KindVector:
		n := len(a.Vector)
		if len(b.Vector) < n {
			n = len(b.Vector)
		}
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = util.Lerp(a.Vector[i], b.Vector[i], u)
		}
		return Vec(out...)
	case KindColor:
		return RGBA(a.Color.BlendRgb(b.Color, u), util.Lerp(a.Alpha, b.Alpha, u))
	}
	return Number(util.Lerp(a.Scalar, b.Scalar, u))
}

// MarshalText renders the value as String does, so styles encode as plain
// strings.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses the forms String produces.
func (v *Value) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	switch {
	case strings.HasPrefix(s, "#"):
		c, err := Hex(s)
		if err != nil {
			return err
		}
		*v = c
		return nil
	case strings.HasPrefix(s, "rgba("):
		var r, g, b uint8
		var a float64
		if _, err := fmt.Sscanf(s, "rgba(%d, %d, %d, %g)", &r, &g, &b, &a); err != nil {
			return fmt.Errorf("invalid colour %q: %w", s, err)
		}
		*v = RGBA(colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, a)
		return nil
	}

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return fmt.Errorf("empty value")
	}
	nums := make([]float64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", s, err)
		}
		nums[i] = n
	}
	if len(nums) == 1 {
		*v = Number(nums[0])
	} else {
		*v = Vec(nums...)
	}
	return nil
}
