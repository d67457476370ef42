package track

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a number, a sequence of numbers or a hex colour.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var components []float64
		if err := node.Decode(&components); err != nil {
			return fmt.Errorf("line %d: vector value: %w", node.Line, err)
		}
		*v = Vec(components...)
		return nil
	case yaml.ScalarNode:
		if strings.HasPrefix(node.Value, "#") {
			c, err := Hex(node.Value)
			if err != nil {
				return fmt.Errorf("line %d: colour value: %w", node.Line, err)
			}
			*v = c
			return nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return fmt.Errorf("line %d: scalar value: %w", node.Line, err)
		}
		*v = Number(f)
		return nil
	}
	return fmt.Errorf("line %d: unsupported keyframe value", node.Line)
}

// MarshalYAML writes the value back in the form UnmarshalYAML reads.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.Kind {
	case KindVector:
		return v.Vector, nil
	case KindColor:
		hex := v.Color.Clamped().Hex()
		if v.Alpha < 1 {
			hex += fmt.Sprintf("%02x", uint8(v.Alpha*255+0.5))
		}
		return hex, nil
	}
	return v.Scalar, nil
}

// UnmarshalYAML rejects property names outside the supported set.
func (p *Property) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if !Property(s).Valid() {
		return fmt.Errorf("line %d: unknown property %q", node.Line, s)
	}
	*p = Property(s)
	return nil
}

// UnmarshalYAML rejects easings that do not resolve to a curve.
func (e *Easing) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if !Easing(s).Valid() {
		return fmt.Errorf("line %d: unknown easing %q", node.Line, s)
	}
	*e = Easing(s)
	return nil
}
