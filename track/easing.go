package track

import (
	"fmt"
	"math"
	"strings"

	"github.com/fogleman/ease"
)

// Easing names the curve applied to a segment's phase.
type Easing string

// Named easings. Besides these, "cubic-bezier(x1, y1, x2, y2)" is accepted.
const (
	Linear    Easing = "linear"
	Hold      Easing = "step"
	Ease      Easing = "ease"
	EaseIn    Easing = "easeIn"
	EaseOut   Easing = "easeOut"
	EaseInOut Easing = "easeInOut"
)

var easings = map[Easing]func(float64) float64{
	Linear: ease.Linear,
	Hold:   func(t float64) float64 { return 0 },

	"inQuad":       ease.InQuad,
	"outQuad":      ease.OutQuad,
	"inOutQuad":    ease.InOutQuad,
	"inCubic":      ease.InCubic,
	"outCubic":     ease.OutCubic,
	"inOutCubic":   ease.InOutCubic,
	"inQuart":      ease.InQuart,
	"outQuart":     ease.OutQuart,
	"inOutQuart":   ease.InOutQuart,
	"inQuint":      ease.InQuint,
	"outQuint":     ease.OutQuint,
	"inOutQuint":   ease.InOutQuint,
	"inSine":       ease.InSine,
	"outSine":      ease.OutSine,
	"inOutSine":    ease.InOutSine,
	"inExpo":       ease.InExpo,
	"outExpo":      ease.OutExpo,
	"inOutExpo":    ease.InOutExpo,
	"inCirc":       ease.InCirc,
	"outCirc":      ease.OutCirc,
	"inOutCirc":    ease.InOutCirc,
	"inElastic":    ease.InElastic,
	"outElastic":   ease.OutElastic,
	"inOutElastic": ease.InOutElastic,
	"inBack":       ease.InBack,
	"outBack":      ease.OutBack,
	"inOutBack":    ease.InOutBack,
	"inBounce":     ease.InBounce,
	"outBounce":    ease.OutBounce,
	"inOutBounce":  ease.InOutBounce,
}

// CSS timing functions.
var beziers = map[Easing][4]float64{
	Ease:      {0.25, 0.1, 0.25, 1},
	EaseIn:    {0.42, 0, 1, 1},
	EaseOut:   {0, 0, 0.58, 1},
	EaseInOut: {0.42, 0, 0.58, 1},
}

// Func resolves the easing to a curve over [0, 1]. Unknown names fall back
// to linear.
func (e Easing) Func() func(float64) float64 {
	if f, ok := easings[e]; ok {
		return f
	}
	if p, ok := beziers[e]; ok {
		return cubicBezier(p[0], p[1], p[2], p[3])
	}
	if p, ok := parseBezier(string(e)); ok {
		return cubicBezier(p[0], p[1], p[2], p[3])
	}
	return ease.Linear
}

// Valid reports whether the easing resolves to a known curve. The empty
// easing is valid and means linear.
func (e Easing) Valid() bool {
	if e == "" {
		return true
	}
	if _, ok := easings[e]; ok {
		return true
	}
	if _, ok := beziers[e]; ok {
		return true
	}
	_, ok := parseBezier(string(e))
	return ok
}

// Apply eases the phase u.
func (e Easing) Apply(u float64) float64 {
	return e.Func()(u)
}

func parseBezier(s string) ([4]float64, bool) {
	var p [4]float64
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if !strings.HasPrefix(s, "cubic-bezier(") {
		return p, false
	}
	if _, err := fmt.Sscanf(s, "cubic-bezier(%g,%g,%g,%g)", &p[0], &p[1], &p[2], &p[3]); err != nil {
		return p, false
	}
	if p[0] < 0 || p[0] > 1 || p[2] < 0 || p[2] > 1 {
		return p, false
	}
	return p, true
}

// cubicBezier builds a CSS-style timing function through (0,0), (x1,y1),
// (x2,y2), (1,1).
func cubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(t float64) float64 { return ((ax*t+bx)*t + cx) * t }
	sampleY := func(t float64) float64 { return ((ay*t+by)*t + cy) * t }
	slopeX := func(t float64) float64 { return (3*ax*t+2*bx)*t + cx }

	return func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		if x >= 1 {
			return 1
		}

		// Newton first, bisection when the slope flattens out.
		t := x
		for i := 0; i < 8; i++ {
			dx := sampleX(t) - x
			if math.Abs(dx) < 1e-7 {
				return sampleY(t)
			}
			d := slopeX(t)
			if math.Abs(d) < 1e-6 {
				break
			}
			t -= dx / d
		}

		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < 32; i++ {
			v := sampleX(t)
			if math.Abs(v-x) < 1e-7 {
				break
			}
			if v < x {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return sampleY(t)
	}
}
