// Package preview rasterises runtime output into images. Each registered
// node is drawn as a box at its world transform.
package preview

import (
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/motion/scene"
	"github.com/matt-g-everett/motion/stream"
	"github.com/matt-g-everett/motion/track"
)

// DefaultFill is used for boxes without a colour in their style.
var DefaultFill = colorful.Color{R: 0.6, G: 0.6, B: 0.6}

type box struct {
	id    string
	w, h  float64
	world scene.Transform
	fill  colorful.Color
	alpha float64
	drawn bool
}

// Canvas collects the latest output of its targets and draws them on demand.
// Targets must be applied from the same goroutine that draws.
type Canvas struct {
	Background colorful.Color

	width  int
	height int
	boxes  []*box
}

// New creates a Canvas of the given pixel size with a black background.
func New(width, height int) *Canvas {
	c := new(Canvas)
	c.width = width
	c.height = height
	return c
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Target returns a render target drawing node id as a w by h box. Boxes are
// drawn in the order their targets were created.
func (c *Canvas) Target(id string, w, h float64) stream.RenderTarget {
	b := &box{id: id, w: w, h: h, world: scene.Identity(), fill: DefaultFill, alpha: 1}
	c.boxes = append(c.boxes, b)

	return stream.TargetFunc(func(world scene.Transform, style track.Style) error {
		b.world = world
		b.fill, b.alpha = DefaultFill, 1
		if v, ok := style[string(track.Color)]; ok && v.Kind == track.KindColor {
			b.fill, b.alpha = v.Color, v.Alpha
		}
		if v, ok := style[string(track.BackgroundColor)]; ok && v.Kind == track.KindColor {
			b.fill, b.alpha = v.Color, v.Alpha
		}
		b.drawn = true
		return nil
	})
}

// matrix maps box-local coordinates to canvas pixels. Rotation and scale
// pivot on the box centre.
func (b *box) matrix() gg.Matrix {
	p, s, r := b.world.Position, b.world.Scale, b.world.Rotation
	cx, cy := b.w/2, b.h/2
	return gg.Translate(p[0]+cx, p[1]+cy).
		Multiply(gg.Rotate(r[2] * math.Pi / 180)).
		Multiply(gg.Scale(s[0], s[1])).
		Multiply(gg.Translate(-cx, -cy))
}

// Draw renders every applied box into a new context. The caller owns the
// returned context.
func (c *Canvas) Draw() (*gg.Context, error) {
	dc := gg.NewContext(c.width, c.height)
	bg := c.Background.Clamped()
	dc.ClearWithColor(gg.RGB(bg.R, bg.G, bg.B))

	for _, b := range c.boxes {
		a := b.world.Opacity * b.alpha
		if !b.drawn || a <= 0 {
			continue
		}
		fill := b.fill.Clamped()
		dc.SetTransform(b.matrix())
		dc.SetRGBA(fill.R, fill.G, fill.B, math.Min(a, 1))
		dc.DrawRectangle(0, 0, b.w, b.h)
		if err := dc.Fill(); err != nil {
			dc.Close()
			return nil, err
		}
	}
	return dc, nil
}

// Image renders the canvas to an image.
func (c *Canvas) Image() (image.Image, error) {
	dc, err := c.Draw()
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// SavePNG renders the canvas to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	dc, err := c.Draw()
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.SavePNG(path)
}

// EncodePNG renders the canvas as PNG to w.
func (c *Canvas) EncodePNG(w io.Writer) error {
	dc, err := c.Draw()
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}
