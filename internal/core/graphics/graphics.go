// Package graphics holds the renderer-agnostic descriptors the engine core
// hands to a rendering backend. Nothing here draws.
package graphics

import (
	"image/color"
	"math"
	"sort"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2      { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Equal(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// Rect is an integer pixel rectangle inside a texture.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Sprite describes one textured quad. Texture is an asset handle, never the
// pixel data itself.
type Sprite struct {
	Texture  int32
	Source   Rect
	Position Vec2
	Origin   Vec2
	Scale    Vec2
	Rotation float64 // degrees
	Tint     color.RGBA
}

// NewSprite returns a sprite with unit scale and an opaque white tint.
func NewSprite(texture int32, source Rect) Sprite {
	return Sprite{
		Texture: texture,
		Source:  source,
		Scale:   Vec2{1, 1},
		Tint:    color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

type Renderable struct {
	Sprite Sprite
	Layer  int
}

// View is the world-space window a camera exposes to the renderer.
type View struct {
	Center   Vec2
	Size     Vec2
	Rotation float64
}

// Frame is everything a backend needs to present one scene.
type Frame struct {
	View    View
	HasView bool
	Items   []Renderable
}

// SortByLayer orders items by ascending layer; items sharing a layer keep
// their dispatch order.
func (f *Frame) SortByLayer() {
	sort.SliceStable(f.Items, func(i, j int) bool {
		return f.Items[i].Layer < f.Items[j].Layer
	})
}

// Target consumes frames. Backends and test doubles implement it.
type Target interface {
	Render(Frame)
}

// TargetFunc adapts a plain function to Target.
type TargetFunc func(Frame)

func (fn TargetFunc) Render(f Frame) { fn(f) }

// ToScreen maps a world point into a screen of the given size. The view's
// center lands in the middle of the screen and its size fills the screen.
func (v View) ToScreen(p Vec2, screen Vec2) Vec2 {
	d := p.Sub(v.Center)
	if v.Rotation != 0 {
		rad := -v.Rotation * math.Pi / 180
		sin, cos := math.Sincos(rad)
		d = Vec2{d.X*cos - d.Y*sin, d.X*sin + d.Y*cos}
	}
	if v.Size.X != 0 && v.Size.Y != 0 {
		d = d.Mul(Vec2{screen.X / v.Size.X, screen.Y / v.Size.Y})
	}
	return d.Add(screen.Scale(0.5))
}
