// Package render presents engine frames through ebiten.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/graphics"
	"github.com/zeusync/lowengine/internal/core/observability/log"
)

var missingColor = color.RGBA{R: 0xff, B: 0xff, A: 0xff}

// Renderer turns texture handles into ebiten images on first use and draws
// frames with them. Handles that fail to load are drawn with a magenta
// placeholder so broken content stays visible.
type Renderer struct {
	assets *assets.Registry
	logger log.Log

	images     map[assets.TextureID]*ebiten.Image
	fallback   *ebiten.Image
	generation uint64
}

func NewRenderer(registry *assets.Registry, logger log.Log) *Renderer {
	if logger == nil {
		logger = log.Nop()
	}
	return &Renderer{
		assets: registry,
		logger: logger.With(log.String("component", "renderer")),
		images: make(map[assets.TextureID]*ebiten.Image),
	}
}

// Forget drops cached images. Draw calls it once the registry has been
// unloaded, since texture handles are reused afterwards.
func (r *Renderer) Forget() {
	for id, img := range r.images {
		if img != r.fallback {
			img.Deallocate()
		}
		delete(r.images, id)
	}
}

func (r *Renderer) sync() {
	if r.assets == nil {
		return
	}
	if gen := r.assets.Generation(); gen != r.generation {
		r.Forget()
		r.generation = gen
	}
}

func (r *Renderer) placeholder() *ebiten.Image {
	if r.fallback == nil {
		r.fallback = ebiten.NewImage(32, 32)
		r.fallback.Fill(missingColor)
	}
	return r.fallback
}

func (r *Renderer) image(id assets.TextureID) *ebiten.Image {
	if img, ok := r.images[id]; ok {
		return img
	}
	img := r.load(id)
	r.images[id] = img
	return img
}

func (r *Renderer) load(id assets.TextureID) *ebiten.Image {
	if r.assets == nil {
		return r.placeholder()
	}
	tex, err := r.assets.Texture(id)
	if err != nil || tex.Path == "" {
		return r.placeholder()
	}
	img, _, err := ebitenutil.NewImageFromFile(tex.Path)
	if err != nil {
		r.logger.Warn("Failed to load texture image",
			log.Int("id", int(id)),
			log.String("path", tex.Path),
			log.Error(err))
		return r.placeholder()
	}
	return img
}

// Draw renders frame onto screen. Without a view, world units are screen
// pixels.
func (r *Renderer) Draw(screen *ebiten.Image, frame graphics.Frame) {
	r.sync()
	bounds := screen.Bounds()
	view := viewGeoM(frame, float64(bounds.Dx()), float64(bounds.Dy()))

	for _, item := range frame.Items {
		s := item.Sprite
		img := r.image(assets.TextureID(s.Texture))
		if img != r.fallback && !s.Source.Empty() {
			img = img.SubImage(rect(s.Source)).(*ebiten.Image)
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM = spriteGeoM(s)
		op.GeoM.Concat(view)
		op.ColorScale.ScaleWithColor(s.Tint)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(img, op)
	}
}

func spriteGeoM(s graphics.Sprite) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-s.Origin.X, -s.Origin.Y)
	g.Scale(s.Scale.X, s.Scale.Y)
	if s.Rotation != 0 {
		g.Rotate(s.Rotation * math.Pi / 180)
	}
	g.Translate(s.Position.X, s.Position.Y)
	return g
}

// viewGeoM mirrors graphics.View.ToScreen.
func viewGeoM(frame graphics.Frame, w, h float64) ebiten.GeoM {
	var g ebiten.GeoM
	if !frame.HasView {
		return g
	}
	v := frame.View
	g.Translate(-v.Center.X, -v.Center.Y)
	if v.Rotation != 0 {
		g.Rotate(-v.Rotation * math.Pi / 180)
	}
	if v.Size.X != 0 && v.Size.Y != 0 {
		g.Scale(w/v.Size.X, h/v.Size.Y)
	}
	g.Translate(w/2, h/2)
	return g
}

func rect(r graphics.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}
