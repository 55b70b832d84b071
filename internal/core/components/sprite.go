package components

import (
	"fmt"
	"io"

	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/ecs"
	"github.com/zeusync/lowengine/internal/core/graphics"
	"github.com/zeusync/lowengine/internal/core/observability/log"
)

// Sprite draws one texture at its owner's transform. It requires a Transform
// on the same entity.
type Sprite struct {
	ecs.Base
	TextureID assets.TextureID
	Sprite    graphics.Sprite
	Layer     int
}

func (*Sprite) TypeName() string       { return SpriteType }
func (*Sprite) Dependencies() []string { return []string{TransformType} }

// Initialize resolves whatever TextureID was configured, falling back to the
// default texture, and syncs with the transform.
func (s *Sprite) Initialize() {
	if s.Sprite.Scale == (graphics.Vec2{}) {
		s.Sprite = graphics.NewSprite(int32(s.TextureID), graphics.Rect{})
	}
	s.SetSpriteID(s.TextureID)
	s.Update(0)
}

// Update copies position, rotation, and scale from the owner's transform.
func (s *Sprite) Update(float64) {
	t := ecs.GetComponent[Transform](s.Arena(), s.Owner())
	if t == nil {
		return
	}
	s.Sprite.Position = t.Position
	s.Sprite.Rotation = t.Rotation
	s.Sprite.Scale = t.Scale
}

func (s *Sprite) Draw() (graphics.Renderable, bool) {
	return graphics.Renderable{Sprite: s.Sprite, Layer: s.Layer}, true
}

// SetSprite switches to the texture bound to alias. An unknown alias is an
// error and leaves the sprite unchanged.
func (s *Sprite) SetSprite(alias string) error {
	reg := s.Arena().Assets()
	if reg == nil {
		return fmt.Errorf("%w: %s", assets.ErrUnknownAlias, alias)
	}
	id, err := reg.Resolve(alias)
	if err != nil {
		return err
	}
	s.SetSpriteID(id)
	return nil
}

// SetSpriteID switches to texture id. Ids the registry does not know fall
// back to the default texture.
func (s *Sprite) SetSpriteID(id assets.TextureID) {
	tex := assets.Texture{ID: assets.DefaultTextureID}
	if reg := s.Arena().Assets(); reg != nil {
		var err error
		if tex, err = reg.Texture(id); err != nil {
			s.Arena().Logger().Warn("Sprite texture unresolved, using default",
				log.Int("texture", int(id)),
				log.Uint32("entity", uint32(s.Owner())))
			tex = reg.DefaultTexture()
		}
	}
	s.TextureID = tex.ID
	s.Sprite.Texture = int32(tex.ID)
	s.Sprite.Source = graphics.Rect{W: tex.Width, H: tex.Height}
}

func (s *Sprite) CloneInto(target *ecs.Arena, dst ecs.Component) {
	d := dst.(*Sprite)
	*d = *s
	d.Rebind(target)
}

func (s *Sprite) WriteState(w io.Writer) {
	sp := s.Sprite
	_, _ = fmt.Fprintf(w, "%d|%d|%v|%g,%g|%g|%g,%g|%v",
		s.TextureID, s.Layer, sp.Source, sp.Position.X, sp.Position.Y, sp.Rotation, sp.Scale.X, sp.Scale.Y, sp.Tint)
}

// WithTexture configures the texture a sprite starts with.
func WithTexture(id assets.TextureID) func(*Sprite) {
	return func(s *Sprite) { s.TextureID = id }
}

// OnLayer configures a sprite's draw layer.
func OnLayer(layer int) func(*Sprite) {
	return func(s *Sprite) { s.Layer = layer }
}
