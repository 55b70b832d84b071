// Package components provides the built-in component variants: Transform,
// Sprite, AnimatedSprite, and Camera.
package components

import (
	"fmt"
	"io"

	"github.com/zeusync/lowengine/internal/core/ecs"
	"github.com/zeusync/lowengine/internal/core/graphics"
)

const (
	TransformType      = "Transform"
	SpriteType         = "Sprite"
	AnimatedSpriteType = "AnimatedSprite"
	CameraType         = "Camera"
)

// Transform places an entity in world space. Rotation is in degrees.
type Transform struct {
	ecs.Base
	Position graphics.Vec2
	Rotation float64
	Scale    graphics.Vec2
}

func (*Transform) TypeName() string { return TransformType }

// Initialize gives an unconfigured transform unit scale.
func (t *Transform) Initialize() {
	if t.Scale == (graphics.Vec2{}) {
		t.Scale = graphics.Vec2{X: 1, Y: 1}
	}
}

func (t *Transform) CloneInto(target *ecs.Arena, dst ecs.Component) {
	d := dst.(*Transform)
	*d = *t
	d.Rebind(target)
}

func (t *Transform) WriteState(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%g,%g|%g|%g,%g", t.Position.X, t.Position.Y, t.Rotation, t.Scale.X, t.Scale.Y)
}

// At configures a transform's position.
func At(x, y float64) func(*Transform) {
	return func(t *Transform) {
		t.Position = graphics.Vec2{X: x, Y: y}
	}
}
