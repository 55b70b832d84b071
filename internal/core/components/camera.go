package components

import (
	"fmt"
	"io"

	"github.com/zeusync/lowengine/internal/core/ecs"
	"github.com/zeusync/lowengine/internal/core/graphics"
)

// DefaultViewSize is the world-space area a camera covers at zoom 1.
var DefaultViewSize = graphics.Vec2{X: 1280, Y: 720}

// Camera follows its owner's transform. ZoomFactor scales the view size: 2
// shows twice the area, 0.5 half of it.
type Camera struct {
	ecs.Base
	ZoomFactor float64
	Size       graphics.Vec2

	view graphics.View
}

func (*Camera) TypeName() string       { return CameraType }
func (*Camera) Dependencies() []string { return []string{TransformType} }

func (c *Camera) Initialize() {
	if c.ZoomFactor <= 0 {
		c.ZoomFactor = 1
	}
	if c.Size == (graphics.Vec2{}) {
		c.Size = DefaultViewSize
	}
	c.Update(0)
}

// Update recomputes the view from the transform and zoom.
func (c *Camera) Update(float64) {
	t := ecs.GetComponent[Transform](c.Arena(), c.Owner())
	if t == nil {
		return
	}
	zoom := c.ZoomFactor
	if zoom <= 0 {
		zoom = 1
	}
	c.view = graphics.View{
		Center:   t.Position,
		Size:     c.Size.Scale(zoom),
		Rotation: t.Rotation,
	}
}

// View is the view computed by the last Update.
func (c *Camera) View() graphics.View { return c.view }

func (c *Camera) CloneInto(target *ecs.Arena, dst ecs.Component) {
	d := dst.(*Camera)
	*d = *c
	d.Rebind(target)
}

func (c *Camera) WriteState(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%g|%g,%g|%v", c.ZoomFactor, c.Size.X, c.Size.Y, c.view)
}

// Zoom configures a camera's zoom factor.
func Zoom(factor float64) func(*Camera) {
	return func(c *Camera) { c.ZoomFactor = factor }
}
