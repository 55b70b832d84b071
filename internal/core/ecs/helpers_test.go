package ecs

import (
	"fmt"
	"io"
	"slices"

	"github.com/zeusync/lowengine/internal/core/graphics"
)

type position struct {
	Base
	X, Y    float64
	History []float64
	inits   int
}

func (*position) TypeName() string { return "Position" }

func (p *position) Initialize() { p.inits++ }

func (p *position) CloneInto(target *Arena, dst Component) {
	d := dst.(*position)
	*d = *p
	d.History = slices.Clone(p.History)
	d.Rebind(target)
}

func (p *position) WriteState(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%g,%g,%v", p.X, p.Y, p.History)
}

type velocity struct {
	Base
	DX, DY float64
}

func (*velocity) TypeName() string       { return "Velocity" }
func (*velocity) Dependencies() []string { return []string{"Position"} }

// Update integrates into the owner's position; zero elapsed time is a no-op.
func (v *velocity) Update(dt float64) {
	p := GetComponent[position](v.Arena(), v.Owner())
	if p == nil {
		return
	}
	p.X += v.DX * dt
	p.Y += v.DY * dt
}

func (v *velocity) CloneInto(target *Arena, dst Component) {
	d := dst.(*velocity)
	*d = *v
	d.Rebind(target)
}

func (v *velocity) WriteState(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%g,%g", v.DX, v.DY)
}

type marker struct {
	Base
	Label string
	Layer int
	trace *[]string
}

func (*marker) TypeName() string { return "Marker" }

func (m *marker) Update(float64) {
	if m.trace != nil {
		*m.trace = append(*m.trace, m.Label)
	}
}

func (m *marker) Draw() (graphics.Renderable, bool) {
	return graphics.Renderable{Layer: m.Layer, Sprite: graphics.Sprite{Texture: int32(m.Layer)}}, true
}

func (m *marker) CloneInto(target *Arena, dst Component) {
	d := dst.(*marker)
	*d = *m
	d.Rebind(target)
}

// impostor claims the Position type name with a different Go type.
type impostor struct{ Base }

func (*impostor) TypeName() string { return "Position" }

func (i *impostor) CloneInto(target *Arena, dst Component) {
	d := dst.(*impostor)
	*d = *i
	d.Rebind(target)
}
