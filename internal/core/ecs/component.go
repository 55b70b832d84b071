package ecs

import (
	"io"

	"github.com/zeusync/lowengine/internal/core/graphics"
)

// Component is the capability set every component variant exposes to its
// arena. Implementations embed Base, which supplies the arena back-reference
// and no-op defaults for the optional capabilities.
type Component interface {
	// TypeName keys the component's store and the owning entity's map.
	TypeName() string
	// Initialize runs once, after dependency checks pass and before the first
	// Update. Clones are not re-initialized.
	Initialize()
	// Update advances the component. Update(0) must be idempotent and only
	// re-derive state from what is already attached.
	Update(deltaTime float64)
	// Draw reports the component's visual, if any. It must not mutate.
	Draw() (graphics.Renderable, bool)
	// Dependencies names the types that must already be attached to the
	// owning entity. It is evaluated on the zero value, once per construction.
	Dependencies() []string
	// CloneInto writes a value copy of the receiver into dst, a freshly
	// allocated zero slot of the same concrete type inside target, and rebinds
	// the copy to target. Owned mutable data must be deep-copied; shared
	// read-only resources are copied by reference.
	CloneInto(target *Arena, dst Component)

	base() *Base
}

// StateWriter is implemented by components that contribute to
// Arena.Checksum.
type StateWriter interface {
	WriteState(w io.Writer)
}

// Base carries the non-owning arena back-reference and the owner id. The
// arena sets both; components only read them, except for Rebind in CloneInto.
type Base struct {
	arena *Arena
	owner EntityID
}

func (b *Base) Arena() *Arena   { return b.arena }
func (b *Base) Owner() EntityID { return b.owner }

// Rebind points the component at a new owning arena.
func (b *Base) Rebind(target *Arena) { b.arena = target }

func (b *Base) Initialize()                       {}
func (b *Base) Update(float64)                    {}
func (b *Base) Draw() (graphics.Renderable, bool) { return graphics.Renderable{}, false }
func (b *Base) Dependencies() []string            { return nil }

func (b *Base) base() *Base { return b }

func (b *Base) bind(arena *Arena, owner EntityID) {
	b.arena = arena
	b.owner = owner
}
