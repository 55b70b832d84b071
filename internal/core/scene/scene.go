// Package scene groups entities into scenes and tracks which scene is
// current.
package scene

import (
	"github.com/google/uuid"

	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/ecs"
	"github.com/zeusync/lowengine/internal/core/graphics"
	"github.com/zeusync/lowengine/internal/core/observability/log"
)

// Viewer is implemented by components that provide the frame's view. The
// first live one in dispatch order wins.
type Viewer interface {
	View() graphics.View
}

// Scene owns one arena and every entity in it. Destroy releases both at once.
type Scene struct {
	ID          string
	Name        string
	Active      bool
	IsPaused    bool
	IsTemporary bool

	arena  *ecs.Arena
	logger log.Log
}

func newScene(name string, ids *ecs.IDAllocator, registry *assets.Registry, logger log.Log) *Scene {
	id := uuid.NewString()
	l := logger.With(log.String("scene", name), log.String("scene_id", id))
	return &Scene{
		ID:     id,
		Name:   name,
		Active: true,
		arena:  ecs.NewArena(ids, registry, l),
		logger: l,
	}
}

// New builds a standalone scene with its own id allocator. Scenes that must
// share ids are created through a Manager.
func New(name string, registry *assets.Registry, logger log.Log) *Scene {
	if logger == nil {
		logger = log.Nop()
	}
	return newScene(name, ecs.NewIDAllocator(), registry, logger)
}

// InitAsDefault names the scene "Default" and seeds it with a default entity.
func (s *Scene) InitAsDefault() {
	s.Name = "Default"
	s.Active = true
	if _, err := s.arena.CreateDefaultEntity(); err != nil {
		s.logger.Error("Failed to create default entity", log.Error(err))
	}
}

// Arena exposes the scene's component storage.
func (s *Scene) Arena() *ecs.Arena { return s.arena }

// AddEntity creates an active entity named "<name>_<id>".
func (s *Scene) AddEntity(name string) (ecs.EntityID, error) {
	e, err := s.arena.CreateEntity(name)
	if err != nil {
		return 0, err
	}
	return e.ID, nil
}

// GetEntities returns the scene's entities in creation order.
func (s *Scene) GetEntities() []*ecs.Entity { return s.arena.Entities() }

// GetEntity returns nil when the scene has no such entity.
func (s *Scene) GetEntity(id ecs.EntityID) *ecs.Entity { return s.arena.Entity(id) }

func (s *Scene) EntityCount() int { return s.arena.EntityCount() }

func (s *Scene) Update(deltaTime float64) {
	s.arena.UpdateAll(deltaTime)
}

// Frame collects every drawable sorted by layer plus the view of the first
// live Viewer.
func (s *Scene) Frame() graphics.Frame {
	f := graphics.Frame{Items: s.arena.DrawAll()}
	f.SortByLayer()
	s.arena.Visit(func(c ecs.Component) bool {
		v, ok := c.(Viewer)
		if !ok {
			return true
		}
		f.View, f.HasView = v.View(), true
		return false
	})
	return f
}

// Draw hands the scene's frame to target.
func (s *Scene) Draw(target graphics.Target) {
	target.Render(s.Frame())
}

// Checksum digests the scene's component state.
func (s *Scene) Checksum() uint64 { return s.arena.Checksum() }

// Destroy releases the arena and all entities. The scene is inert afterwards.
func (s *Scene) Destroy() {
	s.arena.Release()
	s.Active = false
}

func (s *Scene) Destroyed() bool { return s.arena.Released() }

// AddComponent attaches a T to the entity; see ecs.CreateComponent.
func AddComponent[T any, PT ecs.ComponentPtr[T]](s *Scene, id ecs.EntityID, configure ...func(PT)) (PT, error) {
	return ecs.CreateComponent[T, PT](s.arena, id, configure...)
}

// GetComponent returns the entity's T or nil.
func GetComponent[T any, PT ecs.ComponentPtr[T]](s *Scene, id ecs.EntityID) PT {
	return ecs.GetComponent[T, PT](s.arena, id)
}
