package scene

import (
	"slices"

	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/ecs"
	"github.com/zeusync/lowengine/internal/core/events/bus"
	"github.com/zeusync/lowengine/internal/core/observability/log"
)

// NotFound is returned in place of a scene index when there is none.
const NotFound = -1

const (
	EventCreated   = "scene.created"
	EventCopied    = "scene.copied"
	EventSelected  = "scene.selected"
	EventDestroyed = "scene.destroyed"
)

// Event is the payload of every scene lifecycle event.
type Event struct {
	SceneID   string `json:"scene_id"`
	Name      string `json:"name"`
	Index     int    `json:"index"`
	Temporary bool   `json:"temporary"`
	SourceID  string `json:"source_id,omitempty"`
}

// Manager owns the ordered scenes and the current selection. All scenes draw
// entity ids from one allocator, so ids stay unique across copies.
//
// Once any scene exists, the current index is valid; it is NotFound only when
// the list is empty.
type Manager struct {
	ids    *ecs.IDAllocator
	assets *assets.Registry
	events bus.Bus
	root   log.Log
	logger log.Log

	scenes  []*Scene
	current int
}

func NewManager(registry *assets.Registry, events bus.Bus, logger log.Log) *Manager {
	if logger == nil {
		logger = log.Nop()
	}
	if events == nil {
		events = bus.New()
	}
	return &Manager{
		ids:     ecs.NewIDAllocator(),
		assets:  registry,
		events:  events,
		root:    logger,
		logger:  logger.With(log.String("component", "scene_manager")),
		current: NotFound,
	}
}

func (m *Manager) Events() bus.Bus { return m.events }

func (m *Manager) Assets() *assets.Registry { return m.assets }

// Len counts live scenes.
func (m *Manager) Len() int { return len(m.scenes) }

// CurrentIndex is NotFound only while there are no scenes.
func (m *Manager) CurrentIndex() int { return m.current }

// Scenes returns the scenes in index order.
func (m *Manager) Scenes() []*Scene { return slices.Clone(m.scenes) }

func (m *Manager) valid(index int) bool { return index >= 0 && index < len(m.scenes) }

func (m *Manager) find(match func(*Scene) bool) int {
	for i, s := range m.scenes {
		if match(s) {
			return i
		}
	}
	return NotFound
}

// CreateScene appends a new empty scene. It becomes current only when no
// scene was current before.
func (m *Manager) CreateScene(name string) *Scene {
	s := newScene(name, m.ids, m.assets, m.root)
	m.scenes = append(m.scenes, s)
	index := len(m.scenes) - 1
	m.logger.Info("Scene created", log.String("name", name), log.Int("index", index))
	m.publish(EventCreated, s, index, "")
	if m.current == NotFound {
		m.SelectScene(index)
	}
	return s
}

// CreateCopySceneFromCurrent deep-copies the current scene into a new
// temporary scene named "<name><suffix>" and returns its index, or NotFound
// when there is nothing to copy or the copy fails. Selection is unchanged.
func (m *Manager) CreateCopySceneFromCurrent(suffix string) int {
	src := m.GetCurrentScene()
	if src == nil {
		m.logger.Warn("No current scene to copy")
		return NotFound
	}

	dst := newScene(src.Name+suffix, m.ids, m.assets, m.root)
	dst.Active = src.Active
	dst.IsPaused = src.IsPaused
	dst.IsTemporary = true
	if _, err := src.arena.CopyInto(dst.arena); err != nil {
		dst.Destroy()
		m.logger.Error("Failed to copy scene", log.String("name", src.Name), log.Error(err))
		return NotFound
	}

	m.scenes = append(m.scenes, dst)
	index := len(m.scenes) - 1
	m.logger.Info("Scene copied",
		log.String("source", src.Name),
		log.String("name", dst.Name),
		log.Int("index", index),
		log.Int("entities", dst.EntityCount()))
	m.publish(EventCopied, dst, index, src.ID)
	return index
}

// SelectScene makes the scene at index current. An invalid index leaves the
// selection untouched.
func (m *Manager) SelectScene(index int) bool {
	if !m.valid(index) {
		return false
	}
	m.current = index
	s := m.scenes[index]
	m.logger.Info("Scene selected", log.String("name", s.Name), log.Int("index", index))
	m.publish(EventSelected, s, index, "")
	return true
}

// SelectSceneByName selects the first scene called name.
func (m *Manager) SelectSceneByName(name string) bool {
	return m.SelectScene(m.find(func(s *Scene) bool { return s.Name == name }))
}

// SelectSceneRef selects s if this manager owns it.
func (m *Manager) SelectSceneRef(s *Scene) bool {
	if s == nil {
		return false
	}
	return m.SelectScene(m.find(func(other *Scene) bool { return other == s }))
}

// GetCurrentScene is nil only while there are no scenes.
func (m *Manager) GetCurrentScene() *Scene {
	if !m.valid(m.current) {
		return nil
	}
	return m.scenes[m.current]
}

// DestroyCurrentScene destroys the current scene and selects the one below
// it, or the first remaining scene.
func (m *Manager) DestroyCurrentScene() {
	s := m.GetCurrentScene()
	if s == nil {
		return
	}
	index := m.current
	m.scenes = slices.Delete(m.scenes, index, index+1)
	s.Destroy()

	next := NotFound
	switch {
	case len(m.scenes) == 0:
	case index > 0:
		next = index - 1
	default:
		next = 0
	}
	m.current = next
	m.logger.Info("Scene destroyed", log.String("name", s.Name), log.Int("index", index))
	m.publish(EventDestroyed, s, index, "")
	if next != NotFound {
		m.SelectScene(next)
	}
}

// DestroyAll destroys every scene, last first.
func (m *Manager) DestroyAll() {
	for i := len(m.scenes) - 1; i >= 0; i-- {
		s := m.scenes[i]
		s.Destroy()
		m.publish(EventDestroyed, s, i, "")
	}
	m.scenes = nil
	m.current = NotFound
	m.logger.Info("All scenes destroyed")
}

func (m *Manager) publish(typ string, s *Scene, index int, source string) {
	ev := Event{SceneID: s.ID, Name: s.Name, Index: index, Temporary: s.IsTemporary, SourceID: source}
	if err := m.events.Publish(bus.NewEvent(typ, "scene_manager", ev)); err != nil {
		m.logger.Warn("Scene event handler failed", log.String("event", typ), log.Error(err))
	}
}
