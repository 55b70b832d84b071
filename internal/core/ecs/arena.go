package ecs

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/lowengine/internal/core/assets"
	"github.com/zeusync/lowengine/internal/core/graphics"
	"github.com/zeusync/lowengine/internal/core/observability/log"
)

// Arena owns all component storage and the entity table of one scene.
//
// Stores are created on first use and kept in registration order; UpdateAll
// and DrawAll walk them in that order and then by slot, so an unchanged
// arena always dispatches identically. Nothing here is safe for concurrent
// use.
type Arena struct {
	ids    *IDAllocator
	assets *assets.Registry
	logger log.Log

	stores map[string]storage
	order  []storage

	entities    map[EntityID]*Entity
	entityOrder []*Entity

	released bool
}

// NewArena builds an empty arena drawing entity ids from ids. Arenas that
// must never collide share one allocator.
func NewArena(ids *IDAllocator, registry *assets.Registry, logger log.Log) *Arena {
	if ids == nil {
		ids = NewIDAllocator()
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Arena{
		ids:      ids,
		assets:   registry,
		logger:   logger.With(log.String("component", "arena")),
		stores:   make(map[string]storage),
		entities: make(map[EntityID]*Entity),
	}
}

// Assets is the registry components resolve texture handles and sheets from.
func (a *Arena) Assets() *assets.Registry { return a.assets }

func (a *Arena) Logger() log.Log { return a.logger }

// CreateEntity allocates and activates a new entity.
func (a *Arena) CreateEntity(name string) (*Entity, error) {
	if a.released {
		return nil, ErrArenaReleased
	}
	e := a.newEntity()
	e.Activate(name)
	return e, nil
}

// CreateDefaultEntity allocates an entity named "Default".
func (a *Arena) CreateDefaultEntity() (*Entity, error) {
	if a.released {
		return nil, ErrArenaReleased
	}
	e := a.newEntity()
	e.InitAsDefault()
	return e, nil
}

func (a *Arena) newEntity() *Entity {
	e := newEntity(a.ids.Next())
	a.entities[e.ID] = e
	a.entityOrder = append(a.entityOrder, e)
	return e
}

// Entity returns nil for ids this arena does not own.
func (a *Arena) Entity(id EntityID) *Entity {
	return a.entities[id]
}

// Entities returns entities in creation order.
func (a *Arena) Entities() []*Entity {
	return slices.Clone(a.entityOrder)
}

func (a *Arena) EntityCount() int { return len(a.entityOrder) }

// ComponentCount counts live components across all stores.
func (a *Arena) ComponentCount() int {
	n := 0
	for _, e := range a.entityOrder {
		n += e.ComponentCount()
	}
	return n
}

// TypeNames lists registered component types in registration order.
func (a *Arena) TypeNames() []string {
	out := make([]string, len(a.order))
	for i, st := range a.order {
		out[i] = st.typeName()
	}
	return out
}

// Dependencies reports the declared dependencies of a registered type.
func (a *Arena) Dependencies(typeName string) []string {
	st, ok := a.stores[typeName]
	if !ok {
		return nil
	}
	return slices.Clone(st.dependencies())
}

// Component returns the live component at (typeName, slot) or nil. It is the
// untyped lookup used by tooling that does not know concrete types.
func (a *Arena) Component(typeName string, slot SlotID) Component {
	st, ok := a.stores[typeName]
	if !ok || int(slot) >= st.len() || st.isDead(slot) {
		return nil
	}
	return st.at(slot)
}

// ComponentsOf returns every component attached to the entity, grouped by
// type in attach order.
func (a *Arena) ComponentsOf(id EntityID) []Component {
	e := a.entities[id]
	if e == nil {
		return nil
	}
	var out []Component
	for _, typeName := range e.order {
		for _, slot := range e.components[typeName] {
			if c := a.Component(typeName, slot); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// CreateComponent attaches a new T to the entity. Every dependency T declares
// must already be attached; otherwise a *DependencyError is returned and the
// arena is left untouched. configure runs on the zero value before the
// component is bound and initialized, and plays the role of constructor
// arguments. The returned pointer is valid for the arena's lifetime.
func CreateComponent[T any, PT ComponentPtr[T]](a *Arena, id EntityID, configure ...func(PT)) (PT, error) {
	if a.released {
		return nil, ErrArenaReleased
	}
	e := a.entities[id]
	if e == nil {
		return nil, fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}

	var zero T
	proto := PT(&zero)
	name := proto.TypeName()
	deps := proto.Dependencies()
	for _, dep := range deps {
		if !e.HasComponent(dep) {
			a.logger.Warn("Component dependency missing",
				log.String("type", name),
				log.String("missing", dep),
				log.Uint32("entity", uint32(id)))
			return nil, &DependencyError{Component: name, Missing: dep, Entity: id}
		}
	}

	st, err := storeFor[T, PT](a, name, deps)
	if err != nil {
		return nil, err
	}

	slot, c := st.alloc(id)
	for _, fn := range configure {
		fn(c)
	}
	c.base().bind(a, id)
	e.AddComponent(name, slot)
	c.Initialize()

	a.logger.Debug("Component created",
		log.String("type", name),
		log.Uint32("slot", uint32(slot)),
		log.Uint32("entity", uint32(id)))
	return c, nil
}

// GetComponent returns the entity's canonical T, or nil when the entity is
// unknown or has none. Absence is a normal outcome, never an error.
func GetComponent[T any, PT ComponentPtr[T]](a *Arena, id EntityID) PT {
	if a == nil || a.released {
		return nil
	}
	e := a.entities[id]
	if e == nil {
		return nil
	}
	var zero T
	name := PT(&zero).TypeName()
	slot, ok := e.GetComponent(name)
	if !ok {
		return nil
	}
	st, ok := a.stores[name].(*Store[T, PT])
	if !ok {
		return nil
	}
	return st.Get(slot)
}

// GetComponents returns every T attached to the entity in attach order.
func GetComponents[T any, PT ComponentPtr[T]](a *Arena, id EntityID) []PT {
	if a == nil || a.released {
		return nil
	}
	e := a.entities[id]
	if e == nil {
		return nil
	}
	var zero T
	name := PT(&zero).TypeName()
	st, ok := a.stores[name].(*Store[T, PT])
	if !ok {
		return nil
	}
	slots := e.components[name]
	out := make([]PT, 0, len(slots))
	for _, slot := range slots {
		if c := st.Get(slot); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// StoreOf returns the typed store for T, or nil if no T was ever created.
func StoreOf[T any, PT ComponentPtr[T]](a *Arena) *Store[T, PT] {
	var zero T
	st, _ := a.stores[PT(&zero).TypeName()].(*Store[T, PT])
	return st
}

func storeFor[T any, PT ComponentPtr[T]](a *Arena, name string, deps []string) (*Store[T, PT], error) {
	existing, ok := a.stores[name]
	if !ok {
		st := newStore[T, PT](name, deps)
		a.register(st)
		return st, nil
	}
	st, ok := existing.(*Store[T, PT])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeConflict, name)
	}
	return st, nil
}

func (a *Arena) register(st storage) {
	a.stores[st.typeName()] = st
	a.order = append(a.order, st)
}

func (a *Arena) live(st storage, slot SlotID) bool {
	if st.isDead(slot) {
		return false
	}
	e := a.entities[st.owner(slot)]
	return e != nil && e.Active
}

// UpdateAll dispatches Update to every live component of every active
// entity, by type registration order and then slot order.
func (a *Arena) UpdateAll(deltaTime float64) {
	if a.released {
		return
	}
	for _, st := range a.order {
		n := st.len()
		for i := 0; i < n; i++ {
			slot := SlotID(i)
			if a.live(st, slot) {
				st.at(slot).Update(deltaTime)
			}
		}
	}
}

// DrawAll collects draw output in the same order UpdateAll dispatches.
func (a *Arena) DrawAll() []graphics.Renderable {
	if a.released {
		return nil
	}
	var out []graphics.Renderable
	for _, st := range a.order {
		n := st.len()
		for i := 0; i < n; i++ {
			slot := SlotID(i)
			if !a.live(st, slot) {
				continue
			}
			if r, ok := st.at(slot).Draw(); ok {
				out = append(out, r)
			}
		}
	}
	return out
}

// Visit walks live components of active entities in dispatch order until fn
// returns false.
func (a *Arena) Visit(fn func(c Component) bool) {
	if a.released {
		return
	}
	for _, st := range a.order {
		n := st.len()
		for i := 0; i < n; i++ {
			slot := SlotID(i)
			if a.live(st, slot) && !fn(st.at(slot)) {
				return
			}
		}
	}
}

// RemoveComponents detaches every instance of typeName from the entity.
// Removal is refused while another attached type declares typeName as a
// dependency, so a dependent never outlives what it required. Freed slots
// are marked dead and never reused.
func (a *Arena) RemoveComponents(id EntityID, typeName string) error {
	if a.released {
		return ErrArenaReleased
	}
	e := a.entities[id]
	if e == nil {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	if !e.HasComponent(typeName) {
		return fmt.Errorf("%w: %s on entity %d", ErrComponentNotFound, typeName, id)
	}

	var dependents []string
	for _, other := range e.order {
		if other == typeName {
			continue
		}
		if slices.Contains(a.stores[other].dependencies(), typeName) {
			dependents = append(dependents, other)
		}
	}
	if len(dependents) > 0 {
		return &DependentsError{Component: typeName, Dependents: dependents, Entity: id}
	}

	st := a.stores[typeName]
	for _, slot := range e.removeType(typeName) {
		st.kill(slot)
	}
	a.logger.Debug("Components removed", log.String("type", typeName), log.Uint32("entity", uint32(id)))
	return nil
}

// CopyInto deep-copies every entity and attached component into target,
// which must be a different, live arena. Target entities get fresh ids from
// target's allocator but keep name and active flag; every component is
// produced by its own CloneInto and then bound to the new entity. Stores are
// registered in target in this arena's order first, so the copy dispatches
// in the same order as its source. The returned map takes source ids to
// their copies.
func (a *Arena) CopyInto(target *Arena) (map[EntityID]EntityID, error) {
	if a.released || target == nil || target.released {
		return nil, ErrArenaReleased
	}
	if target == a {
		return nil, fmt.Errorf("ecs: cannot copy an arena into itself")
	}
	for _, st := range a.order {
		if existing, ok := target.stores[st.typeName()]; ok && !st.sameType(existing) {
			return nil, fmt.Errorf("%w: %s", ErrTypeConflict, st.typeName())
		}
	}

	for _, st := range a.order {
		if _, ok := target.stores[st.typeName()]; !ok {
			target.register(st.empty())
		}
	}

	mapping := make(map[EntityID]EntityID, len(a.entityOrder))
	for _, src := range a.entityOrder {
		dst := target.newEntity()
		dst.Name = src.Name
		dst.Active = src.Active
		mapping[src.ID] = dst.ID

		for _, typeName := range src.order {
			from := a.stores[typeName]
			to := target.stores[typeName]
			for _, slot := range src.components[typeName] {
				newSlot, raw := to.allocRaw(dst.ID)
				from.at(slot).CloneInto(target, raw)
				raw.base().bind(target, dst.ID)
				dst.AddComponent(typeName, newSlot)
			}
		}
	}

	a.logger.Debug("Arena copied",
		log.Int("entities", len(mapping)),
		log.Int("components", a.ComponentCount()))
	return mapping, nil
}

// Checksum digests the observable state of the arena: entity names, flags,
// attached types, and whatever each StateWriter reports. Ids and slot numbers
// are left out so a faithful copy hashes the same as its source.
func (a *Arena) Checksum() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, e := range a.entityOrder {
		_, _ = d.WriteString(e.Name)
		if e.Active {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
		for _, typeName := range e.order {
			_, _ = d.WriteString(typeName)
			slots := e.components[typeName]
			binary.LittleEndian.PutUint64(buf[:], uint64(len(slots)))
			_, _ = d.Write(buf[:])
			for _, slot := range slots {
				if sw, ok := a.stores[typeName].at(slot).(StateWriter); ok {
					sw.WriteState(d)
				}
			}
		}
	}
	return d.Sum64()
}

// Release drops all storage and entities. Pointers previously handed out must
// not be used afterwards; lookups on a released arena return nil.
func (a *Arena) Release() {
	if a.released {
		return
	}
	for _, e := range a.entityOrder {
		e.Active = false
	}
	a.stores = make(map[string]storage)
	a.order = nil
	a.entities = make(map[EntityID]*Entity)
	a.entityOrder = nil
	a.released = true
}

func (a *Arena) Released() bool { return a.released }
