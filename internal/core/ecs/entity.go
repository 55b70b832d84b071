package ecs

import "strconv"

// Entity is a handle plus bookkeeping of which component slots it owns. It
// has no behavior of its own.
type Entity struct {
	ID     EntityID
	Name   string
	Active bool

	components map[string][]SlotID
	order      []string
}

func newEntity(id EntityID) *Entity {
	return &Entity{
		ID:         id,
		components: make(map[string][]SlotID),
	}
}

func (e *Entity) InitAsDefault() {
	e.Name = "Default"
	e.Active = true
}

// Activate marks the entity live and stamps its display name as name_ID.
func (e *Entity) Activate(name string) {
	e.Name = name + "_" + strconv.FormatUint(uint64(e.ID), 10)
	e.Active = true
}

func (e *Entity) AddComponent(typeName string, slot SlotID) {
	if _, ok := e.components[typeName]; !ok {
		e.order = append(e.order, typeName)
	}
	e.components[typeName] = append(e.components[typeName], slot)
}

// GetComponent returns the canonical (first) slot of typeName.
func (e *Entity) GetComponent(typeName string) (SlotID, bool) {
	slots := e.components[typeName]
	if len(slots) == 0 {
		return 0, false
	}
	return slots[0], true
}

func (e *Entity) HasComponent(typeName string) bool {
	return len(e.components[typeName]) > 0
}

// Components returns every slot of typeName in attach order.
func (e *Entity) Components(typeName string) []SlotID {
	slots := e.components[typeName]
	out := make([]SlotID, len(slots))
	copy(out, slots)
	return out
}

// ComponentTypes lists attached type names in first-attach order.
func (e *Entity) ComponentTypes() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// ComponentCount counts every attached instance across types.
func (e *Entity) ComponentCount() int {
	n := 0
	for _, slots := range e.components {
		n += len(slots)
	}
	return n
}

func (e *Entity) removeType(typeName string) []SlotID {
	slots, ok := e.components[typeName]
	if !ok {
		return nil
	}
	delete(e.components, typeName)
	for i, name := range e.order {
		if name == typeName {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return slots
}
