package ecs

// EntityID identifies an entity across every scene of a process.
type EntityID uint32

// SlotID is a stable index into one component type's store.
type SlotID uint32

// IDAllocator hands out monotonically increasing entity ids. A single
// allocator is shared by all arenas that must never see colliding ids, which
// is what keeps scene copies distinguishable from their sources. Ids are never
// recycled.
type IDAllocator struct {
	next EntityID
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns the current value and advances the counter.
func (a *IDAllocator) Next() EntityID {
	id := a.next
	a.next++
	return id
}

// Peek returns the id the next call to Next will hand out.
func (a *IDAllocator) Peek() EntityID {
	return a.next
}
