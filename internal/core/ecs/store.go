package ecs

const chunkSize = 128

// ComponentPtr constrains type parameters to pointer-receiver components.
type ComponentPtr[T any] interface {
	*T
	Component
}

// storage is the type-erased view the arena keeps of each Store.
type storage interface {
	typeName() string
	dependencies() []string
	len() int
	at(slot SlotID) Component
	owner(slot SlotID) EntityID
	isDead(slot SlotID) bool
	allocRaw(owner EntityID) (SlotID, Component)
	kill(slot SlotID)
	empty() storage
	sameType(other storage) bool
}

// Store holds every instance of one component type for one arena. Values
// live in fixed-size chunks that are never reallocated, so a *T handed out
// stays valid for as long as the arena does. Slots are append-only: removal
// only marks a slot dead.
type Store[T any, PT ComponentPtr[T]] struct {
	name   string
	deps   []string
	chunks []*[chunkSize]T
	owners []EntityID
	dead   []bool
	live   int
}

func newStore[T any, PT ComponentPtr[T]](name string, deps []string) *Store[T, PT] {
	d := make([]string, len(deps))
	copy(d, deps)
	return &Store[T, PT]{name: name, deps: d}
}

func (s *Store[T, PT]) alloc(owner EntityID) (SlotID, PT) {
	n := len(s.owners)
	if n%chunkSize == 0 {
		s.chunks = append(s.chunks, new([chunkSize]T))
	}
	s.owners = append(s.owners, owner)
	s.dead = append(s.dead, false)
	s.live++
	return SlotID(n), PT(&s.chunks[n/chunkSize][n%chunkSize])
}

// Get returns the component at slot, or nil for an out-of-range or dead slot.
func (s *Store[T, PT]) Get(slot SlotID) PT {
	if int(slot) >= len(s.owners) || s.dead[slot] {
		return nil
	}
	return PT(&s.chunks[slot/chunkSize][slot%chunkSize])
}

// Name is the component type name this store serves.
func (s *Store[T, PT]) Name() string { return s.name }

// Len counts allocated slots, dead ones included.
func (s *Store[T, PT]) Len() int { return len(s.owners) }

// Live counts slots that have not been removed.
func (s *Store[T, PT]) Live() int { return s.live }

func (s *Store[T, PT]) typeName() string       { return s.name }
func (s *Store[T, PT]) dependencies() []string { return s.deps }
func (s *Store[T, PT]) len() int               { return len(s.owners) }

func (s *Store[T, PT]) at(slot SlotID) Component {
	return PT(&s.chunks[slot/chunkSize][slot%chunkSize])
}

func (s *Store[T, PT]) owner(slot SlotID) EntityID { return s.owners[slot] }
func (s *Store[T, PT]) isDead(slot SlotID) bool    { return s.dead[slot] }

func (s *Store[T, PT]) allocRaw(owner EntityID) (SlotID, Component) {
	slot, c := s.alloc(owner)
	return slot, c
}

func (s *Store[T, PT]) kill(slot SlotID) {
	if s.dead[slot] {
		return
	}
	s.dead[slot] = true
	s.live--
	var zero T
	s.chunks[slot/chunkSize][slot%chunkSize] = zero
}

func (s *Store[T, PT]) empty() storage {
	return newStore[T, PT](s.name, s.deps)
}

func (s *Store[T, PT]) sameType(other storage) bool {
	_, ok := other.(*Store[T, PT])
	return ok
}
