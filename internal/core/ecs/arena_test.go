package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArena(t *testing.T) *Arena {
	t.Helper()
	return NewArena(NewIDAllocator(), nil, nil)
}

func mustEntity(t *testing.T, a *Arena, name string) *Entity {
	t.Helper()
	e, err := a.CreateEntity(name)
	require.NoError(t, err)
	return e
}

func TestCreateComponentDependencyViolation(t *testing.T) {
	a := newTestArena(t)
	e := mustEntity(t, a, "E2")

	v, err := CreateComponent[velocity](a, e.ID)
	assert.Nil(t, v)
	require.ErrorIs(t, err, ErrDependencyMissing)

	var depErr *DependencyError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, "Velocity", depErr.Component)
	assert.Equal(t, "Position", depErr.Missing)
	assert.Equal(t, e.ID, depErr.Entity)

	assert.Empty(t, e.ComponentTypes(), "entity map must be unchanged")
	assert.Zero(t, a.ComponentCount())
	assert.Empty(t, a.TypeNames(), "no store is registered for a failed construction")
}

func TestCreateComponentUnknownEntity(t *testing.T) {
	a := newTestArena(t)
	_, err := CreateComponent[position](a, 404)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestGetComponentBeforeAndAfterAttach(t *testing.T) {
	a := newTestArena(t)
	e := mustEntity(t, a, "E1")

	assert.Nil(t, GetComponent[position](a, e.ID))
	assert.Nil(t, GetComponent[position](a, 999), "unknown entity is a miss, not an error")

	p, err := CreateComponent[position](a, e.ID, func(p *position) {
		p.X, p.Y = 3, 4
	})
	require.NoError(t, err)

	got := GetComponent[position](a, e.ID)
	require.NotNil(t, got)
	assert.Same(t, p, got)
	assert.Equal(t, 3.0, got.X)
	assert.Equal(t, 4.0, got.Y)
}

func TestCreateComponentBindsAndInitializesOnce(t *testing.T) {
	a := newTestArena(t)
	e := mustEntity(t, a, "E1")

	p, err := CreateComponent[position](a, e.ID, func(p *position) {
		assert.Nil(t, p.Arena(), "configure sees an unbound value")
		assert.Zero(t, p.inits)
	})
	require.NoError(t, err)

	assert.Same(t, a, p.Arena())
	assert.Equal(t, e.ID, p.Owner())
	assert.Equal(t, 1, p.inits)

	a.UpdateAll(1)
	assert.Equal(t, 1, p.inits)
}

func TestPointersStableAcrossGrowth(t *testing.T) {
	a := newTestArena(t)
	first := mustEntity(t, a, "first")
	p0, err := CreateComponent[position](a, first.ID)
	require.NoError(t, err)
	p0.X = 42

	for i := 0; i < 3*chunkSize; i++ {
		e := mustEntity(t, a, "filler")
		_, err = CreateComponent[position](a, e.ID)
		require.NoError(t, err)
	}

	assert.Same(t, p0, GetComponent[position](a, first.ID))
	assert.Equal(t, 42.0, p0.X)
	assert.Equal(t, 3*chunkSize+1, StoreOf[position](a).Len())
}

func TestMultipleInstancesPerEntity(t *testing.T) {
	a := newTestArena(t)
	e := mustEntity(t, a, "E")

	m1, err := CreateComponent[marker](a, e.ID, func(m *marker) { m.Label = "first" })
	require.NoError(t, err)
	_, err = CreateComponent[marker](a, e.ID, func(m *marker) { m.Label = "second" })
	require.NoError(t, err)

	assert.Same(t, m1, GetComponent[marker](a, e.ID))
	all := GetComponents[marker](a, e.ID)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[1].Label)
}

func TestUpdateOrderIsDeterministic(t *testing.T) {
	run := func() []string {
		var trace []string
		a := newTestArena(t)
		e1 := mustEntity(t, a, "a")
		e2 := mustEntity(t, a, "b")
		add := func(id EntityID, label string) {
			_, err := CreateComponent[marker](a, id, func(m *marker) {
				m.Label = label
				m.trace = &trace
			})
			require.NoError(t, err)
		}
		add(e2.ID, "b1")
		add(e1.ID, "a1")
		add(e2.ID, "b2")
		a.UpdateAll(0.016)
		a.UpdateAll(0.016)
		return trace
	}

	first := run()
	assert.Equal(t, []string{"b1", "a1", "b2", "b1", "a1", "b2"}, first, "slot order within a type")
	assert.Equal(t, first, run())
}

func TestTypeRegistrationOrderDrivesDispatch(t *testing.T) {
	a := newTestArena(t)
	e := mustEntity(t, a, "mover")
	_, err := CreateComponent[position](a, e.ID)
	require.NoError(t, err)
	_, err = CreateComponent[velocity](a, e.ID, func(v *velocity) { v.DX = 2 })
	require.NoError(t, err)
	_, err = CreateComponent[marker](a, e.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Position", "Velocity", "Marker"}, a.TypeNames())
	assert.Equal(t, []string{"Position"}, a.Dependencies("Velocity"))
}

func TestInactiveEntitiesAreSkipped(t *testing.T) {
	a := newTestArena(t)
	e := mustEntity(t, a, "sleeper")
	p, err := CreateComponent[position](a, e.ID)
	require.NoError(t, err)
	_, err = CreateComponent[velocity](a, e.ID, func(v *velocity) { v.DX = 1 })
	require.NoError(t, err)
	_, err = CreateComponent[marker](a, e.ID)
	require.NoError(t, err)

	e.Active = false
	a.UpdateAll(1)
	assert.Zero(t, p.X)
	assert.Empty(t, a.DrawAll())

	e.Active = true
	a.UpdateAll(1)
	assert.Equal(t, 1.0, p.X)
	assert.Len(t, a.DrawAll(), 1)
}

func TestUpdateZeroIsIdempotent(t *testing.T) {
	a := newTestArena(t)
	e := mustEntity(t, a, "mover")
	_, err := CreateComponent[position](a, e.ID, func(p *position) { p.X = 1 })
	require.NoError(t, err)
	_, err = CreateComponent[velocity](a, e.ID, func(v *velocity) { v.DX, v.DY = 5, -5 })
	require.NoError(t, err)

	a.UpdateAll(0)
	before := a.Checksum()
	a.UpdateAll(0)
	assert.Equal(t, before, a.Checksum())

	a.UpdateAll(0.5)
	assert.NotEqual(t, before, a.Checksum())
}

func TestRemoveComponentsRespectsDependents(t *testing.T) {
	a := newTestArena(t)
	e := mustEntity(t, a, "E")
	_, err := CreateComponent[position](a, e.ID)
	require.NoError(t, err)
	_, err = CreateComponent[velocity](a, e.ID)
	require.NoError(t, err)

	err = a.RemoveComponents(e.ID, "Position")
	require.ErrorIs(t, err, ErrHasDependents)
	var depErr *DependentsError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, []string{"Velocity"}, depErr.Dependents)
	assert.NotNil(t, GetComponent[position](a, e.ID))

	require.NoError(t, a.RemoveComponents(e.ID, "Velocity"))
	require.NoError(t, a.RemoveComponents(e.ID, "Position"))
	assert.Nil(t, GetComponent[position](a, e.ID))
	assert.Zero(t, a.ComponentCount())

	assert.ErrorIs(t, a.RemoveComponents(e.ID, "Position"), ErrComponentNotFound)
	assert.ErrorIs(t, a.RemoveComponents(77, "Position"), ErrEntityNotFound)

	// freed slots are never reused
	_, err = CreateComponent[position](a, e.ID)
	require.NoError(t, err)
	slot, _ := e.GetComponent("Position")
	assert.Equal(t, SlotID(1), slot)
	assert.Nil(t, a.Component("Position", 0))
	assert.Equal(t, 1, StoreOf[position](a).Live())
}

func TestTypeNameConflict(t *testing.T) {
	a := newTestArena(t)
	e := mustEntity(t, a, "E")
	_, err := CreateComponent[position](a, e.ID)
	require.NoError(t, err)

	_, err = CreateComponent[impostor](a, e.ID)
	assert.ErrorIs(t, err, ErrTypeConflict)
	assert.Len(t, e.Components("Position"), 1)
}

func buildSource(t *testing.T, ids *IDAllocator) (*Arena, *Entity, *Entity) {
	t.Helper()
	src := NewArena(ids, nil, nil)
	e1 := mustEntity(t, src, "E1")
	_, err := CreateComponent[position](src, e1.ID, func(p *position) {
		p.X, p.Y = 10, 20
		p.History = []float64{1, 2, 3}
	})
	require.NoError(t, err)
	_, err = CreateComponent[velocity](src, e1.ID, func(v *velocity) { v.DX = 1 })
	require.NoError(t, err)

	e2 := mustEntity(t, src, "E2")
	_, err = CreateComponent[marker](src, e2.ID, func(m *marker) { m.Label = "flag"; m.Layer = 3 })
	require.NoError(t, err)
	e2.Active = false
	return src, e1, e2
}

func TestCopyIntoProducesIndependentEqualGraph(t *testing.T) {
	ids := NewIDAllocator()
	src, e1, e2 := buildSource(t, ids)
	dst := NewArena(ids, nil, nil)

	mapping, err := src.CopyInto(dst)
	require.NoError(t, err)

	assert.Equal(t, src.EntityCount(), dst.EntityCount())
	assert.Equal(t, src.ComponentCount(), dst.ComponentCount())
	assert.Equal(t, src.TypeNames(), dst.TypeNames())
	assert.Equal(t, src.Checksum(), dst.Checksum(), "copies are value-equal at clone time")

	c1 := dst.Entity(mapping[e1.ID])
	c2 := dst.Entity(mapping[e2.ID])
	require.NotNil(t, c1)
	require.NotNil(t, c2)
	assert.Equal(t, "E1_0", c1.Name)
	assert.True(t, c1.Active)
	assert.False(t, c2.Active)

	for srcID, dstID := range mapping {
		assert.NotEqual(t, srcID, dstID)
		assert.Nil(t, src.Entity(dstID))
	}

	orig := GetComponent[position](src, e1.ID)
	clone := GetComponent[position](dst, c1.ID)
	require.NotNil(t, clone)
	assert.NotSame(t, orig, clone)
	assert.Same(t, dst, clone.Arena())
	assert.Equal(t, c1.ID, clone.Owner())
	assert.Equal(t, orig.inits, clone.inits, "clones are not re-initialized")

	clone.X = -1
	clone.History[0] = 99
	assert.Equal(t, 10.0, orig.X)
	assert.Equal(t, []float64{1, 2, 3}, orig.History)
	assert.NotEqual(t, src.Checksum(), dst.Checksum())

	// clone's velocity drives the clone's position only
	dst.UpdateAll(1)
	assert.Equal(t, 0.0, clone.X)
	assert.Equal(t, 10.0, orig.X)
}

func TestIDsAfterCopyAreDisjoint(t *testing.T) {
	ids := NewIDAllocator()
	src, _, _ := buildSource(t, ids)
	dst := NewArena(ids, nil, nil)
	_, err := src.CopyInto(dst)
	require.NoError(t, err)

	seen := map[EntityID]bool{}
	for _, e := range append(src.Entities(), dst.Entities()...) {
		assert.False(t, seen[e.ID], "id %d reused", e.ID)
		seen[e.ID] = true
	}
	later := mustEntity(t, dst, "later")
	assert.False(t, seen[later.ID])
}

func TestCopyIntoSkipsRemovedComponents(t *testing.T) {
	ids := NewIDAllocator()
	src, e1, _ := buildSource(t, ids)
	require.NoError(t, src.RemoveComponents(e1.ID, "Velocity"))

	dst := NewArena(ids, nil, nil)
	mapping, err := src.CopyInto(dst)
	require.NoError(t, err)
	assert.Nil(t, GetComponent[velocity](dst, mapping[e1.ID]))
	assert.Equal(t, src.ComponentCount(), dst.ComponentCount())
}

func TestCopyIntoRejectsBadTargets(t *testing.T) {
	src, _, _ := buildSource(t, NewIDAllocator())
	_, err := src.CopyInto(src)
	assert.Error(t, err)

	released := newTestArena(t)
	released.Release()
	_, err = src.CopyInto(released)
	assert.ErrorIs(t, err, ErrArenaReleased)

	conflicting := newTestArena(t)
	e := mustEntity(t, conflicting, "x")
	_, err = CreateComponent[impostor](conflicting, e.ID)
	require.NoError(t, err)
	before := conflicting.EntityCount()
	_, err = src.CopyInto(conflicting)
	assert.ErrorIs(t, err, ErrTypeConflict)
	assert.Equal(t, before, conflicting.EntityCount(), "failed copy leaves target untouched")
}

func TestReleaseDropsEverything(t *testing.T) {
	src, e1, _ := buildSource(t, NewIDAllocator())
	src.Release()

	assert.True(t, src.Released())
	assert.Nil(t, GetComponent[position](src, e1.ID))
	assert.Zero(t, src.EntityCount())
	assert.Nil(t, src.DrawAll())
	assert.False(t, e1.Active)

	_, err := src.CreateEntity("late")
	assert.ErrorIs(t, err, ErrArenaReleased)
	_, err = CreateComponent[position](src, e1.ID)
	assert.ErrorIs(t, err, ErrArenaReleased)
	src.UpdateAll(1)
}

func TestComponentsOfAndUntypedLookup(t *testing.T) {
	src, e1, e2 := buildSource(t, NewIDAllocator())

	comps := src.ComponentsOf(e1.ID)
	require.Len(t, comps, 2)
	assert.Equal(t, "Position", comps[0].TypeName())
	assert.Equal(t, "Velocity", comps[1].TypeName())

	slot, _ := e2.GetComponent("Marker")
	assert.Equal(t, "Marker", src.Component("Marker", slot).TypeName())
	assert.Nil(t, src.Component("Marker", 50))
	assert.Nil(t, src.Component("Nope", 0))
	assert.Nil(t, src.ComponentsOf(1234))
}

func TestVisitStopsEarly(t *testing.T) {
	src, _, e2 := buildSource(t, NewIDAllocator())
	e2.Active = true

	var names []string
	src.Visit(func(c Component) bool {
		names = append(names, c.TypeName())
		return c.TypeName() != "Velocity"
	})
	assert.Equal(t, []string{"Position", "Velocity"}, names)
}
