package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDAllocatorIsMonotonic(t *testing.T) {
	ids := NewIDAllocator()
	assert.Equal(t, EntityID(0), ids.Peek())
	assert.Equal(t, EntityID(0), ids.Next())
	assert.Equal(t, EntityID(1), ids.Next())
	assert.Equal(t, EntityID(2), ids.Peek())
}

func TestSharedAllocatorAcrossArenas(t *testing.T) {
	ids := NewIDAllocator()
	a := NewArena(ids, nil, nil)
	b := NewArena(ids, nil, nil)

	ea, _ := a.CreateEntity("a")
	eb, _ := b.CreateEntity("b")
	ea2, _ := a.CreateEntity("a")

	assert.Equal(t, EntityID(0), ea.ID)
	assert.Equal(t, EntityID(1), eb.ID)
	assert.Equal(t, EntityID(2), ea2.ID)
}
