package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrDependencyMissing = errors.New("ecs: component dependency not attached")
	ErrHasDependents     = errors.New("ecs: component is required by other components")
	ErrEntityNotFound    = errors.New("ecs: entity not found")
	ErrComponentNotFound = errors.New("ecs: component not attached")
	ErrTypeConflict      = errors.New("ecs: component type name registered by another type")
	ErrArenaReleased     = errors.New("ecs: arena released")
)

// DependencyError reports the first missing dependency of a component that
// could not be constructed.
type DependencyError struct {
	Component string
	Missing   string
	Entity    EntityID
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("ecs: %s on entity %d requires %s", e.Component, e.Entity, e.Missing)
}

func (e *DependencyError) Unwrap() error { return ErrDependencyMissing }

// DependentsError reports why a component type could not be removed.
type DependentsError struct {
	Component  string
	Dependents []string
	Entity     EntityID
}

func (e *DependentsError) Error() string {
	return fmt.Sprintf("ecs: %s on entity %d is required by %v", e.Component, e.Entity, e.Dependents)
}

func (e *DependentsError) Unwrap() error { return ErrHasDependents }
