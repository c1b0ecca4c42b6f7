package ecs

import "github.com/rotisserie/eris"

var (
	// ErrInvalidEntity is returned when a reserved id is used as a key
	ErrInvalidEntity = eris.New("invalid entity")
	// ErrDuplicateComponent is returned by Insert on an occupied slot
	ErrDuplicateComponent = eris.New("entity already has a component")
	// ErrMissingComponent is returned by Get and Remove when the entity has no component
	ErrMissingComponent = eris.New("entity has no component")
)
