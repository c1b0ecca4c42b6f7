package ecs

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Comparator orders two entities of a store.
// Negative: a first. Zero: equal. Positive: b first.
type Comparator func(a, b Entity) int

// Container is the type-independent view of a Store used by the Registry
type Container interface {
	Has(e Entity) bool
	Remove(e Entity) error
	Clear()
	Len() int
	String() string
}

// Store holds one component type. Entities and components are kept in two
// parallel dense slices; index maps an entity to its slot. Index i of
// entities always belongs to index i of components.
type Store[T any] struct {
	name       string
	entities   []Entity
	components []*T
	index      map[Entity]int
	sorted     bool
}

// NewStore creates an empty store for component type T
func NewStore[T any]() *Store[T] {
	var zero T
	name := fmt.Sprintf("%T", zero)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return &Store[T]{
		name:       name,
		entities:   make([]Entity, 0, 16),
		components: make([]*T, 0, 16),
		index:      make(map[Entity]int, 16),
	}
}

// Has reports whether e has a component in this store
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.index[e]
	return ok
}

// Insert attaches c to e and returns it. A nil c inserts a zero value.
// With allowReplace an existing component is overwritten in its slot.
func (s *Store[T]) Insert(e Entity, c *T, allowReplace bool) (*T, error) {
	if e == Invalid {
		return nil, eris.Wrapf(ErrInvalidEntity, "%s: insert", s)
	}
	if c == nil {
		c = new(T)
	}
	if idx, ok := s.index[e]; ok {
		if !allowReplace {
			return nil, eris.Wrapf(ErrDuplicateComponent, "%s: entity %d", s, e)
		}
		s.components[idx] = c
		s.sorted = false
		return c, nil
	}

	s.entities = append(s.entities, e)
	s.components = append(s.components, c)
	s.index[e] = len(s.components) - 1
	s.sorted = false
	return c, nil
}

// Emplace attaches a zero-valued component to e
func (s *Store[T]) Emplace(e Entity) (*T, error) {
	return s.Insert(e, nil, false)
}

// Get returns the component of e
func (s *Store[T]) Get(e Entity) (*T, error) {
	idx, ok := s.index[e]
	if !ok {
		return nil, eris.Wrapf(ErrMissingComponent, "%s: entity %d", s, e)
	}
	return s.components[idx], nil
}

// MustGet returns the component of e and panics when it is missing.
// Callers probe with Has first.
func (s *Store[T]) MustGet(e Entity) *T {
	c, err := s.Get(e)
	if err != nil {
		panic(err)
	}
	return c
}

// Remove detaches the component of e. The last element is moved into the
// freed slot, so the order of the remaining elements changes.
func (s *Store[T]) Remove(e Entity) error {
	idx, ok := s.index[e]
	if !ok {
		return eris.Wrapf(ErrMissingComponent, "%s: remove entity %d", s, e)
	}
	last := len(s.entities) - 1
	moved := s.entities[last]

	s.entities[idx] = moved
	s.components[idx] = s.components[last]
	s.index[moved] = idx

	s.components[last] = nil
	s.entities = s.entities[:last]
	s.components = s.components[:last]
	delete(s.index, e)

	s.sorted = false
	return nil
}

// Clear empties the store
func (s *Store[T]) Clear() {
	clear(s.components)
	s.entities = s.entities[:0]
	s.components = s.components[:0]
	clear(s.index)
	s.sorted = false
}

// Len returns the number of components
func (s *Store[T]) Len() int {
	return len(s.entities)
}

// Entities returns the dense entity slice. It must not be modified and is
// invalidated by the next Insert, Remove or Sort.
func (s *Store[T]) Entities() []Entity {
	return s.entities
}

// Components returns the dense component slice, parallel to Entities
func (s *Store[T]) Components() []*T {
	return s.components
}

// At returns the i-th entity and its component
func (s *Store[T]) At(i int) (Entity, *T) {
	return s.entities[i], s.components[i]
}

// First returns the first entity and component, if any
func (s *Store[T]) First() (Entity, *T, bool) {
	if len(s.entities) == 0 {
		return Invalid, nil, false
	}
	return s.entities[0], s.components[0], true
}

func (s *Store[T]) String() string {
	return "Store<" + s.name + ">"
}
