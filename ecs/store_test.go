package ecs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	X, Y float64
}

type layer struct {
	Z int
}

func TestStoreInsertHasGet(t *testing.T) {
	s := NewStore[position]()
	p0 := &position{X: 1}
	got, err := s.Insert(0, p0, false)
	require.NoError(t, err)
	assert.Same(t, p0, got)

	_, err = s.Emplace(1)
	require.NoError(t, err)

	assert.True(t, s.Has(0))
	assert.True(t, s.Has(1))
	assert.False(t, s.Has(2))
	assert.Equal(t, 2, s.Len())

	c, err := s.Get(0)
	require.NoError(t, err)
	assert.Same(t, p0, c)

	_, err = s.Get(3)
	assert.ErrorIs(t, err, ErrMissingComponent)
}

func TestStoreDuplicateInsertLeavesStoreUnchanged(t *testing.T) {
	s := NewStore[position]()
	p0 := &position{X: 1}
	_, err := s.Insert(0, p0, false)
	require.NoError(t, err)
	_, err = s.Insert(1, nil, false)
	require.NoError(t, err)

	_, err = s.Insert(1, &position{X: 9}, false)
	assert.ErrorIs(t, err, ErrDuplicateComponent)
	assert.Len(t, s.Entities(), 2)
	assert.Len(t, s.Components(), 2)
	assert.Same(t, p0, s.MustGet(0))
	assert.Equal(t, position{}, *s.MustGet(1))

	// Replacement keeps one slot per entity
	p1 := &position{X: 9}
	got, err := s.Insert(1, p1, true)
	require.NoError(t, err)
	assert.Same(t, p1, got)
	assert.Equal(t, 2, s.Len())
	assert.Same(t, p1, s.MustGet(1))
}

func TestStoreRejectsInvalidEntity(t *testing.T) {
	s := NewStore[position]()
	_, err := s.Insert(Invalid, nil, false)
	assert.ErrorIs(t, err, ErrInvalidEntity)
	assert.Equal(t, 0, s.Len())
}

func TestStoreRemoveSwapsLast(t *testing.T) {
	s := NewStore[position]()
	s.mustInsertAll(t, 0, 1, 2)
	p2 := s.MustGet(2)

	require.NoError(t, s.Remove(1))
	assert.Equal(t, []Entity{0, 2}, s.Entities())
	assert.Same(t, p2, s.MustGet(2))
	assert.False(t, s.Has(1))

	err := s.Remove(1)
	assert.ErrorIs(t, err, ErrMissingComponent)
}

func TestStoreRandomInsertRemoveKeepsIndexConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewStore[position]()
	want := make(map[Entity]*position)

	for i := 0; i < 2000; i++ {
		e := Entity(rng.Intn(64))
		if s.Has(e) {
			require.NoError(t, s.Remove(e))
			delete(want, e)
		} else {
			p := &position{X: float64(e)}
			_, err := s.Insert(e, p, false)
			require.NoError(t, err)
			want[e] = p
		}

		require.Equal(t, len(s.Entities()), len(s.Components()))
		require.Equal(t, len(want), s.Len())
	}
	for e, p := range want {
		got, err := s.Get(e)
		require.NoError(t, err)
		assert.Same(t, p, got)
	}
	for i, e := range s.Entities() {
		assert.Same(t, want[e], s.Components()[i])
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore[position]()
	s.mustInsertAll(t, 4, 5)
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has(4))

	_, err := s.Insert(4, nil, false)
	assert.NoError(t, err)
}

func TestStoreSort(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 64} {
		rng := rand.New(rand.NewSource(int64(n)))
		s := NewStore[layer]()
		for i := 0; i < n; i++ {
			_, err := s.Insert(Entity(i), &layer{Z: rng.Intn(10)}, false)
			require.NoError(t, err)
		}
		cmp := func(a, b Entity) int {
			return s.MustGet(a).Z - s.MustGet(b).Z
		}
		s.Sort(cmp, false)

		for i := 1; i < s.Len(); i++ {
			assert.LessOrEqual(t, cmp(s.Entities()[i-1], s.Entities()[i]), 0)
		}
		for i, e := range s.Entities() {
			assert.Same(t, s.Components()[i], s.MustGet(e))
		}
	}
}

func TestStoreSortIsCached(t *testing.T) {
	s := NewStore[layer]()
	for i := 0; i < 8; i++ {
		_, err := s.Insert(Entity(i), &layer{Z: 8 - i}, false)
		require.NoError(t, err)
	}
	calls := 0
	cmp := func(a, b Entity) int {
		calls++
		return s.MustGet(a).Z - s.MustGet(b).Z
	}

	s.Sort(cmp, false)
	require.Positive(t, calls)

	calls = 0
	s.Sort(cmp, false)
	assert.Zero(t, calls)

	s.Sort(cmp, true)
	assert.Positive(t, calls)

	// A mutation invalidates the cache
	_, err := s.Insert(100, &layer{Z: 0}, false)
	require.NoError(t, err)
	calls = 0
	s.Sort(cmp, false)
	assert.Positive(t, calls)
	assert.Equal(t, Entity(100), s.Entities()[0])
}

func TestStoreString(t *testing.T) {
	assert.Equal(t, "Store<position>", NewStore[position]().String())
	assert.Equal(t, "Store<layer>", NewStore[layer]().String())
}

func TestAllocatorIsMonotonic(t *testing.T) {
	var a Allocator
	assert.Equal(t, Entity(0), a.Generate())
	assert.Equal(t, Entity(1), a.Generate())
	assert.Equal(t, Entity(2), a.Generate())
	assert.Equal(t, uint64(3), a.Issued())
}

// mustInsertAll is a test helper inserting zero components
func (s *Store[T]) mustInsertAll(t *testing.T, entities ...Entity) {
	t.Helper()
	for _, e := range entities {
		_, err := s.Emplace(e)
		require.NoError(t, err)
	}
}
