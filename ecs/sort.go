package ecs

// Sort orders the store in place with a quicksort that takes the last
// element of each range as its pivot. Equal keys keep no particular order.
// The result is cached: a repeat call is a no-op until the store is mutated
// or forceResort is set, so pass forceResort when switching comparators.
func (s *Store[T]) Sort(cmp Comparator, forceResort bool) {
	if s.sorted && !forceResort {
		return
	}
	s.quicksort(0, len(s.entities), cmp)
	s.sorted = true
}

// quicksort sorts [lo, hi)
func (s *Store[T]) quicksort(lo, hi int, cmp Comparator) {
	for hi-lo > 1 {
		pivot := s.entities[hi-1]
		mid := lo
		for i := lo; i < hi-1; i++ {
			if cmp(s.entities[i], pivot) <= 0 {
				s.swap(i, mid)
				mid++
			}
		}
		s.swap(mid, hi-1)

		// Recurse into the smaller half, loop on the larger one
		if mid-lo < hi-mid-1 {
			s.quicksort(lo, mid, cmp)
			lo = mid + 1
		} else {
			s.quicksort(mid+1, hi, cmp)
			hi = mid
		}
	}
}

func (s *Store[T]) swap(i, j int) {
	if i == j {
		return
	}
	ei, ej := s.entities[i], s.entities[j]
	s.index[ei] = j
	s.index[ej] = i
	s.entities[i], s.entities[j] = ej, ei
	s.components[i], s.components[j] = s.components[j], s.components[i]
}
