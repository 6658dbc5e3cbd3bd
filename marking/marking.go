// Package marking implements the sorted, compact representation of a Petri
// net marking described in spec.md §3 and §4.1: a strictly place-id-sorted,
// zero-free sequence of (place, count) pairs supporting binary-search
// lookup, monotone update, and a total order.
package marking

import "sort"

// PlaceID identifies a place within a single module.
type PlaceID uint32

// Count is a non-negative token count.
type Count uint32

// PlaceCount is one (place_id, count) pair of a Marking.
type PlaceCount struct {
	Place PlaceID
	Count Count
}

// Marking is a strictly place-id-sorted, zero-free sequence of PlaceCount.
// The zero value is the empty marking.
type Marking struct {
	counts []PlaceCount
}

// New builds a Marking from pairs, sorting and dropping zero counts. It does
// not assume the input is already sorted or deduplicated; repeated entries
// for the same place have their counts added together.
func New(pairs ...PlaceCount) Marking {
	var m Marking
	for _, p := range pairs {
		if p.Count == 0 {
			continue
		}
		m.Update(p.Place, uint32(p.Count), true)
	}
	return m
}

// Counts returns the underlying sorted, zero-free pairs. Callers must treat
// the returned slice as read-only.
func (m Marking) Counts() []PlaceCount {
	return m.counts
}

// Len returns the number of places with non-zero count.
func (m Marking) Len() int {
	return len(m.counts)
}

// Count returns the token count of place p, 0 if p is absent. O(log n) via
// binary search, per spec.md §4.1.
func (m Marking) Count(p PlaceID) Count {
	i := m.search(p)
	if i < len(m.counts) && m.counts[i].Place == p {
		return m.counts[i].Count
	}
	return 0
}

func (m Marking) search(p PlaceID) int {
	return sort.Search(len(m.counts), func(i int) bool {
		return m.counts[i].Place >= p
	})
}

// Update applies a delta to place p and returns the resulting count.
//
// add=true:  increments p's count (inserting a new pair if p was absent).
// add=false: decrements p's count by delta; if the result is 0, the pair is
// removed and 0 is returned. add=false when p's current count is below
// delta is undefined — the caller (the firing kernel) must guarantee the
// place holds at least delta tokens before calling with add=false.
func (m *Marking) Update(p PlaceID, delta uint32, add bool) Count {
	i := m.search(p)
	hit := i < len(m.counts) && m.counts[i].Place == p
	if hit {
		if add {
			m.counts[i].Count += Count(delta)
			return m.counts[i].Count
		}
		m.counts[i].Count -= Count(delta)
		if m.counts[i].Count == 0 {
			m.counts = append(m.counts[:i], m.counts[i+1:]...)
			return 0
		}
		return m.counts[i].Count
	}
	// miss: add=false on a miss is undefined behavior per spec.md §4.1.
	m.counts = append(m.counts, PlaceCount{})
	copy(m.counts[i+1:], m.counts[i:])
	m.counts[i] = PlaceCount{Place: p, Count: Count(delta)}
	return Count(delta)
}

// Clone returns a deep, independent copy of m.
func (m Marking) Clone() Marking {
	if len(m.counts) == 0 {
		return Marking{}
	}
	out := make([]PlaceCount, len(m.counts))
	copy(out, m.counts)
	return Marking{counts: out}
}

// Equal reports whether m and other have pointwise-equal sequences.
func Equal(m, other Marking) bool {
	if len(m.counts) != len(other.counts) {
		return false
	}
	for i := range m.counts {
		if m.counts[i] != other.counts[i] {
			return false
		}
	}
	return true
}

// Cmp defines a total order over markings: shorter sequences sort first;
// equal-length sequences compare lexicographically on (place_id, count).
func Cmp(a, b Marking) int {
	if len(a.counts) != len(b.counts) {
		if len(a.counts) < len(b.counts) {
			return -1
		}
		return 1
	}
	for i := range a.counts {
		pa, pb := a.counts[i], b.counts[i]
		if pa.Place != pb.Place {
			if pa.Place < pb.Place {
				return -1
			}
			return 1
		}
		if pa.Count != pb.Count {
			if pa.Count < pb.Count {
				return -1
			}
			return 1
		}
	}
	return 0
}
