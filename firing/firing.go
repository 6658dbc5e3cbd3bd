// Package firing implements the module firing kernel of spec.md §4.2: given
// a module, a marking, and the current firable set, fire a single
// transition and produce the updated marking and firable set, maintaining
// the invariant that the firable set equals exactly the transitions whose
// input preconditions are currently satisfied (and which have at least one
// arc at all — extern placeholders are never firable).
package firing

import (
	"fmt"

	"syncreach/marking"
	"syncreach/petrinet"
)

// Set is the firable set: a bag of transition ids with O(1) membership,
// the map-based upgrade spec.md §9 explicitly sanctions over a
// linear-scan-with-dedup slice, provided enable/disable timing is
// unchanged.
type Set map[petrinet.TransitionID]struct{}

// NewSet builds a Set from the given ids.
func NewSet(ids ...petrinet.TransitionID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether t is in the set.
func (s Set) Contains(t petrinet.TransitionID) bool {
	_, ok := s[t]
	return ok
}

// Add inserts t into the set (no-op if already present).
func (s Set) Add(t petrinet.TransitionID) {
	s[t] = struct{}{}
}

// Remove deletes t from the set (no-op if absent).
func (s Set) Remove(t petrinet.TransitionID) {
	delete(s, t)
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

// Slice returns the set's members in arbitrary order. Callers that need a
// deterministic order (e.g. for reproducible output) must sort it.
func (s Set) Slice() []petrinet.TransitionID {
	out := make([]petrinet.TransitionID, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	return out
}

// Initial computes the firable set of module for the given marking: every
// non-placeholder transition whose input places are all satisfied.
func Initial(module *petrinet.Module, m marking.Marking) Set {
	firable := make(Set)
	for i := range module.Transitions {
		t := &module.Transitions[i]
		if t.IsPlaceholder() {
			continue
		}
		if satisfied(t, m) {
			firable.Add(t.ID)
		}
	}
	return firable
}

func satisfied(t *petrinet.Transition, m marking.Marking) bool {
	for _, in := range t.InputPlaces {
		if m.Count(marking.PlaceID(in.Place)) < marking.Count(in.Weight) {
			return false
		}
	}
	return true
}

// Fire executes transition t — which must be a member of firable — against
// marking, returning the resulting marking and updated firable set.
// marking and firable are not mutated; Fire clones before modifying, per
// spec.md's per-call value semantics (the explorer relies on this to keep
// independent snapshots per queued marking).
//
// Order: every input place is consumed (and disabled transitions dropped)
// before any output place is produced (and newly-enabled transitions
// added), per spec.md §4.2. t itself is not special-cased for removal: if
// it disables itself (the common case for a transition that also consumes
// its own output precondition), that falls out of the input-place scan.
func Fire(module *petrinet.Module, m marking.Marking, firable Set, t petrinet.TransitionID) (marking.Marking, Set) {
	if !firable.Contains(t) {
		panic(fmt.Sprintf("firing: transition %d not in firable set", t))
	}
	next := m.Clone()
	nextFirable := firable.Clone()
	trans := module.Transition(t)

	for _, in := range trans.InputPlaces {
		newCount := next.Update(marking.PlaceID(in.Place), in.Weight, false)
		place := module.Place(in.Place)
		for _, out := range place.OutputTransitions {
			if !nextFirable.Contains(out.Transition) {
				continue
			}
			if marking.Count(out.Weight) > newCount {
				nextFirable.Remove(out.Transition)
			}
		}
	}

	for _, out := range trans.OutputPlaces {
		next.Update(marking.PlaceID(out.Place), out.Weight, true)
		place := module.Place(out.Place)
		for _, cand := range place.OutputTransitions {
			if nextFirable.Contains(cand.Transition) {
				continue
			}
			candidate := module.Transition(cand.Transition)
			if satisfied(candidate, next) {
				nextFirable.Add(cand.Transition)
			}
		}
	}

	return next, nextFirable
}
