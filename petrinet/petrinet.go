// Package petrinet is the static structural description of a modular Petri
// net: places, transitions, modules, and the cross-module extern-transition
// overview, per spec.md §3. It owns no markings and runs nothing — it is
// the read-only graph that the firing kernel (package firing) and the
// segment/sync-graph explorers (packages segment, syncgraph) walk.
package petrinet

import "syncreach/marking"

// TransitionID identifies a transition within a single module. IDs in
// [0, Net.InternStart) are extern (synchronized across modules); IDs in
// [Net.InternStart, ...) are internal to the owning module.
type TransitionID = uint32

// Arc is a weighted place/transition connection.
type Arc struct {
	Transition uint32
	Weight     uint32
}

// PlaceArc is a weighted place reference from a transition's perspective.
type PlaceArc struct {
	Place  uint32
	Weight uint32
}

// Place is (id, name, input_transitions, output_transitions) per spec.md
// §3: input_transitions are transitions that deposit into this place,
// output_transitions are transitions that consume from it.
type Place struct {
	ID                uint32
	Name              string
	InputTransitions  []Arc
	OutputTransitions []Arc
}

// Transition is (id, name, input_places, output_places) per spec.md §3. A
// transition with both lists empty is an extern placeholder: this module
// does not reference that extern transition.
type Transition struct {
	ID           uint32
	Name         string
	InputPlaces  []PlaceArc
	OutputPlaces []PlaceArc
}

// IsPlaceholder reports whether t is an extern placeholder: present in a
// module's transition table only to reserve the id slot, with no arcs.
func (t Transition) IsPlaceholder() bool {
	return len(t.InputPlaces) == 0 && len(t.OutputPlaces) == 0
}

// Module is a self-contained Petri net: a name, its own places, and its own
// transitions (including extern placeholders for externs it doesn't use).
type Module struct {
	ID          uint16
	Name        string
	Places      []Place
	Transitions []Transition
}

// Transition returns the module's transition with the given id. Panics if
// out of range: every valid TransitionID for a module is guaranteed in
// range by construction (every extern id has a slot, real or placeholder,
// in every module; every internal id was assigned by this module).
func (m *Module) Transition(id uint32) *Transition {
	return &m.Transitions[id]
}

// Place returns the module's place with the given id.
func (m *Module) Place(id uint32) *Place {
	return &m.Places[id]
}

// Net is the modular Petri net (spec.md §3): its modules, their initial
// markings, the extern/intern id boundary, and the extern-transition
// overview (which modules reference which extern transition).
type Net struct {
	Modules         []Module
	InitialMarkings []marking.Marking // one per module, same index as Modules
	InternStart     uint32            // transition ids < InternStart are extern
	// ExternOverview[t] is the sorted set of module ids whose copy of
	// extern transition t is non-placeholder — the set of modules that
	// must concurrently enable t for it to fire (spec.md §3, §4.5).
	ExternOverview [][]uint16
	// ExternNames[t] is the display name of extern transition t, recorded
	// once at transform time (spec.md §9's suggested redesign: a
	// dedicated registry instead of a render-time module scan).
	ExternNames []string
}

// IsExtern reports whether t is an extern transition id.
func (n *Net) IsExtern(t uint32) bool {
	return t < n.InternStart
}
