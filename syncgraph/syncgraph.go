// Package syncgraph builds and holds the top-level synchronization graph of
// a modular Petri net (spec.md §4.5, §4.6): sync nodes recording, per
// module, which segment that module currently occupies, linked by edges
// labeled with the extern transition that fires to reach them.
package syncgraph

import "syncreach/segment"

// SyncEdge is one outgoing extern-transition edge of a sync node.
type SyncEdge struct {
	Transition uint32
	Target     uint32
}

// SyncMarking is (segment_ids[per module], edges) — a node of the
// top-level synchronization graph (spec.md §3). Equality is pointwise
// equality of SegmentIDs.
type SyncMarking struct {
	SegmentIDs []uint32
	Edges      []SyncEdge
}

func sameSegmentIDs(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ModuleState is one module's slot in the graph aggregate: its installed
// segments and the next free marking id for that module (spec.md §3).
type ModuleState struct {
	Segments      segment.Index
	NextMarkingID segment.MarkingID
}

// Graph is the aggregate owning all sync nodes and, per module, all
// segments — the sole owner of markings, segments, and sync nodes;
// everything else references them by id (spec.md §4.6, §9).
type Graph struct {
	SyncNodes []SyncMarking
	Modules   []ModuleState
}

// ContainsSyncNode returns the id of an existing sync node equal to sm, if
// any (linear scan by SegmentIDs equality, spec.md §4.6).
func (g *Graph) ContainsSyncNode(sm SyncMarking) (uint32, bool) {
	for i := range g.SyncNodes {
		if sameSegmentIDs(g.SyncNodes[i].SegmentIDs, sm.SegmentIDs) {
			return uint32(i), true
		}
	}
	return 0, false
}
