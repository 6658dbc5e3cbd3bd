package segment

import (
	"sort"

	"github.com/rs/zerolog"

	"syncreach/firing"
	"syncreach/marking"
	"syncreach/petrinet"
)

// ExternRecord is one observation of an extern transition enabled at a
// marking during segment exploration: which transition, at which marking,
// with which full firable snapshot (needed later to fire it, spec.md
// §4.5 step 2a).
type ExternRecord struct {
	Transition petrinet.TransitionID
	Marking    MarkingID
	Firable    firing.Set
}

// Seed is one starting point for exploration: a marking and its firable
// set, as already computed by the caller (the initial marking, or the
// result of firing an extern transition).
type Seed struct {
	Marking marking.Marking
	Firable firing.Set
}

// Result is the output of Explore: the built segment, the extern
// transitions observed enabled anywhere in it, and the next free marking
// id for the module.
type Result struct {
	Segment       Segment
	ExternRecords []ExternRecord
	NextMarkingID MarkingID
}

// Explore builds the internal-closure segment for one or more seed
// markings of module, per spec.md §4.3. Extern transitions are never
// fired inside a segment — only observed and recorded. Each seed receives
// a sequential id starting at firstMarkingID.
func Explore(module *petrinet.Module, seeds []Seed, segID uint32, internStart petrinet.TransitionID, firstMarkingID MarkingID, log zerolog.Logger) Result {
	seg := Segment{ID: segID, MarkingOffset: firstMarkingID}
	var externRecords []ExternRecord

	type work struct {
		id      MarkingID
		firable firing.Set
	}
	var queue []work

	for i, s := range seeds {
		id := firstMarkingID + MarkingID(i)
		seg.Markings = append(seg.Markings, GraphMarking{ID: id, Marking: s.Marking})
		queue = append(queue, work{id: id, firable: s.Firable})
		for _, t := range sortedExtern(s.Firable, internStart) {
			externRecords = append(externRecords, ExternRecord{Transition: t, Marking: id, Firable: s.Firable})
		}
	}

	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		idx := cur.id - firstMarkingID
		m := seg.Markings[idx].Marking
		var edges []Edge

		for _, t := range sortedAll(cur.firable) {
			if t < internStart {
				continue // extern: observe only, never fire locally
			}
			newMarking, newFirable := firing.Fire(module, m, cur.firable, t)

			var targetID MarkingID
			if existing, ok := seg.FindMarking(newMarking); ok {
				targetID = existing
			} else {
				targetID = seg.MarkingOffset + MarkingID(len(seg.Markings))
				seg.Markings = append(seg.Markings, GraphMarking{ID: targetID, Marking: newMarking})
				for _, et := range sortedExtern(newFirable, internStart) {
					externRecords = append(externRecords, ExternRecord{Transition: et, Marking: targetID, Firable: newFirable})
				}
				queue = append(queue, work{id: targetID, firable: newFirable})
			}
			edges = append(edges, Edge{Transition: t, Target: targetID})
		}
		seg.Markings[idx].Edges = edges
	}

	log.Debug().
		Uint32("segment_id", segID).
		Int("markings", len(seg.Markings)).
		Int("extern_observations", len(externRecords)).
		Msg("segment explored")

	return Result{
		Segment:       seg,
		ExternRecords: externRecords,
		NextMarkingID: firstMarkingID + MarkingID(len(seg.Markings)),
	}
}

// sortedExtern returns the extern (< internStart) members of f in
// ascending transition-id order, for deterministic record emission
// (spec.md §5).
func sortedExtern(f firing.Set, internStart petrinet.TransitionID) []petrinet.TransitionID {
	var out []petrinet.TransitionID
	for t := range f {
		if t < internStart {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sortedAll returns all members of f in ascending transition-id order, for
// deterministic exploration order (spec.md §5 requires reproducible
// output; exploration order itself does not affect the resulting segment
// content since segment equivalence is by marking multiset, but a fixed
// order keeps edge-label ordering reproducible too).
func sortedAll(f firing.Set) []petrinet.TransitionID {
	out := f.Slice()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
