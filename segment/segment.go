// Package segment implements local segment enumeration (spec.md §4.3) and
// segment canonicalization by content (spec.md §4.4): the internal-closure
// search over a module's reachable markings, and the fold of structurally
// equivalent segments to a single installed id.
package segment

import (
	"sort"

	"syncreach/marking"
	"syncreach/petrinet"
)

// MarkingID is globally unique within its owning module, monotonically
// assigned (spec.md §3).
type MarkingID = uint32

// Edge is an internal-transition firing from one marking to another within
// the same segment.
type Edge struct {
	Transition petrinet.TransitionID
	Target     MarkingID
}

// GraphMarking is one installed, concrete marking of a segment, with its
// internal-transition edges (spec.md §3).
type GraphMarking struct {
	ID      MarkingID
	Marking marking.Marking
	Edges   []Edge
}

// ExternSeedEdge records, for an extern transition that exits a segment,
// the marking at which it fires and the resulting seed marking id in the
// successor segment (spec.md §3's "segment edge ledger").
type ExternSeedEdge struct {
	SourceMarking MarkingID
	SeedMarking   MarkingID
}

// ExternLedgerEntry is one (extern_t_id, seeds) row of a segment's extern
// edge ledger.
type ExternLedgerEntry struct {
	Transition petrinet.TransitionID
	Seeds      []ExternSeedEdge
}

// Segment is the maximal internally-closed set of markings reachable from a
// seed set by firing internal transitions only (spec.md §3). MarkingOffset
// is the smallest marking id in the segment; ids are contiguous from there.
type Segment struct {
	ID            uint32
	MarkingOffset MarkingID
	Markings      []GraphMarking
	// ExternLedger grows after installation as the sync-graph builder
	// discovers extern transitions exiting this segment (spec.md §3).
	// It is not part of segment content-equality (spec.md §4.4).
	ExternLedger []ExternLedgerEntry
	// ExternRecords is the set of extern transitions observed enabled
	// somewhere in this segment, captured once at the moment the segment
	// was built (see Explore). It is what the sync-graph builder reads to
	// find commonly-enabled extern transitions for whichever sync node
	// currently references this segment — computed once per distinct
	// segment content rather than re-derived on every lookup.
	ExternRecords []ExternRecord
}

// MarkingByID returns the installed marking with the given id.
func (seg *Segment) MarkingByID(id MarkingID) *GraphMarking {
	return &seg.Markings[id-seg.MarkingOffset]
}

// FindMarking returns the id of a marking in seg structurally equal to m, if
// any (linear scan, spec.md §4.3).
func (seg *Segment) FindMarking(m marking.Marking) (MarkingID, bool) {
	for i := range seg.Markings {
		if marking.Equal(seg.Markings[i].Marking, m) {
			return seg.Markings[i].ID, true
		}
	}
	return 0, false
}

// sortedMarkings returns a copy of seg's markings sorted by marking order,
// for content-equivalence comparison (spec.md §4.4).
func (seg *Segment) sortedMarkings() []marking.Marking {
	out := make([]marking.Marking, len(seg.Markings))
	for i, gm := range seg.Markings {
		out[i] = gm.Marking
	}
	sort.Slice(out, func(i, j int) bool { return marking.Cmp(out[i], out[j]) < 0 })
	return out
}

// Equivalent reports whether a and b contain the same multiset of markings
// (spec.md §4.4): internal dynamics are a deterministic function of the
// seed set, so equal marking content implies equal internal edge structure
// up to id renaming — edge-label equivalence is not required.
func Equivalent(a, b *Segment) bool {
	if len(a.Markings) != len(b.Markings) {
		return false
	}
	as, bs := a.sortedMarkings(), b.sortedMarkings()
	for i := range as {
		if !marking.Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}

// AppendLedgerEntry appends a (t, seeds) row to seg's extern edge ledger.
func (seg *Segment) AppendLedgerEntry(t petrinet.TransitionID, seeds []ExternSeedEdge) {
	seg.ExternLedger = append(seg.ExternLedger, ExternLedgerEntry{Transition: t, Seeds: seeds})
}

// ReplaceLastLedgerEntry overwrites the most recently appended ledger entry
// for transition t with an empty-seeds entry. Used for the sync-level
// self-loop case (spec.md §4.5 step 2g): the candidate successor segment
// built while probing the self-loop is discarded, so its entry is
// rewritten to reflect that no new seeds were introduced.
func (seg *Segment) ReplaceLastLedgerEntry(t petrinet.TransitionID) {
	if len(seg.ExternLedger) == 0 {
		panic("segment: ReplaceLastLedgerEntry on empty ledger")
	}
	last := &seg.ExternLedger[len(seg.ExternLedger)-1]
	if last.Transition != t {
		panic("segment: ReplaceLastLedgerEntry transition mismatch")
	}
	last.Seeds = nil
}

// Index folds freshly built segments to the id of an existing structurally
// equivalent segment, one per module (spec.md §4.4).
type Index struct {
	segments []*Segment
}

// Installed returns the segments installed so far, in installation order.
func (idx *Index) Installed() []*Segment {
	return idx.segments
}

// Lookup returns the id of an existing segment equivalent to candidate, if
// any.
func (idx *Index) Lookup(candidate *Segment) (uint32, bool) {
	for _, existing := range idx.segments {
		if len(existing.Markings) != len(candidate.Markings) {
			continue
		}
		if Equivalent(existing, candidate) {
			return existing.ID, true
		}
	}
	return 0, false
}

// Install assigns candidate the next id and installs it unconditionally.
// Callers must call Lookup first if dedup is desired.
func (idx *Index) Install(candidate *Segment) uint32 {
	candidate.ID = uint32(len(idx.segments))
	idx.segments = append(idx.segments, candidate)
	return candidate.ID
}

// Get returns the installed segment with the given id.
func (idx *Index) Get(id uint32) *Segment {
	return idx.segments[id]
}
