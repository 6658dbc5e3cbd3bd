package syncgraph

import (
	"sort"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"syncreach/firing"
	"syncreach/petrinet"
	"syncreach/segment"
)

// Builder runs the sync-graph construction algorithm of spec.md §4.5. It
// holds only cross-cutting, non-algorithmic concerns (logging, metrics) —
// all graph state lives in the returned Graph.
type Builder struct {
	Log     zerolog.Logger
	Metrics *Metrics
}

// NewBuilder constructs a Builder with a per-run correlation id attached to
// its logger (see SPEC_FULL.md DOMAIN STACK) and, if m is nil, a no-op
// Metrics sink.
func NewBuilder(log zerolog.Logger, m *Metrics) *Builder {
	runID := uuid.New().String()
	if m == nil {
		m = NewMetrics(prometheus.NewRegistry())
	}
	return &Builder{Log: log.With().Str("run_id", runID).Logger(), Metrics: m}
}

type commonGroup struct {
	Transition petrinet.TransitionID
	Modules    []uint16
}

// Build constructs the full synchronous reachability graph for net, per
// spec.md §4.5. The work stack is LIFO; correctness does not depend on
// order (spec.md §5).
func (b *Builder) Build(net *petrinet.Net) *Graph {
	moduleCount := len(net.Modules)
	g := &Graph{Modules: make([]ModuleState, moduleCount)}

	// Step 1-2: initial firable sets and initial segments, one per module.
	for m := 0; m < moduleCount; m++ {
		module := &net.Modules[m]
		initialFirable := firing.Initial(module, net.InitialMarkings[m])
		seed := segment.Seed{Marking: net.InitialMarkings[m], Firable: initialFirable}
		res := segment.Explore(module, []segment.Seed{seed}, 0, net.InternStart, g.Modules[m].NextMarkingID, b.Log)
		seg := res.Segment
		seg.ExternRecords = res.ExternRecords
		g.Modules[m].Segments.Install(&seg)
		g.Modules[m].NextMarkingID = res.NextMarkingID
		b.Metrics.MarkingsInstalled.Add(float64(len(res.Segment.Markings)))
		b.Metrics.SegmentsInstalled.Inc()
	}

	// Step 3: sync node 0, all-zero segment ids.
	g.SyncNodes = append(g.SyncNodes, SyncMarking{SegmentIDs: make([]uint32, moduleCount)})
	b.Metrics.SyncNodesInstalled.Inc()

	stack := []uint32{0}
	for len(stack) > 0 {
		syncID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		current := g.SyncNodes[syncID]
		groups := b.commonlyEnabled(net, g, current)

		var edges []SyncEdge
		for _, group := range groups {
			newSegIDs := make([]uint32, moduleCount)
			copy(newSegIDs, current.SegmentIDs)
			participating := make(map[uint16]struct{}, len(group.Modules))
			for _, m := range group.Modules {
				participating[m] = struct{}{}
			}

			for _, m := range group.Modules {
				finalSegID := b.fireAndExplore(net, g, int(m), current.SegmentIDs[m], group.Transition)
				newSegIDs[m] = finalSegID
			}

			candidate := SyncMarking{SegmentIDs: newSegIDs}
			if existingID, found := g.ContainsSyncNode(candidate); found {
				edges = append(edges, SyncEdge{Transition: group.Transition, Target: existingID})
				if existingID == syncID {
					// Self-loop at the sync level (spec.md §4.5 step g):
					// the just-built candidate segments are discarded;
					// the ledger entries added while building them are
					// rewritten to record no new seeds.
					for _, m := range group.Modules {
						g.Modules[m].Segments.Get(current.SegmentIDs[m]).ReplaceLastLedgerEntry(group.Transition)
					}
				}
			} else {
				newID := uint32(len(g.SyncNodes))
				g.SyncNodes = append(g.SyncNodes, candidate)
				b.Metrics.SyncNodesInstalled.Inc()
				edges = append(edges, SyncEdge{Transition: group.Transition, Target: newID})
				stack = append(stack, newID)
			}
		}

		g.SyncNodes[syncID].Edges = edges
		b.Log.Debug().Uint32("sync_id", syncID).Int("edges", len(edges)).Msg("sync node expanded")
	}

	return g
}

// fireAndExplore fires transition t from every marking in module m's
// current segment (sourceSegID) whose firable set contains t, explores the
// successor segment, folds it against the module's segment index, appends
// the source segment's extern-edge ledger entry, and returns the final
// (possibly reused) segment id — spec.md §4.5 step 2.
func (b *Builder) fireAndExplore(net *petrinet.Net, g *Graph, m int, sourceSegID uint32, t petrinet.TransitionID) uint32 {
	module := &net.Modules[m]
	state := &g.Modules[m]
	sourceSeg := state.Segments.Get(sourceSegID)

	var seeds []segment.Seed
	var preFireIDs []segment.MarkingID
	for _, rec := range sourceSeg.ExternRecords {
		if rec.Transition != t {
			continue
		}
		gm := sourceSeg.MarkingByID(rec.Marking)
		newMarking, newFirable := firing.Fire(module, gm.Marking, rec.Firable, t)
		seeds = append(seeds, segment.Seed{Marking: newMarking, Firable: newFirable})
		preFireIDs = append(preFireIDs, rec.Marking)
	}

	nextSegID := uint32(len(state.Segments.Installed()))
	res := segment.Explore(module, seeds, nextSegID, net.InternStart, state.NextMarkingID, b.Log)
	candidate := res.Segment
	candidate.ExternRecords = res.ExternRecords

	// Counters are monotonic regardless of dedup outcome (spec.md §9's
	// Open Question on the self-loop case, generalized here to every
	// fold: ids spent building a discarded candidate are never reused).
	state.NextMarkingID = res.NextMarkingID

	var finalSegID uint32
	if existingID, found := state.Segments.Lookup(&candidate); found {
		finalSegID = existingID
	} else {
		finalSegID = state.Segments.Install(&candidate)
		b.Metrics.SegmentsInstalled.Inc()
		b.Metrics.MarkingsInstalled.Add(float64(len(res.Segment.Markings)))
	}
	b.Metrics.ExternFired.Inc()

	finalSeg := state.Segments.Get(finalSegID)
	ledgerSeeds := make([]segment.ExternSeedEdge, 0, len(seeds))
	for i, seed := range seeds {
		seedID, ok := finalSeg.FindMarking(seed.Marking)
		if !ok {
			panic("syncgraph: seed marking missing from its own successor segment")
		}
		ledgerSeeds = append(ledgerSeeds, segment.ExternSeedEdge{SourceMarking: preFireIDs[i], SeedMarking: seedID})
	}
	sourceSeg.AppendLedgerEntry(t, ledgerSeeds)

	return finalSegID
}

// commonlyEnabled scans every module's current segment's extern records,
// groups by extern transition id, and keeps only those enabled in every
// module that references them (present == net.ExternOverview[t]), per
// spec.md §4.5 step 1. Results are sorted by transition id for
// deterministic, reproducible output (spec.md §5).
func (b *Builder) commonlyEnabled(net *petrinet.Net, g *Graph, sync SyncMarking) []commonGroup {
	present := make(map[petrinet.TransitionID]map[uint16]struct{})
	for m := range net.Modules {
		seg := g.Modules[m].Segments.Get(sync.SegmentIDs[m])
		for _, rec := range seg.ExternRecords {
			if present[rec.Transition] == nil {
				present[rec.Transition] = make(map[uint16]struct{})
			}
			present[rec.Transition][uint16(m)] = struct{}{}
		}
	}

	var out []commonGroup
	for t, mods := range present {
		required := net.ExternOverview[t]
		if len(mods) != len(required) {
			continue
		}
		ok := true
		for _, rm := range required {
			if _, found := mods[rm]; !found {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		sortedMods := make([]uint16, 0, len(mods))
		for mod := range mods {
			sortedMods = append(sortedMods, mod)
		}
		sort.Slice(sortedMods, func(i, j int) bool { return sortedMods[i] < sortedMods[j] })
		out = append(out, commonGroup{Transition: t, Modules: sortedMods})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Transition < out[j].Transition })
	return out
}
