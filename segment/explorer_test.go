package segment_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"syncreach/firing"
	"syncreach/marking"
	"syncreach/petrinet"
	"syncreach/segment"
)

// module: p1 -t(intern)-> p2, t has id >= internStart (no externs).
func singletonModule() (*petrinet.Module, petrinet.TransitionID) {
	internStart := petrinet.TransitionID(0)
	module := &petrinet.Module{
		ID: 0,
		Places: []petrinet.Place{
			{ID: 0, Name: "p1", OutputTransitions: []petrinet.Arc{{Transition: 0, Weight: 1}}},
			{ID: 1, Name: "p2", InputTransitions: []petrinet.Arc{{Transition: 0, Weight: 1}}},
		},
		Transitions: []petrinet.Transition{
			{ID: 0, Name: "t", InputPlaces: []petrinet.PlaceArc{{Place: 0, Weight: 1}}, OutputPlaces: []petrinet.PlaceArc{{Place: 1, Weight: 1}}},
		},
	}
	return module, internStart
}

func TestExploreSingletonModuleNoExterns(t *testing.T) {
	module, internStart := singletonModule()
	m := marking.New(marking.PlaceCount{Place: 0, Count: 1})
	f := firing.Initial(module, m)

	res := segment.Explore(module, []segment.Seed{{Marking: m, Firable: f}}, 0, internStart, 0, zerolog.Nop())

	require.Len(t, res.Segment.Markings, 2)
	require.Empty(t, res.ExternRecords)
	require.Equal(t, segment.MarkingID(2), res.NextMarkingID)

	seed := res.Segment.Markings[0]
	require.Len(t, seed.Edges, 1)
	require.Equal(t, petrinet.TransitionID(0), seed.Edges[0].Transition)
	require.Equal(t, segment.MarkingID(1), seed.Edges[0].Target)
}

func TestExploreSelfDisablingTransition(t *testing.T) {
	internStart := petrinet.TransitionID(0)
	module := &petrinet.Module{
		ID: 0,
		Places: []petrinet.Place{
			{ID: 0, Name: "p1", OutputTransitions: []petrinet.Arc{{Transition: 0, Weight: 2}}},
			{ID: 1, Name: "p2", InputTransitions: []petrinet.Arc{{Transition: 0, Weight: 1}}},
		},
		Transitions: []petrinet.Transition{
			{ID: 0, Name: "t", InputPlaces: []petrinet.PlaceArc{{Place: 0, Weight: 2}}, OutputPlaces: []petrinet.PlaceArc{{Place: 1, Weight: 1}}},
		},
	}
	m := marking.New(marking.PlaceCount{Place: 0, Count: 2})
	f := firing.Initial(module, m)

	res := segment.Explore(module, []segment.Seed{{Marking: m, Firable: f}}, 0, internStart, 0, zerolog.Nop())

	require.Len(t, res.Segment.Markings, 2)
	last := res.Segment.Markings[1]
	require.Equal(t, marking.Count(1), last.Marking.Count(1))
	require.Empty(t, last.Edges)
}

func TestExploreRecordsExternAtDiscoveredMarking(t *testing.T) {
	internStart := petrinet.TransitionID(1) // transition 0 is extern
	module := &petrinet.Module{
		ID: 0,
		Places: []petrinet.Place{
			{ID: 0, Name: "p1", OutputTransitions: []petrinet.Arc{{Transition: 1, Weight: 1}}},
			{ID: 1, Name: "p2", InputTransitions: []petrinet.Arc{{Transition: 1, Weight: 1}}, OutputTransitions: []petrinet.Arc{{Transition: 0, Weight: 1}}},
		},
		Transitions: []petrinet.Transition{
			{ID: 0, Name: "sync", InputPlaces: []petrinet.PlaceArc{{Place: 1, Weight: 1}}}, // extern, only input side in this module
			{ID: 1, Name: "t", InputPlaces: []petrinet.PlaceArc{{Place: 0, Weight: 1}}, OutputPlaces: []petrinet.PlaceArc{{Place: 1, Weight: 1}}},
		},
	}
	m := marking.New(marking.PlaceCount{Place: 0, Count: 1})
	f := firing.Initial(module, m)
	require.False(t, f.Contains(0))
	require.True(t, f.Contains(1))

	res := segment.Explore(module, []segment.Seed{{Marking: m, Firable: f}}, 0, internStart, 0, zerolog.Nop())

	require.Len(t, res.Segment.Markings, 2)
	require.Len(t, res.ExternRecords, 1)
	require.Equal(t, petrinet.TransitionID(0), res.ExternRecords[0].Transition)
	require.Equal(t, segment.MarkingID(1), res.ExternRecords[0].Marking)
}

func TestSegmentIndexFoldsEquivalentSegments(t *testing.T) {
	var idx segment.Index
	a := &segment.Segment{Markings: []segment.GraphMarking{
		{ID: 0, Marking: marking.New(marking.PlaceCount{Place: 0, Count: 1})},
		{ID: 1, Marking: marking.New(marking.PlaceCount{Place: 1, Count: 1})},
	}}
	idx.Install(a)

	b := &segment.Segment{Markings: []segment.GraphMarking{
		{ID: 10, Marking: marking.New(marking.PlaceCount{Place: 1, Count: 1})},
		{ID: 11, Marking: marking.New(marking.PlaceCount{Place: 0, Count: 1})},
	}}
	id, found := idx.Lookup(b)
	require.True(t, found)
	require.Equal(t, uint32(0), id)

	c := &segment.Segment{Markings: []segment.GraphMarking{
		{ID: 20, Marking: marking.New(marking.PlaceCount{Place: 2, Count: 1})},
	}}
	_, found = idx.Lookup(c)
	require.False(t, found)
}
