package syncgraph_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"syncreach/marking"
	"syncreach/petrinet"
	"syncreach/syncgraph"
)

// Render's output covers both halves of spec.md §6: the sync-node dump and
// the per-module segment listings (markings, internal edges, extern
// ledger).
func TestRenderIncludesSyncNodesAndSegmentListings(t *testing.T) {
	net := &petrinet.Net{
		Modules: []petrinet.Module{{
			ID:   0,
			Name: "m",
			Places: []petrinet.Place{
				{ID: 0, Name: "p1", OutputTransitions: []petrinet.Arc{{Transition: 0, Weight: 1}}},
				{ID: 1, Name: "p2", InputTransitions: []petrinet.Arc{{Transition: 0, Weight: 1}}},
			},
			Transitions: []petrinet.Transition{
				{ID: 0, Name: "t", InputPlaces: []petrinet.PlaceArc{{Place: 0, Weight: 1}}, OutputPlaces: []petrinet.PlaceArc{{Place: 1, Weight: 1}}},
			},
		}},
		InitialMarkings: []marking.Marking{marking.New(marking.PlaceCount{Place: 0, Count: 1})},
		InternStart:     0,
		ExternOverview:  [][]uint16{},
		ExternNames:     []string{},
	}

	g := newBuilder().Build(net)

	var buf bytes.Buffer
	require.NoError(t, syncgraph.Render(&buf, net, g))

	out := buf.String()
	require.Contains(t, out, "sync 0: segments=[0]")
	require.Contains(t, out, "module 0 (m):")
	require.Contains(t, out, "segment 0:")
	require.Contains(t, out, "p1(1)")
	require.Contains(t, out, "-- t --> 1")
}
