package firing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"syncreach/firing"
	"syncreach/marking"
	"syncreach/petrinet"
)

// module: p1 --t(weight 2)--> p2 (consumes 2 from p1, 1 into p2)
func selfDisablingModule() *petrinet.Module {
	return &petrinet.Module{
		ID:   0,
		Name: "m",
		Places: []petrinet.Place{
			{ID: 0, Name: "p1", OutputTransitions: []petrinet.Arc{{Transition: 0, Weight: 2}}},
			{ID: 1, Name: "p2", InputTransitions: []petrinet.Arc{{Transition: 0, Weight: 1}}},
		},
		Transitions: []petrinet.Transition{
			{
				ID:           0,
				Name:         "t",
				InputPlaces:  []petrinet.PlaceArc{{Place: 0, Weight: 2}},
				OutputPlaces: []petrinet.PlaceArc{{Place: 1, Weight: 1}},
			},
		},
	}
}

func TestFireDisablesSelfWhenInputExhausted(t *testing.T) {
	module := selfDisablingModule()
	m := marking.New(marking.PlaceCount{Place: 0, Count: 2})
	f := firing.Initial(module, m)
	require.True(t, f.Contains(0))

	next, nextFirable := firing.Fire(module, m, f, 0)

	require.Equal(t, marking.Count(0), next.Count(0))
	require.Equal(t, marking.Count(1), next.Count(1))
	require.False(t, nextFirable.Contains(0))
}

func TestFireEnablesDownstreamTransition(t *testing.T) {
	module := &petrinet.Module{
		ID: 0,
		Places: []petrinet.Place{
			{ID: 0, Name: "p1", OutputTransitions: []petrinet.Arc{{Transition: 0, Weight: 1}}},
			{ID: 1, Name: "p2", InputTransitions: []petrinet.Arc{{Transition: 0, Weight: 1}}, OutputTransitions: []petrinet.Arc{{Transition: 1, Weight: 1}}},
			{ID: 2, Name: "p3", InputTransitions: []petrinet.Arc{{Transition: 1, Weight: 1}}},
		},
		Transitions: []petrinet.Transition{
			{ID: 0, Name: "t1", InputPlaces: []petrinet.PlaceArc{{Place: 0, Weight: 1}}, OutputPlaces: []petrinet.PlaceArc{{Place: 1, Weight: 1}}},
			{ID: 1, Name: "t2", InputPlaces: []petrinet.PlaceArc{{Place: 1, Weight: 1}}, OutputPlaces: []petrinet.PlaceArc{{Place: 2, Weight: 1}}},
		},
	}
	m := marking.New(marking.PlaceCount{Place: 0, Count: 1})
	f := firing.Initial(module, m)
	require.True(t, f.Contains(0))
	require.False(t, f.Contains(1))

	next, nextFirable := firing.Fire(module, m, f, 0)
	require.Equal(t, marking.Count(1), next.Count(1))
	require.True(t, nextFirable.Contains(1))
	require.False(t, nextFirable.Contains(0))
}

func TestFireOriginalMarkingUnmodified(t *testing.T) {
	module := selfDisablingModule()
	m := marking.New(marking.PlaceCount{Place: 0, Count: 2})
	f := firing.Initial(module, m)
	firing.Fire(module, m, f, 0)
	require.Equal(t, marking.Count(2), m.Count(0))
}

func TestPlaceholderNeverFirable(t *testing.T) {
	module := &petrinet.Module{
		ID:          0,
		Transitions: []petrinet.Transition{{ID: 0, Name: ""}},
	}
	f := firing.Initial(module, marking.Marking{})
	require.False(t, f.Contains(0))
}
