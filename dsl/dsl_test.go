package dsl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"syncreach/dsl"
	"syncreach/marking"
)

const twoModuleSource = `# a tiny modular net
{
  sync: a1, b1 -> a2, b2
}
a {
  a1(1), a2
}
b {
  b1(1), b2
}
`

func TestParseAndTransformTwoModuleExtern(t *testing.T) {
	p := dsl.NewParser()
	raw, err := p.Parse([]byte(twoModuleSource))
	require.NoError(t, err)

	net, err := dsl.Transform(raw)
	require.NoError(t, err)

	require.Len(t, net.Modules, 2)
	require.EqualValues(t, 1, net.InternStart)
	require.Equal(t, []string{"sync"}, net.ExternNames)
	require.Equal(t, [][]uint16{{0, 1}}, net.ExternOverview)

	require.Equal(t, marking.Count(1), net.InitialMarkings[0].Count(0))
	require.Equal(t, marking.Count(1), net.InitialMarkings[1].Count(0))

	syncA := net.Modules[0].Transition(0)
	require.False(t, syncA.IsPlaceholder())
	require.Equal(t, "sync", syncA.Name)
}

func TestParseSingleModuleTransitionIsInternal(t *testing.T) {
	source := `{
  t: p1 -> p2
}
m {
  p1(3), p2
}
`
	raw, err := dsl.NewParser().Parse([]byte(source))
	require.NoError(t, err)

	net, err := dsl.Transform(raw)
	require.NoError(t, err)

	require.EqualValues(t, 0, net.InternStart, "a transition referenced by only one module is internal, not extern")
	require.Len(t, net.Modules[0].Transitions, 1)
	require.Equal(t, "t", net.Modules[0].Transitions[0].Name)
}

func TestTransformUnknownPlaceIsFatal(t *testing.T) {
	source := `{
  t: ghost -> p2
}
m {
  p2
}
`
	raw, err := dsl.NewParser().Parse([]byte(source))
	require.NoError(t, err)

	_, err = dsl.Transform(raw)
	require.Error(t, err)
	var unknown *dsl.ErrUnknownPlace
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "ghost", unknown.Place)
}

func TestParseSingleLineModule(t *testing.T) {
	source := `{
  t: p1 -> p2
}
m { p1(4), p2 }
`
	raw, err := dsl.NewParser().Parse([]byte(source))
	require.NoError(t, err)
	net, err := dsl.Transform(raw)
	require.NoError(t, err)
	require.Equal(t, marking.Count(4), net.InitialMarkings[0].Count(0))
}

func TestParseRejectsMissingArrow(t *testing.T) {
	source := `{
  t: p1 p2
}
m {
  p1, p2
}
`
	_, err := dsl.NewParser().Parse([]byte(source))
	require.Error(t, err)
	var syn *dsl.ErrSyntax
	require.True(t, errors.As(err, &syn))
}

func TestParseCommentsAndWeightsAreHonored(t *testing.T) {
	source := `# leading comment
{
  # transition comment
  t: p1(2) -> p2(3)
}
m {
  p1(5)
  p2
}
`
	raw, err := dsl.NewParser().Parse([]byte(source))
	require.NoError(t, err)
	net, err := dsl.Transform(raw)
	require.NoError(t, err)

	require.Equal(t, marking.Count(5), net.InitialMarkings[0].Count(0))
	trans := net.Modules[0].Transitions[0]
	require.Equal(t, uint32(2), trans.InputPlaces[0].Weight)
	require.Equal(t, uint32(3), trans.OutputPlaces[0].Weight)
}
