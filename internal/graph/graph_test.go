package graph

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_PlacesEveryNodeInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		layout := Render(rng)
		require.Len(t, layout.Nodes, len(Nodes()))
		for _, n := range layout.Nodes {
			assert.GreaterOrEqual(t, n.X, Margin)
			assert.LessOrEqual(t, n.X, 100-Margin)
			assert.GreaterOrEqual(t, n.Y, Margin)
			assert.LessOrEqual(t, n.Y, 100-Margin)
		}
	}
}

func TestRender_KeepsNodeIdentity(t *testing.T) {
	layout := Render(nil)
	fixed := Nodes()
	for i, n := range layout.Nodes {
		assert.Equal(t, fixed[i], n.Node)
	}
}

func TestRender_PositionsChangeLinesDoNot(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	first := Render(rng)
	second := Render(rng)

	assert.NotEqual(t, first.Nodes, second.Nodes)
	assert.Equal(t, first.Lines, second.Lines)
}

func TestRender_Deterministic(t *testing.T) {
	a := Render(rand.New(rand.NewPCG(42, 0)))
	b := Render(rand.New(rand.NewPCG(42, 0)))
	assert.Equal(t, a, b)
}

func TestNodes_IsCopy(t *testing.T) {
	n := Nodes()
	n[0].Label = "changed"
	assert.NotEqual(t, "changed", Nodes()[0].Label)
}

func TestRender_LinesAreCopy(t *testing.T) {
	layout := Render(nil)
	layout.Lines[0].X1 = -1
	assert.NotEqual(t, -1.0, Render(nil).Lines[0].X1)
}
