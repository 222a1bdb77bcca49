package graph

import (
	"testing"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestBuild_Empty(t *testing.T) {
	g := Build(nil)
	assert.Empty(t, g.Adjacency)
	assert.Empty(t, g.Degree)
}

func TestBuild_DirectionAndDegree(t *testing.T) {
	edges := []model.ContactConnection{
		{SourceContactID: "a", TargetContactID: "b", Bidirectional: true},
		{SourceContactID: "b", TargetContactID: "c"},
	}

	g := Build(edges)

	assert.Contains(t, g.Neighbors("a"), "b")
	assert.Contains(t, g.Neighbors("b"), "a")
	assert.Contains(t, g.Neighbors("b"), "c")
	// b->c is one-directional, so c has no outgoing arcs
	assert.Empty(t, g.Neighbors("c"))

	assert.Equal(t, 1, g.Degree["a"])
	assert.Equal(t, 2, g.Degree["b"])
	assert.Equal(t, 1, g.Degree["c"])
}

func TestBuild_DuplicateEdgesCountTwice(t *testing.T) {
	edges := []model.ContactConnection{
		{SourceContactID: "a", TargetContactID: "b"},
		{SourceContactID: "b", TargetContactID: "a"},
	}

	g := Build(edges)
	assert.Equal(t, 2, g.Degree["a"])
	assert.Equal(t, 2, g.Degree["b"])
	assert.Len(t, g.Neighbors("a"), 1)
}

func TestStrength(t *testing.T) {
	tests := []struct {
		name string
		in   *int
		want int
	}{
		{"nil", nil, NeutralStrength},
		{"zero", model.IntPtr(0), NeutralStrength},
		{"too high", model.IntPtr(9), NeutralStrength},
		{"low", model.IntPtr(1), 1},
		{"high", model.IntPtr(5), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strength(model.ContactConnection{Strength: tt.in}))
		})
	}
}

func TestEdgePairs_EitherDirection(t *testing.T) {
	pairs := EdgePairs([]model.ContactConnection{{SourceContactID: "x", TargetContactID: "y"}})
	_, ok := pairs[PairKey("y", "x")]
	assert.True(t, ok)
	_, ok = pairs[PairKey("x", "z")]
	assert.False(t, ok)
}
