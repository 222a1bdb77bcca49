// Package graph turns a flat connection list into the adjacency and degree
// structures the analyzers walk.
package graph

import (
	"github.com/agenthands/kinship/internal/core/model"
)

// NeutralStrength is assumed for connections with no usable strength.
const NeutralStrength = 3

// Graph is the derived view of one connection list. Adjacency follows edge
// direction (bidirectional edges are walkable both ways); Degree counts every
// edge touching a contact regardless of direction.
type Graph struct {
	Adjacency map[string]map[string]struct{}
	Degree    map[string]int
}

// Build constructs the adjacency and degree maps. Empty input yields empty maps.
func Build(connections []model.ContactConnection) *Graph {
	g := &Graph{
		Adjacency: make(map[string]map[string]struct{}),
		Degree:    make(map[string]int),
	}

	for _, c := range connections {
		g.addArc(c.SourceContactID, c.TargetContactID)
		if c.Bidirectional {
			g.addArc(c.TargetContactID, c.SourceContactID)
		}
		g.Degree[c.SourceContactID]++
		g.Degree[c.TargetContactID]++
	}

	return g
}

func (g *Graph) addArc(from, to string) {
	set, ok := g.Adjacency[from]
	if !ok {
		set = make(map[string]struct{})
		g.Adjacency[from] = set
	}
	set[to] = struct{}{}
}

// Neighbors returns the set of contacts reachable from id in one hop.
func (g *Graph) Neighbors(id string) map[string]struct{} {
	return g.Adjacency[id]
}

// Strength normalizes a connection's strength, treating nil or values
// outside 1-5 as neutral.
func Strength(c model.ContactConnection) int {
	if c.Strength == nil || *c.Strength < 1 || *c.Strength > 5 {
		return NeutralStrength
	}
	return *c.Strength
}

// Endpoints returns every contact id that appears on at least one edge.
func Endpoints(connections []model.ContactConnection) map[string]struct{} {
	ids := make(map[string]struct{}, len(connections)*2)
	for _, c := range connections {
		ids[c.SourceContactID] = struct{}{}
		ids[c.TargetContactID] = struct{}{}
	}
	return ids
}

// PairKey is an order-independent key for a pair of contacts.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// EdgePairs indexes every connected pair in either direction.
func EdgePairs(connections []model.ContactConnection) map[string]struct{} {
	pairs := make(map[string]struct{}, len(connections))
	for _, c := range connections {
		pairs[PairKey(c.SourceContactID, c.TargetContactID)] = struct{}{}
	}
	return pairs
}

// ContactIndex maps contact ids to their records; on duplicate ids the last one wins.
func ContactIndex(contacts []model.Contact) map[string]model.Contact {
	idx := make(map[string]model.Contact, len(contacts))
	for _, c := range contacts {
		idx[c.ID] = c
	}
	return idx
}
