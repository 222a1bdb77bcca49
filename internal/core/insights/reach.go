package insights

import (
	"sort"

	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/model"
)

// NetworkReachAnalysis sizes the network in rings: every known contact on at
// least one edge is direct reach, and the next two rings are expanded along
// walkable arcs. Each contact is counted in at most one ring.
func NetworkReachAnalysis(contacts []model.Contact, connections []model.ContactConnection) model.NetworkReach {
	known := graph.ContactIndex(contacts)
	direct := make(map[string]struct{})
	for id := range graph.Endpoints(connections) {
		if _, ok := known[id]; ok {
			direct[id] = struct{}{}
		}
	}
	return expandReach(known, graph.Build(connections), direct)
}

// NetworkReachFrom sizes the rings around a single contact: its neighbors,
// their neighbors and one hop further. The origin itself is not counted.
func NetworkReachFrom(contacts []model.Contact, connections []model.ContactConnection, origin string) model.NetworkReach {
	known := graph.ContactIndex(contacts)
	g := graph.Build(connections)

	direct := make(map[string]struct{})
	for id := range g.Neighbors(origin) {
		if _, ok := known[id]; ok && id != origin {
			direct[id] = struct{}{}
		}
	}
	return expandReach(known, g, direct, origin)
}

func expandReach(known map[string]model.Contact, g *graph.Graph, direct map[string]struct{}, exclude ...string) model.NetworkReach {
	visited := make(map[string]struct{}, len(direct)+len(exclude))
	for _, id := range exclude {
		visited[id] = struct{}{}
	}
	for id := range direct {
		visited[id] = struct{}{}
	}

	next := func(ring map[string]struct{}) map[string]struct{} {
		out := make(map[string]struct{})
		for id := range ring {
			for n := range g.Neighbors(id) {
				if _, ok := known[n]; !ok {
					continue
				}
				if _, ok := visited[n]; ok {
					continue
				}
				out[n] = struct{}{}
			}
		}
		for id := range out {
			visited[id] = struct{}{}
		}
		return out
	}

	second := next(direct)
	third := next(second)

	return model.NetworkReach{
		DirectReach:  len(direct),
		SecondDegree: len(second),
		ThirdDegree:  len(third),
	}
}

// GeographicConnectionDensity measures how tightly contacts in each country
// are connected to each other. Countries with fewer than two contacts are
// left out; the rest are ordered by contact count.
func GeographicConnectionDensity(contacts []model.Contact, connections []model.ContactConnection) []model.CountryDensity {
	people := uniqueContacts(contacts)
	countryOf := make(map[string]string, len(people))
	counts := make(map[string]int)
	var order []string
	for _, c := range people {
		if c.Country == "" {
			continue
		}
		countryOf[c.ID] = c.Country
		if counts[c.Country] == 0 {
			order = append(order, c.Country)
		}
		counts[c.Country]++
	}

	internal := make(map[string]int)
	for _, e := range connections {
		if e.SourceContactID == e.TargetContactID {
			continue
		}
		src, okS := countryOf[e.SourceContactID]
		dst, okT := countryOf[e.TargetContactID]
		if okS && okT && src == dst {
			internal[src]++
		}
	}

	out := []model.CountryDensity{}
	for _, country := range order {
		n := counts[country]
		if n < 2 {
			continue
		}
		pairs := float64(n) * float64(n-1) / 2
		out = append(out, model.CountryDensity{
			Country:       country,
			ContactCount:  n,
			InternalEdges: internal[country],
			Density:       min(float64(internal[country])/pairs, 1),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ContactCount > out[j].ContactCount
	})
	return out
}
