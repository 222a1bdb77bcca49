// Package metrics computes aggregate statistics over a contact network.
package metrics

import (
	"sort"

	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/model"
)

// ComputeNetworkMetrics summarizes the size, density and shape of a network.
// Every ratio is 0 when its denominator would be 0.
func ComputeNetworkMetrics(contacts []model.Contact, connections []model.ContactConnection) model.NetworkMetrics {
	m := model.NetworkMetrics{TotalConnections: len(connections)}

	n := len(contacts)
	if n > 1 {
		pairs := float64(n) * float64(n-1) / 2
		m.NetworkDensity = min(float64(len(connections))/pairs, 1)
	}

	if len(connections) > 0 {
		strengthSum, bidirectional := 0, 0
		for _, c := range connections {
			strengthSum += graph.Strength(c)
			if c.Bidirectional {
				bidirectional++
			}
		}
		m.AverageStrength = float64(strengthSum) / float64(len(connections))
		m.BidirectionalRatio = float64(bidirectional) / float64(len(connections))
	}

	if n > 0 {
		endpoints := graph.Endpoints(connections)
		connected := 0
		for _, c := range contacts {
			if _, ok := endpoints[c.ID]; ok {
				connected++
			}
		}
		m.ConnectedContactsRatio = float64(connected) / float64(n)
	}

	return m
}

// ConnectionTypeBreakdown counts connections per type with their average
// strength, most common first. Ties keep the order types first appear in.
func ConnectionTypeBreakdown(connections []model.ContactConnection) []model.TypeBreakdown {
	counts := make(map[model.ConnectionType]int)
	sums := make(map[model.ConnectionType]int)
	var order []model.ConnectionType

	for _, c := range connections {
		if _, seen := counts[c.ConnectionType]; !seen {
			order = append(order, c.ConnectionType)
		}
		counts[c.ConnectionType]++
		sums[c.ConnectionType] += graph.Strength(c)
	}

	out := make([]model.TypeBreakdown, 0, len(order))
	for _, t := range order {
		out = append(out, model.TypeBreakdown{
			Type:        t,
			Count:       counts[t],
			AvgStrength: float64(sums[t]) / float64(counts[t]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// StrengthDistribution counts connections at each normalized strength 1-5.
func StrengthDistribution(connections []model.ContactConnection) model.StrengthDistribution {
	var dist model.StrengthDistribution
	for _, c := range connections {
		dist[graph.Strength(c)]++
	}
	return dist
}
