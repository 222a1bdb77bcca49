// Package insights derives per-contact and per-pair findings from a contact
// network: hubs, bridges, introduction candidates, fragile links, risks,
// reach and geography, rolled up into a single summary.
//
// Every function is pure. Connections that reference unknown contacts are
// skipped rather than reported as errors.
package insights

import (
	"sort"

	"github.com/agenthands/kinship/internal/core/community"
	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/model"
)

const (
	DefaultHubLimit          = 5
	DefaultIntroductionLimit = 10
)

// FindHubs ranks contacts by how many connections touch them. Ties keep
// contact order. A limit <= 0 means DefaultHubLimit.
func FindHubs(contacts []model.Contact, connections []model.ContactConnection, limit int) []model.Hub {
	if limit <= 0 {
		limit = DefaultHubLimit
	}

	g := graph.Build(connections)
	strengthSum := make(map[string]int)
	types := make(map[string][]model.ConnectionType)
	for _, c := range connections {
		s := graph.Strength(c)
		strengthSum[c.SourceContactID] += s
		strengthSum[c.TargetContactID] += s
		types[c.SourceContactID] = appendType(types[c.SourceContactID], c.ConnectionType)
		if c.TargetContactID != c.SourceContactID {
			types[c.TargetContactID] = appendType(types[c.TargetContactID], c.ConnectionType)
		}
	}

	hubs := []model.Hub{}
	for _, c := range uniqueContacts(contacts) {
		degree := g.Degree[c.ID]
		if degree == 0 {
			continue
		}
		hubs = append(hubs, model.Hub{
			Contact:         c,
			Degree:          degree,
			AvgStrength:     float64(strengthSum[c.ID]) / float64(degree),
			ConnectionTypes: types[c.ID],
		})
	}

	sort.SliceStable(hubs, func(i, j int) bool {
		return hubs[i].Degree > hubs[j].Degree
	})
	if len(hubs) > limit {
		hubs = hubs[:limit]
	}
	return hubs
}

func appendType(list []model.ConnectionType, t model.ConnectionType) []model.ConnectionType {
	for _, existing := range list {
		if existing == t {
			return list
		}
	}
	return append(list, t)
}

// FindBridgeContacts reports contacts whose connections span more than one
// cluster, using the union-find clusters of the same network.
func FindBridgeContacts(contacts []model.Contact, connections []model.ContactConnection) []model.BridgeContact {
	return FindBridgeContactsIn(contacts, connections, community.DetectClusters(contacts, connections))
}

// FindBridgeContactsIn is FindBridgeContacts against an explicit clustering,
// for callers that group contacts some other way. Bridges are ordered by
// clusters touched, then degree.
func FindBridgeContactsIn(contacts []model.Contact, connections []model.ContactConnection, clusters []model.Cluster) []model.BridgeContact {
	bridges := []model.BridgeContact{}
	if len(clusters) < 2 {
		return bridges
	}

	clusterOf := make(map[string]string)
	for _, cl := range clusters {
		for _, m := range cl.Members {
			clusterOf[m.ID] = cl.ID
		}
	}

	candidates := make(map[string]struct{})
	touched := make(map[string]map[string]struct{})
	mark := func(id, cluster string) {
		set, ok := touched[id]
		if !ok {
			set = make(map[string]struct{})
			touched[id] = set
		}
		set[cluster] = struct{}{}
	}

	for _, e := range connections {
		src, okS := clusterOf[e.SourceContactID]
		dst, okT := clusterOf[e.TargetContactID]
		if !okS || !okT {
			continue
		}
		mark(e.SourceContactID, src)
		mark(e.SourceContactID, dst)
		mark(e.TargetContactID, dst)
		mark(e.TargetContactID, src)
		if src != dst {
			candidates[e.SourceContactID] = struct{}{}
			candidates[e.TargetContactID] = struct{}{}
		}
	}

	g := graph.Build(connections)
	for _, c := range uniqueContacts(contacts) {
		if _, ok := candidates[c.ID]; !ok {
			continue
		}
		bridges = append(bridges, model.BridgeContact{
			Contact:         c,
			ClustersTouched: len(touched[c.ID]),
			Degree:          g.Degree[c.ID],
		})
	}

	sort.SliceStable(bridges, func(i, j int) bool {
		if bridges[i].ClustersTouched != bridges[j].ClustersTouched {
			return bridges[i].ClustersTouched > bridges[j].ClustersTouched
		}
		return bridges[i].Degree > bridges[j].Degree
	})
	return bridges
}

// uniqueContacts drops repeated ids, keeping the first record.
func uniqueContacts(contacts []model.Contact) []model.Contact {
	seen := make(map[string]struct{}, len(contacts))
	out := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
