package community

import (
	"fmt"
	"sort"

	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/model"
)

const (
	sharedTagShare     = 0.5
	commonCountryShare = 0.6
)

type Detector interface {
	Detect(contacts []model.Contact, connections []model.ContactConnection) []model.Cluster
}

// UnionFindDetector groups contacts into connected components, treating every
// connection as undirected.
type UnionFindDetector struct{}

func NewUnionFindDetector() Detector {
	return &UnionFindDetector{}
}

func (d *UnionFindDetector) Detect(contacts []model.Contact, connections []model.ContactConnection) []model.Cluster {
	return DetectClusters(contacts, connections)
}

// DetectClusters partitions contacts into components of two or more members,
// ordered by size descending. Contacts without edges are left out and are
// reported by FindIsolatedContacts instead.
func DetectClusters(contacts []model.Contact, connections []model.ContactConnection) []model.Cluster {
	if len(contacts) == 0 {
		return []model.Cluster{}
	}

	index := make(map[string]int, len(contacts))
	for i, c := range contacts {
		if _, dup := index[c.ID]; !dup {
			index[c.ID] = i
		}
	}

	uf := NewUnionFind(len(contacts))
	for _, e := range connections {
		a, okA := index[e.SourceContactID]
		b, okB := index[e.TargetContactID]
		if !okA || !okB {
			continue
		}
		uf.Union(a, b)
	}

	// Group by root in contact order so member lists are deterministic.
	groups := make(map[int][]int)
	var roots []int
	for i, c := range contacts {
		if index[c.ID] != i {
			continue
		}
		r := uf.Find(i)
		if _, seen := groups[r]; !seen {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], i)
	}

	clusters := make([]model.Cluster, 0, len(roots))
	for _, r := range roots {
		members := groups[r]
		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, describe(contacts, members, connections))
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].Members) > len(clusters[j].Members)
	})
	for i := range clusters {
		clusters[i].ID = fmt.Sprintf("cluster-%d", i+1)
	}

	return clusters
}

func describe(contacts []model.Contact, memberIdx []int, connections []model.ContactConnection) model.Cluster {
	inCluster := make(map[string]struct{}, len(memberIdx))
	members := make([]model.Contact, 0, len(memberIdx))
	for _, i := range memberIdx {
		members = append(members, contacts[i])
		inCluster[contacts[i].ID] = struct{}{}
	}

	internal, strengthSum := 0, 0
	typeCounts := make(map[model.ConnectionType]int)
	var typeOrder []model.ConnectionType
	for _, e := range connections {
		if _, ok := inCluster[e.SourceContactID]; !ok {
			continue
		}
		if _, ok := inCluster[e.TargetContactID]; !ok {
			continue
		}
		internal++
		strengthSum += graph.Strength(e)
		if _, seen := typeCounts[e.ConnectionType]; !seen {
			typeOrder = append(typeOrder, e.ConnectionType)
		}
		typeCounts[e.ConnectionType]++
	}

	cluster := model.Cluster{
		Members:       members,
		InternalEdges: internal,
		SharedTags:    sharedTags(members),
		CommonCountry: commonCountry(members),
	}
	if internal > 0 {
		cluster.AvgStrength = float64(strengthSum) / float64(internal)
	}

	// First type to reach the highest count wins ties.
	best := 0
	for _, t := range typeOrder {
		if typeCounts[t] > best {
			best = typeCounts[t]
			cluster.DominantType = t
		}
	}

	return cluster
}

func sharedTags(members []model.Contact) []string {
	counts := make(map[string]int)
	var order []string
	for _, m := range members {
		seen := make(map[string]struct{}, len(m.Tags))
		for _, tag := range m.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	threshold := float64(len(members)) * sharedTagShare
	shared := []string{}
	for _, tag := range order {
		if float64(counts[tag]) >= threshold {
			shared = append(shared, tag)
		}
	}
	return shared
}

func commonCountry(members []model.Contact) string {
	counts := make(map[string]int)
	var order []string
	for _, m := range members {
		if m.Country == "" {
			continue
		}
		if counts[m.Country] == 0 {
			order = append(order, m.Country)
		}
		counts[m.Country]++
	}

	threshold := float64(len(members)) * commonCountryShare
	for _, country := range order {
		if float64(counts[country]) >= threshold {
			return country
		}
	}
	return ""
}

// FindIsolatedContacts returns contacts that share no connection with another
// known contact, in input order. Self-loops and edges to unknown ids do not
// count, so the result is exactly the complement of the clustered members.
func FindIsolatedContacts(contacts []model.Contact, connections []model.ContactConnection) []model.Contact {
	known := graph.ContactIndex(contacts)
	linked := make(map[string]struct{}, len(contacts))
	for _, e := range connections {
		if e.SourceContactID == e.TargetContactID {
			continue
		}
		_, okA := known[e.SourceContactID]
		_, okB := known[e.TargetContactID]
		if !okA || !okB {
			continue
		}
		linked[e.SourceContactID] = struct{}{}
		linked[e.TargetContactID] = struct{}{}
	}

	isolated := []model.Contact{}
	for _, c := range contacts {
		if _, ok := linked[c.ID]; !ok {
			isolated = append(isolated, c)
		}
	}
	return isolated
}
