package community

import (
	"testing"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(contacts []model.Contact) []string {
	out := make([]string, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c.ID)
	}
	return out
}

func TestDetect(t *testing.T) {
	contacts := []model.Contact{
		{ID: "1", Name: "A"},
		{ID: "2", Name: "B"},
		{ID: "3", Name: "C"},
		{ID: "4", Name: "D"},
	}

	edges := []model.ContactConnection{
		{SourceContactID: "1", TargetContactID: "2"}, // A-B
		{SourceContactID: "2", TargetContactID: "3"}, // B-C
		// D is isolated
	}

	detector := NewUnionFindDetector()
	clusters := detector.Detect(contacts, edges)

	// Expect A-B-C as one cluster. D is size 1, so filtered out.
	require.Len(t, clusters, 1)
	assert.ElementsMatch(t, []string{"1", "2", "3"}, ids(clusters[0].Members))
	assert.Equal(t, "cluster-1", clusters[0].ID)
	assert.Equal(t, []string{"4"}, ids(FindIsolatedContacts(contacts, edges)))
}

func TestDetect_MultipleCommunities(t *testing.T) {
	contacts := []model.Contact{
		{ID: "1"}, {ID: "2"}, // C1
		{ID: "3"}, {ID: "4"}, {ID: "5"}, // C2
	}

	edges := []model.ContactConnection{
		{SourceContactID: "1", TargetContactID: "2"},
		{SourceContactID: "3", TargetContactID: "4"},
		{SourceContactID: "5", TargetContactID: "4"},
	}

	clusters := DetectClusters(contacts, edges)

	require.Len(t, clusters, 2)
	// Largest first
	assert.Equal(t, []string{"3", "4", "5"}, ids(clusters[0].Members))
	assert.Equal(t, []string{"1", "2"}, ids(clusters[1].Members))
}

func TestDetect_NoConnections(t *testing.T) {
	contacts := []model.Contact{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Empty(t, DetectClusters(contacts, nil))
	assert.Equal(t, []string{"a", "b", "c"}, ids(FindIsolatedContacts(contacts, nil)))
}

func TestDetect_IgnoresDirection(t *testing.T) {
	contacts := []model.Contact{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []model.ContactConnection{
		{SourceContactID: "a", TargetContactID: "b", Bidirectional: true, Strength: model.IntPtr(5)},
		{SourceContactID: "b", TargetContactID: "c", Strength: model.IntPtr(1)},
	}

	clusters := DetectClusters(contacts, edges)

	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"a", "b", "c"}, ids(clusters[0].Members))
	assert.Equal(t, 2, clusters[0].InternalEdges)
	assert.InDelta(t, 3.0, clusters[0].AvgStrength, 1e-9)
}

func TestDetect_SkipsDanglingEndpoints(t *testing.T) {
	contacts := []model.Contact{{ID: "a"}, {ID: "b"}}
	edges := []model.ContactConnection{
		{SourceContactID: "a", TargetContactID: "ghost"},
		{SourceContactID: "ghost", TargetContactID: "b"},
	}

	assert.Empty(t, DetectClusters(contacts, edges))
	assert.Equal(t, []string{"a", "b"}, ids(FindIsolatedContacts(contacts, edges)))
}

func TestDetect_ClusterAttributes(t *testing.T) {
	contacts := []model.Contact{
		{ID: "a", Country: "DE", Tags: []string{"investor", "ai"}},
		{ID: "b", Country: "DE", Tags: []string{"investor"}},
		{ID: "c", Country: "FR", Tags: []string{"ai", "ai"}},
		{ID: "d", Country: "DE", Tags: []string{"golf"}},
	}
	edges := []model.ContactConnection{
		{SourceContactID: "a", TargetContactID: "b", ConnectionType: model.ConnectionWorksWith, Strength: model.IntPtr(4)},
		{SourceContactID: "b", TargetContactID: "c", ConnectionType: model.ConnectionKnows, Strength: model.IntPtr(2)},
		{SourceContactID: "c", TargetContactID: "d", ConnectionType: model.ConnectionKnows},
		{SourceContactID: "d", TargetContactID: "a", ConnectionType: model.ConnectionWorksWith, Strength: model.IntPtr(5)},
	}

	clusters := DetectClusters(contacts, edges)
	require.Len(t, clusters, 1)
	c := clusters[0]

	assert.Equal(t, 4, c.InternalEdges)
	assert.InDelta(t, 3.5, c.AvgStrength, 1e-9)
	// works_with and knows tie at 2; works_with was seen first
	assert.Equal(t, model.ConnectionWorksWith, c.DominantType)
	// investor 2/4 and ai 2/4 reach the 50% share; golf does not
	assert.Equal(t, []string{"investor", "ai"}, c.SharedTags)
	// DE is 3/4 = 75% >= 60%
	assert.Equal(t, "DE", c.CommonCountry)
}

func TestDetect_NoCommonCountryBelowShare(t *testing.T) {
	contacts := []model.Contact{
		{ID: "a", Country: "DE"},
		{ID: "b", Country: "FR"},
	}
	edges := []model.ContactConnection{{SourceContactID: "a", TargetContactID: "b"}}

	clusters := DetectClusters(contacts, edges)
	require.Len(t, clusters, 1)
	assert.Empty(t, clusters[0].CommonCountry)
}

func TestDetect_Idempotent(t *testing.T) {
	contacts := []model.Contact{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	edges := []model.ContactConnection{
		{SourceContactID: "1", TargetContactID: "2"},
		{SourceContactID: "3", TargetContactID: "4"},
	}

	assert.Equal(t, DetectClusters(contacts, edges), DetectClusters(contacts, edges))
}
