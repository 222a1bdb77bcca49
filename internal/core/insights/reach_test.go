package insights

import (
	"testing"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkReachAnalysis(t *testing.T) {
	contacts := people("a", "b", "c", "d")
	edges := []model.ContactConnection{
		edge("a", "b", 3, true),
		edge("b", "c", 3, false),
		edge("c", "ghost", 3, false),
	}

	reach := NetworkReachAnalysis(contacts, edges)

	// every edge endpoint is already direct reach, so the outer rings stay empty
	assert.Equal(t, model.NetworkReach{DirectReach: 3}, reach)
}

func TestNetworkReachAnalysis_Empty(t *testing.T) {
	assert.Equal(t, model.NetworkReach{}, NetworkReachAnalysis(people("a"), nil))
}

func TestNetworkReachFrom(t *testing.T) {
	contacts := people("me", "a", "b", "c", "d", "x")
	edges := []model.ContactConnection{
		edge("me", "a", 3, true),
		edge("a", "b", 3, false),
		edge("b", "c", 3, false),
		edge("c", "d", 3, false),
		edge("x", "me", 3, false),
	}

	reach := NetworkReachFrom(contacts, edges, "me")

	assert.Equal(t, model.NetworkReach{DirectReach: 1, SecondDegree: 1, ThirdDegree: 1}, reach)
}

func TestNetworkReachFrom_RingsAreDisjoint(t *testing.T) {
	contacts := people("me", "a", "b")
	edges := []model.ContactConnection{
		edge("me", "a", 3, true),
		edge("me", "b", 3, true),
		edge("a", "b", 3, true),
	}

	assert.Equal(t, model.NetworkReach{DirectReach: 2}, NetworkReachFrom(contacts, edges, "me"))
}

func TestGeographicConnectionDensity(t *testing.T) {
	contacts := []model.Contact{
		{ID: "a", Country: "DE"},
		{ID: "b", Country: "DE"},
		{ID: "c", Country: "FR"},
		{ID: "d", Country: "FR"},
		{ID: "e", Country: "FR"},
		{ID: "f", Country: "US"},
		{ID: "g"},
	}
	edges := []model.ContactConnection{
		edge("a", "b", 3, false),
		edge("c", "d", 3, false),
		edge("a", "c", 3, false),
		edge("f", "a", 3, false),
		edge("e", "e", 3, false),
	}

	got := GeographicConnectionDensity(contacts, edges)

	require.Len(t, got, 2)
	assert.Equal(t, "FR", got[0].Country)
	assert.Equal(t, 3, got[0].ContactCount)
	assert.Equal(t, 1, got[0].InternalEdges)
	assert.InDelta(t, 1.0/3.0, got[0].Density, 1e-9)
	assert.Equal(t, model.CountryDensity{Country: "DE", ContactCount: 2, InternalEdges: 1, Density: 1}, got[1])
}

func TestGeographicConnectionDensity_NoQualifyingCountry(t *testing.T) {
	contacts := []model.Contact{{ID: "a", Country: "DE"}, {ID: "b", Country: "FR"}}

	assert.Empty(t, GeographicConnectionDensity(contacts, nil))
}
