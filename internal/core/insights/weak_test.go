package insights

import (
	"testing"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reasonsFor(alerts []model.WeakConnectionAlert, connectionID string) []model.WeakLinkReason {
	var out []model.WeakLinkReason
	for _, a := range alerts {
		if a.Connection.ID == connectionID {
			out = append(out, a.Reason)
		}
	}
	return out
}

func TestFindWeakConnections(t *testing.T) {
	contacts := people("A", "B", "C")
	edges := []model.ContactConnection{
		edge("A", "B", 5, true),
		edge("B", "C", 1, false),
	}

	alerts := FindWeakConnections(contacts, edges, nil, asOf)

	assert.ElementsMatch(t,
		[]model.WeakLinkReason{model.WeakLowStrength, model.WeakOneDirectional},
		reasonsFor(alerts, "B-C"))
	// strong tie with no interactions on either side
	assert.Equal(t, []model.WeakLinkReason{model.WeakNoRecentInteraction}, reasonsFor(alerts, "A-B"))

	require.Len(t, alerts, 3)
	assert.Equal(t, model.WeakNoRecentInteraction, alerts[0].Reason)
	assert.Equal(t, model.WeakLowStrength, alerts[1].Reason)
	assert.Equal(t, model.WeakOneDirectional, alerts[2].Reason)
	assert.Equal(t, "B", alerts[1].Source.ID)
	assert.Equal(t, "C", alerts[1].Target.ID)
}

func TestFindWeakConnections_RecentInteractionOnEitherSide(t *testing.T) {
	contacts := people("A", "B")
	edges := []model.ContactConnection{edge("A", "B", 4, true)}

	assert.Empty(t, FindWeakConnections(contacts, edges, touches("B", 89), asOf))

	alerts := FindWeakConnections(contacts, edges, touches("B", 91), asOf)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.WeakNoRecentInteraction, alerts[0].Reason)
}

func TestFindWeakConnections_IgnoresInteractionsAfterAsOf(t *testing.T) {
	contacts := people("A", "B")
	edges := []model.ContactConnection{edge("A", "B", 5, true)}

	// A meeting scheduled next week does not count as recent contact.
	alerts := FindWeakConnections(contacts, edges, touches("A", -7), asOf)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.WeakNoRecentInteraction, alerts[0].Reason)

	assert.Empty(t, FindWeakConnections(contacts, edges, touches("A", 0), asOf))
}

func TestFindWeakConnections_NeutralStrengthNotFlagged(t *testing.T) {
	contacts := people("A", "B")
	edges := []model.ContactConnection{{ID: "e", SourceContactID: "A", TargetContactID: "B", Bidirectional: true}}

	assert.Empty(t, FindWeakConnections(contacts, edges, nil, asOf))
}

func TestFindWeakConnections_SkipsDanglingEdges(t *testing.T) {
	edges := []model.ContactConnection{edge("A", "ghost", 1, false)}

	assert.Empty(t, FindWeakConnections(people("A"), edges, nil, asOf))
}
