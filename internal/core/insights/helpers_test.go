package insights

import (
	"fmt"
	"time"

	"github.com/agenthands/kinship/internal/core/model"
	"pgregory.net/rapid"
)

var asOf = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return asOf.Add(-time.Duration(n) * day)
}

func people(ids ...string) []model.Contact {
	out := make([]model.Contact, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Contact{ID: id, Name: id})
	}
	return out
}

func edge(src, dst string, strength int, bidirectional bool) model.ContactConnection {
	return model.ContactConnection{
		ID:              src + "-" + dst,
		SourceContactID: src,
		TargetContactID: dst,
		ConnectionType:  model.ConnectionKnows,
		Strength:        model.IntPtr(strength),
		Bidirectional:   bidirectional,
	}
}

func touches(contactID string, days ...int) []model.Interaction {
	out := make([]model.Interaction, 0, len(days))
	for i, d := range days {
		out = append(out, model.Interaction{
			ID:        fmt.Sprintf("%s-%d", contactID, i),
			ContactID: contactID,
			Date:      daysAgo(d),
			Type:      "call",
		})
	}
	return out
}

func favors(contactID string, given, received int) []model.Favor {
	var out []model.Favor
	for i := 0; i < given; i++ {
		out = append(out, model.Favor{ContactID: contactID, Direction: model.FavorGiven})
	}
	for i := 0; i < received; i++ {
		out = append(out, model.Favor{ContactID: contactID, Direction: model.FavorReceived})
	}
	return out
}

func contactIDs(contacts []model.Contact) []string {
	out := make([]string, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, c.ID)
	}
	return out
}

var tagPool = []string{"investor", "founder", "ai", "golf"}

// drawNetwork generates small networks with shared attributes so that
// introductions and clusters both have something to find.
func drawNetwork(t *rapid.T) ([]model.Contact, []model.ContactConnection) {
	n := rapid.IntRange(0, 10).Draw(t, "contacts")
	contacts := make([]model.Contact, n)
	for i := range contacts {
		c := model.Contact{
			ID:      fmt.Sprintf("c%d", i),
			Company: rapid.SampledFrom([]string{"", "Acme", "Globex"}).Draw(t, fmt.Sprintf("company%d", i)),
			Country: rapid.SampledFrom([]string{"", "DE", "FR"}).Draw(t, fmt.Sprintf("country%d", i)),
		}
		for _, tag := range tagPool {
			if rapid.Bool().Draw(t, fmt.Sprintf("tag%d-%s", i, tag)) {
				c.Tags = append(c.Tags, tag)
			}
		}
		contacts[i] = c
	}
	if n == 0 {
		return contacts, nil
	}
	m := rapid.IntRange(0, 20).Draw(t, "edges")
	edges := make([]model.ContactConnection, m)
	for i := range edges {
		a := rapid.IntRange(0, n-1).Draw(t, fmt.Sprintf("src%d", i))
		b := rapid.IntRange(0, n-1).Draw(t, fmt.Sprintf("dst%d", i))
		edges[i] = edge(contacts[a].ID, contacts[b].ID,
			rapid.IntRange(1, 5).Draw(t, fmt.Sprintf("strength%d", i)),
			rapid.Bool().Draw(t, fmt.Sprintf("bi%d", i)))
	}
	return contacts, edges
}
